package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/connectors/filesystem"
	"github.com/custodia-labs/askdesk/internal/logger"
)

var watchInitial bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files as they appear in a directory",
	Long: `Watches a directory tree and ingests every .txt, .md or .html file that is
created or written. A file is read once it has been quiet for a short moment,
so an editor save produces one document. Saving again later creates another
document, since documents are append-only. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "ingest existing files before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	ctx := cmd.Context()
	connector := filesystem.New(args[0])
	defer connector.Close()

	if watchInitial {
		docs, err := connector.Scan(ctx)
		if err != nil {
			return err
		}
		if err := ingestBatch(cmd, docs); err != nil {
			return err
		}
	}

	docs, err := connector.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s\n", args[0])

	for doc := range docs {
		id, err := documentService.Ingest(ctx, doc.Title, doc.Content)
		if err != nil {
			logger.Warn("ingest %q: %v", doc.Title, err)
			continue
		}
		cmd.Printf("  [%d] %s\n", id, doc.Title)
	}
	return nil
}
