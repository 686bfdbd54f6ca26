package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/connectors/filesystem"
	"github.com/custodia-labs/askdesk/internal/core/domain"
)

var (
	ingestTitle   string
	ingestContent string
	ingestFile    string
	ingestDir     string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add documents to the index",
	Long: `Adds documents to the store and its full-text index. Documents are
append-only: ingesting the same text twice creates two documents.

Sources (exactly one):
  --title T --content C   a single document given inline
  --file PATH             a single file; the title defaults to the file name
  --dir PATH              every .txt, .md and .html file below PATH`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title")
	ingestCmd.Flags().StringVarP(&ingestContent, "content", "c", "", "document content")
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "read the document from a file")
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "ingest all .txt, .md and .html files in a directory")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	modes := 0
	for _, set := range []bool{ingestContent != "", ingestFile != "", ingestDir != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return errors.New("specify exactly one of --content, --file or --dir")
	}

	ctx := cmd.Context()

	if ingestDir != "" {
		connector := filesystem.New(ingestDir)
		defer connector.Close()

		docs, err := connector.Scan(ctx)
		if err != nil {
			return err
		}
		return ingestBatch(cmd, docs)
	}

	title, content := ingestTitle, ingestContent
	if ingestFile != "" {
		data, err := os.ReadFile(ingestFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", ingestFile, err)
		}
		content = string(data)
		if title == "" {
			title = filesystem.TitleFromPath(ingestFile)
		}
	}

	id, err := documentService.Ingest(ctx, title, content)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Ingested %q (id %d)\n", title, id)
	return nil
}

// ingestBatch stores docs concurrently and reports what was stored.
func ingestBatch(cmd *cobra.Command, docs []domain.NewDocument) error {
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	ids, err := documentService.IngestBatch(cmd.Context(), docs)
	stored := 0
	for i, id := range ids {
		if id > 0 {
			stored++
			cmd.Printf("  [%d] %s\n", id, docs[i].Title)
		}
	}
	cmd.Printf("Ingested %d of %d documents\n", stored, len(docs))
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}
