package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

var docsLimit int

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Inspect stored documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Print a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsGet,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain the full-text index",
}

var indexCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the index matches the documents",
	Args:  cobra.NoArgs,
	RunE:  runIndexCheck,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the documents",
	Long: `Re-derives every index entry from the documents table. Documents are
not modified.`,
	Args: cobra.NoArgs,
	RunE: runIndexRebuild,
}

func init() {
	docsListCmd.Flags().IntVarP(&docsLimit, "limit", "n", domain.DefaultListLimit, "maximum number of documents")
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsGetCmd)
	rootCmd.AddCommand(docsCmd)

	indexCmd.AddCommand(indexCheckCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	rootCmd.AddCommand(indexCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	items, err := documentService.ListRecent(cmd.Context(), docsLimit)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if len(items) == 0 {
		cmd.Println("No documents.")
		return nil
	}
	for _, item := range items {
		cmd.Printf("  [%d] %s\n", item.ID, item.Title)
	}
	return nil
}

func runDocsGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	doc, err := documentService.Get(cmd.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("document %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}

	cmd.Printf("ID:      %d\n", doc.ID)
	cmd.Printf("Title:   %s\n", doc.Title)
	if !doc.CreatedAt.IsZero() {
		cmd.Printf("Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runIndexCheck(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	if err := documentService.CheckIndex(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrIndexInconsistent) {
			cmd.Println("Index is inconsistent. Run 'askdesk index rebuild' to repair it.")
		}
		return err
	}
	n, err := documentService.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	cmd.Printf("Index is consistent (%d documents).\n", n)
	return nil
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	if err := documentService.RebuildIndex(cmd.Context()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	n, err := documentService.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	cmd.Printf("Index rebuilt (%d documents).\n", n)
	return nil
}
