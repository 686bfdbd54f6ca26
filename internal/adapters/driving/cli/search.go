package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

const snippetLength = 120

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Runs the retrieval step on its own: full-text search over titles and
content, best match first. No language model is involved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	docs := searchService.Retrieve(cmd.Context(), strings.Join(args, " "), searchLimit)

	if searchJSON {
		return outputSearchJSON(cmd, docs)
	}
	return outputSearchTable(cmd, docs)
}

func outputSearchJSON(cmd *cobra.Command, docs []domain.Document) error {
	if docs == nil {
		docs = []domain.Document{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, docs []domain.Document) error {
	if len(docs) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  [%d] %s (id %d)\n", i+1, docs[i].Title, docs[i].ID)
		if snippet := snippet(docs[i].Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}
	return nil
}

// snippet returns the first line of content, cut to snippetLength runes.
func snippet(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	runes := []rune(line)
	if len(runes) > snippetLength {
		return string(runes[:snippetLength]) + "..."
	}
	return line
}
