package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// sampleDocuments are ingested by seed when no file is given.
var sampleDocuments = []domain.NewDocument{
	{
		Title:   "Onboarding Flow",
		Content: "When a user signs up, create a profile, send welcome email, and assign to onboarding stage.",
	},
	{
		Title:   "Refund Policy",
		Content: "Refunds are processed within 7 business days after approval. Refunds require order id and reason.",
	},
	{
		Title:   "API Rate Limits",
		Content: "Clients are allowed 1000 requests per day. 429 returned when limit exceeded.",
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample or bulk documents",
	Long: `Ingests documents from a YAML file, or a small built-in sample set when
no file is given.

The file is either a list of documents or a map with a documents key:

  documents:
    - title: Refund Policy
      content: Refunds are processed within 7 business days.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with documents to ingest")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	docs := sampleDocuments
	if seedFile != "" {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", seedFile, err)
		}
		docs, err = parseSeedFile(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", seedFile, err)
		}
	}

	return ingestBatch(cmd, docs)
}

// parseSeedFile accepts a top-level list or a {documents: [...]} map.
func parseSeedFile(data []byte) ([]domain.NewDocument, error) {
	var wrapped struct {
		Documents []domain.NewDocument `yaml:"documents"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Documents) > 0 {
		return wrapped.Documents, nil
	}

	var list []domain.NewDocument
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
