package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question",
	Long: `Retrieves the most relevant documents and asks the configured language
model to answer using only those documents. Prints the answer and its sources.

Without a configured provider the sources are still printed, together with a
configuration notice in place of the answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errNotConfigured("answer")
	}

	question := strings.Join(args, " ")
	answer, err := answerService.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	if answer.Sources == nil {
		answer.Sources = []domain.Document{}
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Answer)
	cmd.Println()
	if len(answer.Sources) == 0 {
		cmd.Println("Sources: none")
		return nil
	}
	cmd.Println("Sources:")
	for _, src := range answer.Sources {
		cmd.Printf("  [%d] %s\n", src.ID, src.Title)
	}
	return nil
}
