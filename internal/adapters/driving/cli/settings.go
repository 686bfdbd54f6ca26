package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change askdesk configuration.

Settings are resolved from built-in defaults, then ~/.askdesk/config.toml,
then environment variables (LLM_PROVIDER, GEMINI_API_KEY, RAG_DB,
WEBHOOK_SECRET, DEFAULT_SYSTEM_PROMPT and friends).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config file value",
	Long: `Write a single key to the config file.

Use "-" as the value to be prompted for it without echo (for API keys and
secrets). Run 'askdesk settings keys' to list the recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised config keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider interactively",
	Args:  cobra.NoArgs,
	RunE:  runSettingsLLM,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the LLM provider is reachable",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

// readSecret reads a value without echo when stdin is a terminal.
var readSecret = readPassword

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Path: %s\n", settings.Store.Path)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Static dir: %s\n", settings.Server.StaticDir)
	if settings.Server.WebhookSecret == domain.DefaultWebhookSecret {
		cmd.Printf("  Webhook secret: (default, change before exposing the server)\n")
	} else {
		cmd.Printf("  Webhook secret: %s\n", maskAPIKey(settings.Server.WebhookSecret))
	}
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	model := settings.LLM.Model
	if model == "" {
		model = "(provider default)"
	}
	cmd.Printf("  Model: %s\n", model)
	if settings.LLM.Provider.IsLocal() || settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[RAG]")
	cmd.Printf("  Top K: %d\n", settings.RAG.TopK)
	if settings.RAG.ContextMaxChars > 0 {
		cmd.Printf("  Context limit: %d chars\n", settings.RAG.ContextMaxChars)
	} else {
		cmd.Printf("  Context limit: none\n")
	}
	cmd.Printf("  Ingest workers: %d\n", settings.RAG.IngestWorkers)
	if settings.SystemPrompt != "" {
		cmd.Printf("  System prompt: overridden by environment\n")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key, value := args[0], args[1]
	if value == "-" {
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret()
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	if err := settingsService.Set("llm.provider", selected.String()); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Enter model name (blank for provider default): ")
	if model := readLine(reader); model != "" {
		if err := settingsService.Set("llm.model", model); err != nil {
			return err
		}
	}

	if selected.IsLocal() {
		cmd.Print("Enter base URL: ")
		baseURL := readLine(reader)
		if baseURL == "" && selected.RequiresBaseURL() {
			return errors.New("base URL is required for this provider")
		}
		if baseURL != "" {
			if err := settingsService.Set("llm.base_url", baseURL); err != nil {
				return err
			}
		}
	}

	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey := readSecret()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
		if err := settingsService.Set("llm.api_key", apiKey); err != nil {
			return err
		}
	}

	cmd.Printf("LLM provider configured: %s\n", selected.Description())
	cmd.Println("Run 'askdesk settings check' to verify the provider is reachable.")
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if checkLLM == nil {
		return errNotConfigured("llm")
	}

	cmd.Print("Validating configuration... ")
	if err := checkLLM(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLineFrom(os.Stdin)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLineFrom(r io.Reader) string {
	input, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
