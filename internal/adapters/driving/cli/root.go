// Package cli is the cobra command-line driving adapter for askdesk.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Global flags.
var (
	verbose   bool
	homeDir   string
	dbPath    string
	useMemory bool
)

// Services used by the commands, set by the bootstrap function or by tests.
var (
	settingsService driving.SettingsService
	documentService driving.DocumentService
	searchService   driving.SearchService
	answerService   driving.AnswerService
	healthService   driving.HealthService
	checkLLM        func(ctx context.Context) error
	closeServices   func() error
)

// skipBootstrapAnnotation marks commands that need no services.
const skipBootstrapAnnotation = "askdesk/skip-bootstrap"

// Options carries the global flag values to the bootstrap function.
type Options struct {
	// Home is the config and data directory. Empty selects ~/.askdesk.
	Home string

	// DBPath overrides the configured database location.
	DBPath string

	// Memory selects the in-memory store instead of SQLite.
	Memory bool
}

// Services bundles everything the commands need.
type Services struct {
	Settings  driving.SettingsService
	Documents driving.DocumentService
	Search    driving.SearchService
	Answer    driving.AnswerService
	Health    driving.HealthService

	// CheckLLM pings the configured provider. Optional.
	CheckLLM func(ctx context.Context) error

	// Close releases stores and pools. Optional.
	Close func() error
}

// BootstrapFunc wires services from the global flags.
type BootstrapFunc func(opts Options) (*Services, error)

var bootstrap BootstrapFunc

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices installs already-wired services.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	documentService = s.Documents
	searchService = s.Search
	answerService = s.Answer
	healthService = s.Health
	checkLLM = s.CheckLLM
	closeServices = s.Close
}

var rootCmd = &cobra.Command{
	Use:   "askdesk",
	Short: "Answer questions from your internal documents",
	Long: `askdesk answers natural-language questions from a local document index.

Documents are stored in SQLite with a full-text index. Each question retrieves
the best matching documents and passes them to a language model as the only
context it may answer from, so every answer comes with its sources.`,
	SilenceUsage:       true,
	PersistentPreRunE:  runBootstrap,
	PersistentPostRunE: runShutdown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "config and data directory (default ~/.askdesk)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides RAG_DB and store.path)")
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "use a throwaway in-memory store")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if needsNoServices(cmd) || bootstrap == nil {
		return nil
	}
	// Already wired (tests, or a parent command).
	if answerService != nil {
		return nil
	}

	svc, err := bootstrap(Options{Home: homeDir, DBPath: dbPath, Memory: useMemory})
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}

func runShutdown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func needsNoServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipBootstrapAnnotation]; ok {
			return true
		}
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

// errNotConfigured builds the error returned when a service is missing.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
