package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorePath       = "store.path"
	keyWebhookSecret   = "server.webhook_secret"
	keyServerAddr      = "server.addr"
	keyStaticDir       = "server.static_dir"
	keyLLMProvider     = "llm.provider"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMModel        = "llm.model"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyLLMTemperature  = "llm.temperature"
	keyLLMTimeout      = "llm.timeout_seconds"
	keyRAGTopK         = "rag.top_k"
	keyRAGContextChars = "rag.context_max_chars"
	keyRAGWorkers      = "rag.ingest_workers"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	envStorePath       = "RAG_DB"
	envWebhookSecret   = "WEBHOOK_SECRET"
	envServerAddr      = "ASKDESK_ADDR"
	envStaticDir       = "ASKDESK_STATIC_DIR"
	envSystemPrompt    = "DEFAULT_SYSTEM_PROMPT"
	envLLMProvider     = "LLM_PROVIDER"
	envLLMAPIKey       = "LLM_API_KEY"
	envGeminiAPIKey    = "GEMINI_API_KEY"
	envLLMBaseURL      = "LLM_BASE_URL"
	envLLMModel        = "LLM_MODEL"
	envLLMMaxTokens    = "LLM_MAX_TOKENS"
	envLLMTemperature  = "LLM_TEMPERATURE"
	envLLMTimeout      = "LLM_TIMEOUT"
	envRAGTopK         = "RAG_TOP_K"
	envRAGContextChars = "RAG_CONTEXT_MAX_CHARS"
	envRAGWorkers      = "RAG_INGEST_WORKERS"
)

var (
	intKeys = map[string]bool{
		keyLLMMaxTokens: true, keyLLMTimeout: true,
		keyRAGTopK: true, keyRAGContextChars: true, keyRAGWorkers: true,
	}
	floatKeys = map[string]bool{keyLLMTemperature: true}
)

// SettingsService resolves configuration: built-in defaults, then the
// config file, then the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service. dataDir is where the
// default database lives.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dataDir:     dataDir,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup. Used by tests.
func (s *SettingsService) SetEnvLookup(fn func(string) (string, bool)) {
	s.lookupEnv = fn
}

// Keys returns the recognised config keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyStorePath, keyWebhookSecret, keyServerAddr, keyStaticDir,
		keyLLMProvider, keyLLMAPIKey, keyLLMBaseURL, keyLLMModel,
		keyLLMMaxTokens, keyLLMTemperature, keyLLMTimeout,
		keyRAGTopK, keyRAGContextChars, keyRAGWorkers,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	provider := domain.AIProvider(strings.ToLower(s.getString(keyLLMProvider, string(d.LLM.Provider), envLLMProvider)))
	keyEnvs := []string{envLLMAPIKey}
	if provider == domain.AIProviderGemini {
		keyEnvs = append(keyEnvs, envGeminiAPIKey)
	}

	settings := &domain.AppSettings{
		Store: domain.StoreSettings{
			Path: s.getString(keyStorePath, filepath.Join(s.dataDir, "docs.db"), envStorePath),
		},
		Server: domain.ServerSettings{
			Addr:          s.getString(keyServerAddr, d.Server.Addr, envServerAddr),
			WebhookSecret: s.getString(keyWebhookSecret, d.Server.WebhookSecret, envWebhookSecret),
			StaticDir:     s.getString(keyStaticDir, d.Server.StaticDir, envStaticDir),
		},
		LLM: domain.LLMSettings{
			Provider:    provider,
			APIKey:      s.getString(keyLLMAPIKey, "", keyEnvs...),
			BaseURL:     s.getString(keyLLMBaseURL, "", envLLMBaseURL),
			Model:       s.getString(keyLLMModel, "", envLLMModel),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens, envLLMMaxTokens),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature, envLLMTemperature),
			Timeout: time.Duration(s.getInt(keyLLMTimeout, int(d.LLM.Timeout/time.Second), envLLMTimeout)) *
				time.Second,
		},
		RAG: domain.RAGSettings{
			TopK:            s.getInt(keyRAGTopK, d.RAG.TopK, envRAGTopK),
			ContextMaxChars: s.getInt(keyRAGContextChars, d.RAG.ContextMaxChars, envRAGContextChars),
			IngestWorkers:   s.getInt(keyRAGWorkers, d.RAG.IngestWorkers, envRAGWorkers),
		},
	}
	if v, ok := s.env(envSystemPrompt); ok {
		settings.SystemPrompt = v
	}

	if !settings.LLM.Provider.IsValid() {
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, settings.LLM.Provider)
	}
	return settings, nil
}

// Set validates and persists a single config key.
func (s *SettingsService) Set(key, value string) error {
	known := false
	for _, k := range s.Keys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any = value
	switch {
	case intKeys[key]:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case floatKeys[key]:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		typed = f
	case key == keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, value)
		}
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// env returns the first non-empty variable among names.
func (s *SettingsService) env(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := s.lookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

func (s *SettingsService) getString(key, def string, envs ...string) string {
	if v, ok := s.env(envs...); ok {
		return v
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int, envs ...string) int {
	val := def
	if _, ok := s.configStore.Get(key); ok {
		val = s.configStore.GetInt(key)
	}
	if raw, ok := s.env(envs...); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			logger.Warn("ignoring %s=%q: not a non-negative integer", envs[0], raw)
			return val
		}
		val = n
	}
	return val
}

func (s *SettingsService) getFloat(key string, def float64, envs ...string) float64 {
	val := def
	if _, ok := s.configStore.Get(key); ok {
		val = s.configStore.GetFloat(key)
	}
	if raw, ok := s.env(envs...); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			logger.Warn("ignoring %s=%q: not a number", envs[0], raw)
			return val
		}
		val = f
	}
	return val
}
