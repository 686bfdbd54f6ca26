package driving

import "github.com/custodia-labs/askdesk/internal/core/domain"

// SettingsService resolves and persists application settings.
type SettingsService interface {
	// Get resolves settings from defaults, the config file and the environment.
	Get() (*domain.AppSettings, error)

	// Set persists a single config key.
	Set(key, value string) error

	// Keys returns the recognised config keys in display order.
	Keys() []string
}
