package domain

import "time"

// Answer is the result of one question/answer cycle.
type Answer struct {
	// Answer is the generated text. It is never empty: configuration and
	// provider failures are reported as plain-language answers.
	Answer string `json:"answer"`

	// Sources are the documents placed in the context, in rank order.
	Sources []Document `json:"sources"`

	// Model names the configured language model, empty when none is configured.
	Model string `json:"model,omitempty"`
}

// DefaultSystemPrompt is the built-in system instruction for grounded answers.
const DefaultSystemPrompt = "You are a helpful technical support assistant. " +
	"Your answers must be based strictly on the provided context. " +
	"If the answer cannot be found in the context, explicitly state that you don't know."

// HealthStatusOK is the only status reported by a live process.
const HealthStatusOK = "ok"

// Health is the liveness signal. It does not reflect storage health.
type Health struct {
	Status    string    `json:"status"`
	Provider  string    `json:"provider"`
	Timestamp time.Time `json:"-"`
}
