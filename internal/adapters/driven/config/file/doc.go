// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the askdesk home directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - PromptStore: user-editable prompt files (prompts/*.txt)
package file
