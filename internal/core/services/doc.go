// Package services implements the driving port interfaces.
// Services contain the answer pipeline (retrieve, assemble, generate) and
// orchestrate calls to driven ports (adapters).
//
// Services never return generation failures as errors: answers degrade to
// plain-language messages, and retrieval degrades to an empty result.
package services
