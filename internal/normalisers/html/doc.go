// Package html provides a Normaliser for HTML documents. It extracts
// readable text, dropping scripts, styles and markup.
package html
