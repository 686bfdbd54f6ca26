// Package normalisers extracts document text from files. Each format lives
// in its own subpackage; Default wires them into an extension Registry used
// by the filesystem connector.
package normalisers
