// Package api is the HTTP driving adapter. It exposes the answer pipeline,
// document ingestion and listing, a health probe and the static chat UI
// over a gin router. Handlers translate between JSON and the driving ports
// and never contain pipeline logic.
package api
