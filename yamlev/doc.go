// Package yamlev connects YAML documents to the event protocol.
//
// Parser walks the syntax tree of a single document and reports sized
// containers. Writer collects a node tree and encodes it once the top-level
// value completes.
package yamlev
