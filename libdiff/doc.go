// Package libdiff computes differences between values.
//
// # Usage
//
//	// Structural changes, in application order
//	changes := libdiff.Diff(oldNode, newNode)
//
//	// The same changes as a JSON Patch document
//	patch := libdiff.Patch(changes)
//
//	// A line diff of the indented JSON renderings
//	text, err := libdiff.Lines(oldNode, newNode)
//
// # Related Packages
//
//   - github.com/signadot/evjson/ir - value representation
//   - github.com/signadot/evjson/patch - applies JSON Patch documents
package libdiff
