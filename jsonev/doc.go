// Package jsonev connects JSON text to the event protocol.
//
// Parser is a producer: it tokenizes a document and drives a consumer.
// Writer is a consumer: it writes JSON text for the events it receives.
//
//	w := jsonev.NewWriter(os.Stdout, jsonev.WithIndent("  "))
//	err := jsonev.ParseReader(os.Stdin, w)
//
// Marshal and Unmarshal convert between JSON text and ir.Node.
package jsonev
