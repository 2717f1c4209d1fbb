// Package cborev connects CBOR (RFC 8949) to the event protocol.
//
// Parser reads one data item and reports definite-length containers sized
// and indefinite-length containers unsized. Writer mirrors that: sized
// containers get definite-length heads, unsized ones an indefinite head
// and a break.
package cborev
