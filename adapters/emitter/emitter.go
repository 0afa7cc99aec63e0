// Package emitter implements the two document-stream output formats of
// spec §6: NDJSON (one document per line) and a JSON array, both writing
// to an arbitrary byte sink and implementing ports.DocumentSink.
package emitter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"docsynth/domain/document"
)

// NDJSONEmitter writes one \n-terminated JSON document per line, with no
// leading whitespace (spec §6).
type NDJSONEmitter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewNDJSON wraps w as an NDJSON sink.
func NewNDJSON(w io.Writer) *NDJSONEmitter {
	bw := bufio.NewWriter(w)
	return &NDJSONEmitter{w: bw, enc: json.NewEncoder(bw)}
}

// Write encodes doc and appends the line terminator (json.Encoder.Encode
// already does, matching spec §6 exactly).
func (e *NDJSONEmitter) Write(_ context.Context, doc document.Document) error {
	return e.enc.Encode(doc)
}

// Close flushes the underlying buffered writer.
func (e *NDJSONEmitter) Close() error {
	return e.w.Flush()
}

// JSONArrayEmitter writes the stream as "[\n" + items separated by ",\n" +
// "\n]\n" (spec §6), including the empty-stream special case "[\n\n]\n".
type JSONArrayEmitter struct {
	w       *bufio.Writer
	started bool
	wrote   bool
}

// NewJSONArray wraps w as a JSON-array sink. The opening bracket is written
// immediately so an empty stream still produces valid output on Close.
func NewJSONArray(w io.Writer) (*JSONArrayEmitter, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("[\n"); err != nil {
		return nil, err
	}
	return &JSONArrayEmitter{w: bw, started: true}, nil
}

// Write appends doc as the next array element.
func (e *JSONArrayEmitter) Write(_ context.Context, doc document.Document) error {
	if !e.started {
		return fmt.Errorf("emitter: JSONArrayEmitter not initialized via NewJSONArray")
	}
	if e.wrote {
		if _, err := e.w.WriteString(",\n"); err != nil {
			return err
		}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	e.wrote = true
	return nil
}

// Close writes the closing "\n]\n" (or, for an empty stream, "\n]\n" after
// the bare "[\n" already written, yielding "[\n\n]\n" per spec §6) and
// flushes.
func (e *JSONArrayEmitter) Close() error {
	if _, err := e.w.WriteString("\n]\n"); err != nil {
		return err
	}
	return e.w.Flush()
}
