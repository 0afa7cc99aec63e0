// Package source provides the reference ports.DocumentSource the pipeline
// runs against end to end: a streaming NDJSON reader over any io.Reader,
// decoding one JSON value per call and handing it to adapters/normalizer so
// vendor tags are recognized and a type hint is recorded at the root path
// (spec §4.4 item 4, §5).
package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"encoding/json"

	"docsynth/adapters/normalizer"
	"docsynth/domain/document"
	"docsynth/ports"
)

// NDJSONSource reads one JSON value per line (or, more loosely, per
// consecutive JSON token, since json.Decoder tolerates insignificant
// whitespace between values) from r.
type NDJSONSource struct {
	dec    *json.Decoder
	closer io.Closer
	norm   *normalizer.Normalizer
}

// NewNDJSON builds a source over r, normalizing every decoded value through
// norm. If r also implements io.Closer, Close releases it.
func NewNDJSON(r io.Reader, norm *normalizer.Normalizer) *NDJSONSource {
	closer, _ := r.(io.Closer)
	return &NDJSONSource{dec: json.NewDecoder(r), closer: closer, norm: norm}
}

var _ ports.DocumentSource = (*NDJSONSource)(nil)

// Next decodes the next value as raw JSON (map[string]interface{},
// []interface{}, or a scalar) and normalizes it (spec §7 "Source error" on
// malformed JSON, "Traversal warning" on malformed vendor tags).
func (s *NDJSONSource) Next(ctx context.Context) (document.Document, bool, error) {
	select {
	case <-ctx.Done():
		return document.Document{}, false, ctx.Err()
	default:
	}

	var raw interface{}
	if err := s.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return document.Document{}, false, nil
		}
		return document.Document{}, false, fmt.Errorf("source/ndjson: decode: %w", err)
	}
	return s.norm.Normalize(raw), true, nil
}

// Close releases the underlying reader, if closable.
func (s *NDJSONSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
