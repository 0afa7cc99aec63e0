package httpapi

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"docsynth/adapters/generator"
	"docsynth/adapters/normalizer"
	"docsynth/adapters/rng"
	"docsynth/adapters/source"
	"docsynth/domain/document"
	"docsynth/domain/schema"
	"docsynth/ports"
)

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// newBodyNormalizer builds a normalizer that surfaces traversal warnings as
// gin warning headers instead of stderr, mirroring the CLI's stderr
// reporting for the same spec §7 "traversal warning" concern.
func newBodyNormalizer(c *gin.Context) *normalizer.Normalizer {
	return normalizer.New(func(path document.Path, message string) {
		c.Writer.Header().Add("X-Docsynth-Warning", fmt.Sprintf("%s: %s", path, message))
	})
}

func newNDJSONSource(body io.ReadCloser, norm *normalizer.Normalizer) ports.DocumentSource {
	return source.NewNDJSON(body, norm)
}

func newGenerator(genSchema *schema.GenerationSchema, seed int64) ports.GeneratorPort {
	return generator.New(genSchema, rng.New(), generator.Config{Seed: seed})
}

// memorySink collects generated documents for a JSON response body instead
// of writing to a stream (the CLI's adapters/emitter targets a file/stdout;
// the HTTP surface returns one JSON array response instead).
type memorySink struct {
	docs []document.Document
}

func newMemorySink() *memorySink {
	return &memorySink{}
}

func (m *memorySink) Write(_ context.Context, doc document.Document) error {
	m.docs = append(m.docs, doc)
	return nil
}

func (m *memorySink) Close() error { return nil }
