// Package generator implements the synthetic document generator of spec
// §4.8: it walks a GenerationSchema and samples a stream of documents from
// the distributions and directives the synthesizer recorded, using a
// per-instance seeded random source (ports.RNGPort) for reproducibility.
package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"docsynth/adapters/generator/keygen"
	"docsynth/domain/core"
	"docsynth/domain/document"
	"docsynth/domain/freq"
	"docsynth/domain/pattern"
	"docsynth/domain/schema"
	"docsynth/ports"
)

// yieldEvery is the cooperative cancellation-check cadence spec §5 names
// ("yields cooperatively roughly every 100 documents").
const yieldEvery = 100

// Config tunes the generator.
type Config struct {
	Seed int64
}

// Generator implements ports.GeneratorPort over a single GenerationSchema.
// A Generator is single-use per stream: Generate owns a running attempt
// counter for one call and draws a fresh *rand.Rand from rng for every
// attempt, seeded from Seed plus that counter (spec §3 Lifecycles).
type Generator struct {
	schema   *schema.GenerationSchema
	rng      ports.RNGPort
	cfg      Config
	warnings []string
}

// New creates a Generator over root, drawing randomness from rng.
func New(root *schema.GenerationSchema, rng ports.RNGPort, cfg Config) *Generator {
	return &Generator{schema: root, rng: rng, cfg: cfg}
}

// Warnings returns non-fatal issues accumulated during the most recent
// Generate call (spec §4.8.1 "warning on failure"), e.g. exhausting the
// uniqueness-rejection budget before reaching the requested count of
// distinct primary keys.
func (g *Generator) Warnings() []string {
	return g.warnings
}

// Generate produces count documents on the returned channel, closing both
// channels when done or when ctx is canceled (spec §4.8, §5). Primary-key
// uniqueness is enforced by rejection sampling across the whole batch,
// bounded at 10*count total attempts (spec §4.8.1); once that budget is
// exhausted the largest unique set so far is emitted and a warning recorded
// rather than stalling indefinitely.
func (g *Generator) Generate(ctx context.Context, count int) (<-chan document.Document, <-chan error) {
	out := make(chan document.Document)
	errs := make(chan error, 1)
	g.warnings = nil

	go func() {
		defer close(out)
		defer close(errs)

		seen := make(map[string]struct{}, count)
		maxAttempts := 10 * count
		if maxAttempts <= 0 {
			maxAttempts = 10
		}

		produced, attempts := 0, 0
		for produced < count {
			if produced%yieldEvery == 0 {
				select {
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				default:
				}
			}

			// Each generation attempt re-seeds from seed+counter (spec
			// §4.8.1), so the random draws of attempt n depend only on the
			// seed and n. Object-id and ULID keys still embed the current
			// clock.
			r := g.rng.Stream(g.cfg.Seed + int64(attempts))
			doc := g.generateNode(g.schema.Node, r, "")
			attempts++
			key := primaryKeyOf(doc)
			if key != "" {
				if _, dup := seen[key]; dup {
					if attempts < maxAttempts {
						continue
					}
					g.warnings = append(g.warnings, "generator: exhausted uniqueness-rejection budget, stopping at the largest unique set generated so far")
					return
				}
				seen[key] = struct{}{}
			}

			select {
			case out <- doc:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
			produced++
		}
	}()

	return out, errs
}

// primaryKeyOf extracts the stringified "_id" value for uniqueness
// tracking, or "" if the document has none (no dedup needed in that case).
func primaryKeyOf(doc document.Document) string {
	if doc.Kind != document.KindObject {
		return ""
	}
	id, ok := doc.Object["_id"]
	if !ok {
		return ""
	}
	return scalarString(id)
}

func scalarString(v document.Document) string {
	switch v.Kind {
	case document.KindString:
		return v.Str
	case document.KindObjectID:
		return v.OID.Hex()
	case document.KindInt:
		return itoa64(v.Int)
	default:
		return ""
	}
}

// generateNode samples one value for node. path is the dotted field path,
// used only to seed per-field gofakeit fakers deterministically alongside r.
func (g *Generator) generateNode(node *schema.Node, r *rand.Rand, path string) document.Document {
	if node == nil {
		return document.Null()
	}
	if node.XDynamicKeys != nil && node.XDynamicKeys.Enabled {
		return g.generateDynamicObject(node.XDynamicKeys, r, path)
	}

	switch node.Type {
	case "object":
		return g.generateObject(node, r, path)
	case "array":
		return g.generateArray(node, r, path)
	case "boolean":
		return document.Bool(r.Intn(2) == 1)
	case "integer":
		return document.Int(int64(g.sampleNumeric(node, r)))
	case "number":
		return document.Float(g.sampleNumeric(node, r))
	case "string":
		return g.generateString(node, r)
	case "null":
		return document.Null()
	default:
		return document.Null()
	}
}

func (g *Generator) generateObject(node *schema.Node, r *rand.Rand, path string) document.Document {
	obj := make(map[string]document.Value, len(node.Properties))
	for name, child := range node.Properties {
		if child.XPresenceProbability != nil && r.Float64() >= *child.XPresenceProbability {
			continue
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		obj[name] = g.generateNode(child, r, childPath)
	}
	return document.Object(obj)
}

func (g *Generator) generateArray(node *schema.Node, r *rand.Rand, path string) document.Document {
	length := sampleCount(node.XArrayLengthDistribution, r, 0)
	items := make([]document.Value, 0, length)
	elemPath := path + "[]"
	for i := 0; i < length; i++ {
		items = append(items, g.generateNode(node.Items, r, elemPath))
	}
	return document.Array(items...)
}

// generateDynamicObject builds an object whose key count and key shapes
// come from DynamicKeyMetadata, and whose per-key value type is sampled
// from the ValueSchema's type distribution (spec §4.4, §4.8).
func (g *Generator) generateDynamicObject(dyn *schema.XDynamicKeys, r *rand.Rand, path string) document.Document {
	meta := dyn.Metadata
	count := sampleCount(meta.KeyCountDistribution, r, 1)
	obj := make(map[string]document.Value, count)

	patName := pattern.Custom
	if meta.Pattern != nil {
		patName = *meta.Pattern
	}
	customRegex := meta.CustomPattern
	if customRegex == string(pattern.HighCardinality) {
		customRegex = ""
	}

	for i := 0; i < count; i++ {
		key, err := keygen.Generate(patName, r, time.Now(), customRegex)
		if err != nil || key == "" {
			continue
		}
		if _, exists := obj[key]; exists {
			continue
		}
		obj[key] = g.sampleDynamicValue(dyn.ValueSchema, r, path)
	}
	return document.Object(obj)
}

func (g *Generator) sampleDynamicValue(vs *schema.DynamicKeyValueSchema, r *rand.Rand, path string) document.Document {
	if vs == nil || len(vs.Schemas) == 0 {
		return document.Null()
	}
	idx := sampleWeightedIndex(vs.Probabilities, r)
	if idx < 0 || idx >= len(vs.Schemas) {
		idx = 0
	}
	return g.generateNode(vs.Schemas[idx], r, path+".*")
}

func (g *Generator) sampleNumeric(node *schema.Node, r *rand.Rand) float64 {
	if len(node.XGenEnumDistribution) > 0 {
		if v, ok := sampleDistributionFloat(node.XGenEnumDistribution, r); ok {
			return v
		}
	}
	min, max := 0.0, 1.0
	if node.Minimum != nil {
		min = *node.Minimum
	}
	if node.Maximum != nil {
		max = *node.Maximum
	}
	if max < min {
		max = min
	}
	return min + r.Float64()*(max-min)
}

func (g *Generator) generateString(node *schema.Node, r *rand.Rand) document.Document {
	if len(node.XGenEnumDistribution) > 0 {
		if v, ok := sampleDistributionString(node.XGenEnumDistribution, r); ok {
			return document.String(v)
		}
	}

	faker := gofakeit.New(uint64(r.Int63()))
	switch node.Format {
	case "objectid":
		return document.String(randomObjectIDHex(r))
	case "uuid":
		return document.String(randomUUID(r))
	case "date-time":
		return document.String(faker.Date().UTC().Format(time.RFC3339))
	case "decimal":
		return document.String(faker.Price(0, 100000))
	case "base64":
		return document.String(faker.LetterN(24))
	// Semantic-label formats (domain/semantic.Label values synthesized
	// verbatim as node.Format by adapters/synthesizer).
	case "email":
		return document.String(faker.Email())
	case "url":
		return document.String(faker.URL())
	case "phone":
		return document.String(faker.Phone())
	case "person_name":
		return document.String(faker.Name())
	case "ip_address":
		return document.String(faker.IPv4Address())
	default:
		return document.String(faker.Word())
	}
}

func randomObjectIDHex(r *rand.Rand) string {
	id, err := keygen.Generate(pattern.MongoDBObjectID, r, time.Now(), "")
	if err != nil {
		return ""
	}
	return id
}

func randomUUID(r *rand.Rand) string {
	var b [16]byte
	for i := range b {
		b[i] = byte(r.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// sampleCount draws a key count from a frequency map recorded as
// map[string]int (stringified integer keys), falling back to fallback when
// the distribution is empty.
func sampleCount(dist map[string]int, r *rand.Rand, fallback int) int {
	if len(dist) == 0 {
		return fallback
	}
	d := freq.New()
	for k, v := range dist {
		d.UpdateBy(k, v)
	}
	key, err := d.Sample(r.Float64())
	if err != nil {
		return fallback
	}
	n, ok := parseIntKey(key)
	if !ok {
		return fallback
	}
	return n
}

func sampleDistributionString(dist map[string]int, r *rand.Rand) (string, bool) {
	d := freq.New()
	for k, v := range dist {
		d.UpdateBy(k, v)
	}
	key, err := d.Sample(r.Float64())
	if err != nil {
		return "", false
	}
	return key, true
}

func sampleDistributionFloat(dist map[string]int, r *rand.Rand) (float64, bool) {
	key, ok := sampleDistributionString(dist, r)
	if !ok {
		return 0, false
	}
	f, ok := parseFloatKey(key)
	return f, ok
}

// sampleWeightedIndex draws an index i in [0,len(weights)) proportional to
// weights[i], used for the dynamic-key value-schema type mixture.
func sampleWeightedIndex(weights []float64, r *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	target := r.Float64() * total
	running := 0.0
	for i, w := range weights {
		running += w
		if target < running {
			return i
		}
	}
	return len(weights) - 1
}

var _ = core.ErrUnknownFormat // format directives outside this switch fall back to a generic word, not an error
