// Package profiler implements the profiler aggregator of spec §4.6: it
// drives the array-length, numeric-range, semantic-stats, and dynamic-key
// accumulators from a single document stream and composes them into one
// ConstraintsProfile, including the document-size histogram.
package profiler

import (
	"encoding/json"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"docsynth/adapters/dynamickey"
	"docsynth/adapters/profiler/shape"
	"docsynth/adapters/semanticstats"
	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/freq"
	"docsynth/domain/schema"
	"docsynth/domain/semantic"
)

// SizeProxy selects the document-size measurement strategy (spec §4.6).
type SizeProxy string

const (
	SizeProxyLeafFieldCount SizeProxy = "leafFieldCount"
	SizeProxyArrayLengthSum SizeProxy = "arrayLengthSum"
	SizeProxyByteSize       SizeProxy = "byteSize"
)

// Config tunes the aggregator.
type Config struct {
	SizeProxy      SizeProxy
	KeyFieldPolicy constraints.KeyFieldPolicy
	Dynamic        dynamickey.Config
	// SizeBucketBounds, when non-empty, fixes the size-bucket edges instead
	// of auto-deriving three equal thirds of [min,max] (spec §4.6).
	SizeBucketBounds []float64
}

// Profiler implements ports.ProfilerPort.
type Profiler struct {
	cfg Config

	arrayLens map[document.Path]*freq.Distribution
	numeric   map[document.Path][]float64
	semantics *semanticstats.Accumulator
	dyn       *dynamickey.Accumulator

	sizes []float64
}

// New creates a Profiler. Construction fails only if cfg.Dynamic is
// invalid (spec §4.4 "Failure semantics").
func New(cfg Config) (*Profiler, error) {
	dyn, err := dynamickey.NewAccumulator(cfg.Dynamic, nil)
	if err != nil {
		return nil, err
	}
	return &Profiler{
		cfg:       cfg,
		arrayLens: make(map[document.Path]*freq.Distribution),
		numeric:   make(map[document.Path][]float64),
		semantics: semanticstats.New(semantic.DefaultCatalog()),
		dyn:       dyn,
	}, nil
}

// Dynamic returns the profiler's dynamic-key accumulator so callers can wire
// the same instance into an Inferencer (spec §4.5 "inferencer consults the
// dynamic-key classification at finalize time" — both stages must share one
// accumulator rather than keep independent, diverging copies).
func (p *Profiler) Dynamic() *dynamickey.Accumulator {
	return p.dyn
}

// Observe feeds one document into every accumulator.
func (p *Profiler) Observe(doc document.Document) error {
	p.dyn.Observe(doc)
	leafCount, arraySum := p.walk(document.Root, doc)
	switch p.cfg.SizeProxy {
	case SizeProxyArrayLengthSum:
		p.sizes = append(p.sizes, float64(arraySum))
	case SizeProxyByteSize:
		encoded, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		p.sizes = append(p.sizes, float64(len(encoded)))
	default:
		p.sizes = append(p.sizes, float64(leafCount))
	}
	return nil
}

func (p *Profiler) walk(path document.Path, v document.Document) (leafCount, arraySum int) {
	switch v.Kind {
	case document.KindArray:
		dist, ok := p.arrayLens[path]
		if !ok {
			dist = freq.New()
			p.arrayLens[path] = dist
		}
		dist.Update(itoa(len(v.Array)))
		arraySum += len(v.Array)
		elem := path.Elem()
		for _, item := range v.Array {
			l, a := p.walk(elem, item)
			leafCount += l
			arraySum += a
		}
	case document.KindObject:
		for k, child := range v.Object {
			l, a := p.walk(path.Child(k), child)
			leafCount += l
			arraySum += a
		}
	case document.KindInt:
		p.numeric[path] = append(p.numeric[path], float64(v.Int))
		leafCount = 1
	case document.KindFloat:
		p.numeric[path] = append(p.numeric[path], v.Float)
		leafCount = 1
	case document.KindString:
		p.semantics.Observe(path, v.Str)
		leafCount = 1
	default:
		leafCount = 1
	}
	return leafCount, arraySum
}

// GetProfile finalizes every accumulator into a ConstraintsProfile (spec
// §4.6). Traversal warnings never abort this pass; the returned []string is
// always empty today because no traversal at this layer can fail, but the
// signature matches ports.ProfilerPort for callers that wrap warnings from
// upstream stages.
func (p *Profiler) GetProfile() (*constraints.ConstraintsProfile, []string, error) {
	profile := &constraints.ConstraintsProfile{
		ArrayLengths:   make(map[string]constraints.ArrayLengthStats),
		Numeric:        make(map[string]constraints.NumericRangeStats),
		Semantic:       p.semantics.GetProfile(),
		DynamicKeys:    make(map[string]*schema.DynamicKeyMetadata),
		KeyFieldPolicy: p.cfg.KeyFieldPolicy,
	}

	for path, dist := range p.arrayLens {
		fstats, err := dist.Stats()
		if err != nil {
			continue
		}
		profile.ArrayLengths[path.String()] = constraints.ArrayLengthStats{
			Distribution: dist.Counts(),
			Stats: constraints.FreqStats{
				Min: fstats.Min, Max: fstats.Max, Median: fstats.Median, P95: fstats.P95,
				Total: fstats.Total, Unique: fstats.Unique,
			},
		}
	}

	for path, values := range p.numeric {
		profile.Numeric[path.String()] = numericRangeStats(values)
	}

	for path, res := range p.dyn.GetStats() {
		profile.DynamicKeys[path.String()] = res.Metadata
	}

	profile.SizeBuckets = p.sizeBuckets()

	return profile, nil, nil
}

func numericRangeStats(values []float64) constraints.NumericRangeStats {
	min, _ := mstats.Min(values)
	max, _ := mstats.Max(values)
	mean, _ := mstats.Mean(values)
	stddev, _ := mstats.StandardDeviation(values)
	return constraints.NumericRangeStats{
		Min: min, Max: max, Mean: mean, StdDev: stddev,
		ShapeMarkers: shape.Compute(values),
	}
}

// sizeBuckets builds the document-size histogram: three equal thirds of
// [min,max] unless SizeBucketBounds was supplied (spec §4.6).
func (p *Profiler) sizeBuckets() []constraints.SizeBucket {
	if len(p.sizes) == 0 {
		return nil
	}
	sorted := append([]float64(nil), p.sizes...)
	sort.Float64s(sorted)
	min, max := sorted[0], sorted[len(sorted)-1]

	bounds := p.cfg.SizeBucketBounds
	if len(bounds) == 0 {
		span := max - min
		bounds = []float64{min, min + span/3, min + 2*span/3, max}
	}

	labels := []string{"small", "medium", "large"}
	buckets := make([]constraints.SizeBucket, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1 && i < len(labels); i++ {
		lower, upper := bounds[i], bounds[i+1]
		count := 0
		for _, s := range p.sizes {
			if s >= lower && (s < upper || (i == len(bounds)-2 && s <= upper)) {
				count++
			}
		}
		buckets = append(buckets, constraints.SizeBucket{
			Label:       labels[i],
			LowerBound:  lower,
			UpperBound:  upper,
			Count:       count,
			Probability: float64(count) / float64(len(p.sizes)),
		})
	}
	return buckets
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func byteSizeOf(v document.Document) int {
	switch v.Kind {
	case document.KindNull, document.KindBool:
		return 4
	case document.KindInt, document.KindFloat, document.KindTimestamp:
		return 8
	case document.KindString:
		return len(v.Str)
	case document.KindObjectID:
		return 12
	case document.KindDecimal:
		return len(v.Decimal)
	case document.KindBinary:
		return len(v.Binary)
	case document.KindArray:
		total := 0
		for _, item := range v.Array {
			total += byteSizeOf(item)
		}
		return total
	case document.KindObject:
		total := 0
		for k, item := range v.Object {
			total += len(k) + byteSizeOf(item)
		}
		return total
	default:
		return 0
	}
}
