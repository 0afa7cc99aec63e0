// Package inferencer implements the streaming inferencer of spec §4.5,
// grounded on gohypo's profiler_adapter.go ("per-field rolling stats,
// finalized once into a result"): it consumes normalized documents and
// grows a tree of InferredField records, one per path, tracking per-type
// counts, sample values, array-length distributions, and value
// distributions for enum-candidate detection.
package inferencer

import (
	"sort"

	"docsynth/adapters/dynamickey"
	"docsynth/domain/document"
	"docsynth/domain/freq"
	"docsynth/domain/schema"
	"docsynth/domain/semantic"
)

// Config tunes retention (spec §4.5 "when storeValues is enabled").
type Config struct {
	StoreValues     bool
	SampleRetention int
	SemanticCatalog []semantic.Detector
}

// DefaultConfig mirrors spec §6 defaults.
func DefaultConfig() Config {
	return Config{
		StoreValues:     true,
		SampleRetention: 20,
		SemanticCatalog: semantic.DefaultCatalog(),
	}
}

type fieldStat struct {
	total int
	types map[string]*typeStat

	arrayLens *freq.Distribution

	stringSamples []string // raw string samples at this path, for semantic scan
}

type typeStat struct {
	count        int
	samples      []interface{}
	valueCounts  map[string]int
	unique       bool
	seenValues   map[string]bool
}

func newFieldStat() *fieldStat {
	return &fieldStat{types: make(map[string]*typeStat)}
}

func newTypeStat() *typeStat {
	return &typeStat{valueCounts: make(map[string]int), seenValues: make(map[string]bool), unique: true}
}

// Inferencer implements ports.InferencerPort.
type Inferencer struct {
	cfg    Config
	fields map[document.Path]*fieldStat
	dyn    *dynamickey.Accumulator // consulted read-only: has this path been promoted?
	count  int
	warn   func(string)
}

// New creates an Inferencer. dyn, if non-nil, must be finalized (its
// GetStats already called) before GetStats is called here: its per-path
// Dynamic classification decides which already-built nested field maps get
// stripped (spec §4.5 "inferencer strips the nested fields map of any field
// whose path is Dynamic").
func New(cfg Config, dyn *dynamickey.Accumulator, warn func(string)) *Inferencer {
	return &Inferencer{
		cfg:    cfg,
		fields: make(map[document.Path]*fieldStat),
		dyn:    dyn,
		warn:   warn,
	}
}

// Observe records one document.
func (inf *Inferencer) Observe(doc document.Document) error {
	inf.count++
	inf.walk(document.Root, doc)
	return nil
}

func (inf *Inferencer) walk(path document.Path, v document.Document) {
	fs := inf.fieldAt(path)
	fs.total++

	ts, ok := fs.types[v.TypeName()]
	if !ok {
		ts = newTypeStat()
		fs.types[v.TypeName()] = ts
	}
	ts.count++

	switch v.Kind {
	case document.KindArray:
		if fs.arrayLens == nil {
			fs.arrayLens = freq.New()
		}
		fs.arrayLens.Update(itoa(len(v.Array)))
		elem := path.Elem()
		for _, item := range v.Array {
			inf.walk(elem, item)
		}
	case document.KindObject:
		for k, child := range v.Object {
			inf.walk(path.Child(k), child)
		}
	case document.KindString:
		fs.stringSamples = inf.retainString(fs.stringSamples, v.Str)
		inf.retainValue(ts, v.Str)
	case document.KindInt:
		inf.retainValue(ts, itoa64(v.Int))
	case document.KindFloat:
		inf.retainValue(ts, ftoa(v.Float))
	default:
		inf.retainSample(ts, v)
	}
}

func (inf *Inferencer) retainString(existing []string, s string) []string {
	if !inf.cfg.StoreValues || len(existing) >= inf.cfg.SampleRetention {
		return existing
	}
	return append(existing, s)
}

func (inf *Inferencer) retainValue(ts *typeStat, key string) {
	if ts.seenValues[key] {
		ts.unique = false
	} else {
		ts.seenValues[key] = true
	}
	if !inf.cfg.StoreValues {
		return
	}
	ts.valueCounts[key]++
	if len(ts.samples) < inf.cfg.SampleRetention {
		ts.samples = append(ts.samples, key)
	}
}

func (inf *Inferencer) retainSample(ts *typeStat, v document.Document) {
	if !inf.cfg.StoreValues || len(ts.samples) >= inf.cfg.SampleRetention {
		return
	}
	ts.samples = append(ts.samples, document.Denormalize(v))
}

func (inf *Inferencer) fieldAt(path document.Path) *fieldStat {
	fs, ok := inf.fields[path]
	if !ok {
		fs = newFieldStat()
		inf.fields[path] = fs
	}
	return fs
}

// GetStats finalizes the field tree into an InferredSchema (spec §4.5).
// Paths that the dynamic-key accumulator passed to New classifies Dynamic
// have their nested field maps stripped.
func (inf *Inferencer) GetStats() (*schema.InferredSchema, []string, error) {
	root := &schema.InferredSchema{Count: inf.count, Fields: make(map[string]*schema.InferredField)}
	inf.buildChildren(document.Root, root.Fields)
	inf.applySemantics(root.Fields)
	return root, nil, nil
}

// buildChildren populates dst with every direct child field of parent.
func (inf *Inferencer) buildChildren(parent document.Path, dst map[string]*schema.InferredField) {
	for path, fs := range inf.fields {
		if path == document.Root || !path.IsDirectChild(parent) {
			continue
		}
		key := childKey(path, parent)
		dst[key] = inf.buildField(path, fs)
	}
}

func (inf *Inferencer) buildField(path document.Path, fs *fieldStat) *schema.InferredField {
	field := &schema.InferredField{
		Name:  lastSegment(path),
		Path:  path.String(),
		Total: fs.total,
	}

	types := make([]string, 0, len(fs.types))
	for t := range fs.types {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		ts := fs.types[t]
		rec := schema.TypeRecord{
			Type:        t,
			Count:       ts.count,
			Probability: ratio(ts.count, fs.total),
			Unique:      ts.unique,
		}
		if len(ts.samples) > 0 {
			rec.SampleValues = ts.samples
		}
		if len(ts.valueCounts) > 0 && len(ts.valueCounts) <= inf.cfg.SampleRetention*2 {
			rec.ValueDistribution = ts.valueCounts
		}
		field.Types = append(field.Types, rec)
	}

	if fs.arrayLens != nil {
		field.ArrayLengths = fs.arrayLens.Counts()
	}

	isDynamic := inf.dyn != nil && inf.dyn.IsDynamic(path)
	if isDynamic {
		field.Nested = map[string]*schema.InferredField{}
	} else if hasChildren(inf.fields, path) {
		field.Nested = make(map[string]*schema.InferredField)
		inf.buildChildren(path, field.Nested)
	}

	return field
}

func (inf *Inferencer) applySemantics(fields map[string]*schema.InferredField) {
	for _, f := range fields {
		for i := range f.Types {
			if f.Types[i].Type != string(document.KindString) {
				continue
			}
			samples := stringSamplesOf(f.Types[i].SampleValues)
			if label, conf, ok := semantic.Scan(inf.cfg.SemanticCatalog, f.Name, samples); ok {
				f.Types[i].SemanticLabel = string(label)
				f.Types[i].SemanticConfidence = conf
			}
		}
		if f.Nested != nil {
			inf.applySemantics(f.Nested)
		}
	}
}

func stringSamplesOf(vals []interface{}) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func hasChildren(fields map[document.Path]*fieldStat, parent document.Path) bool {
	for p := range fields {
		if p.IsDirectChild(parent) {
			return true
		}
	}
	return false
}

func childKey(path, parent document.Path) string {
	full := path.String()
	base := parent.String()
	suffix := full[len(base):]
	if len(suffix) > 0 && suffix[0] == '.' {
		suffix = suffix[1:]
	}
	return suffix
}

func lastSegment(path document.Path) string {
	s := path.String()
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}

func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
