package dynamickey

import (
	"docsynth/domain/document"
	"docsynth/domain/pattern"
)

// pathStat is the per-path record the accumulator maintains (spec §4.4
// "Accumulator invariants").
type pathStat struct {
	documentCount   int
	valueTypeCounts map[document.Kind]int
	sampleValues    map[document.Kind]document.Value

	isObject         bool
	keyCounts        map[int]int
	uniqueKeysSample map[string]struct{}
	uniqueKeysOrder  []string // insertion order, for ExampleKeys / pattern detection on a stable slice
	totalUniqueKeys  int

	isDynamic bool
}

func newPathStat() *pathStat {
	return &pathStat{
		valueTypeCounts:  make(map[document.Kind]int),
		sampleValues:     make(map[document.Kind]document.Value),
		keyCounts:        make(map[int]int),
		uniqueKeysSample: make(map[string]struct{}),
	}
}

// Accumulator is the stateful per-path Static/Dynamic tracker (spec §4.4).
// It is owned by exactly one stage worker (spec §5 "Shared resources").
type Accumulator struct {
	cfg   Config
	stats map[document.Path]*pathStat
	warn  func(path document.Path, message string)
}

// NewAccumulator validates cfg and returns an empty accumulator.
func NewAccumulator(cfg Config, warn func(path document.Path, message string)) (*Accumulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Accumulator{
		cfg:   cfg,
		stats: make(map[document.Path]*pathStat),
		warn:  warn,
	}, nil
}

// Observe traverses a normalized document from the root, updating per-path
// statistics and running the promotion rule before descending into each
// object (spec §4.4 "Traversal").
func (a *Accumulator) Observe(doc document.Document) {
	a.traverse(document.Root, doc)
}

// reservedKeys are metadata keys skipped during key-histogram accumulation
// (spec §4.4 "Traversal" item 4: "skips reserved metadata keys").
var reservedKeys = map[string]bool{
	"_id":   true,
	"__v":   true,
	"_rev":  true,
}

func (a *Accumulator) traverse(path document.Path, v document.Document) {
	st := a.statAt(path)
	st.documentCount++
	st.valueTypeCounts[v.Kind]++
	if _, ok := st.sampleValues[v.Kind]; !ok {
		st.sampleValues[v.Kind] = v
	}

	switch v.Kind {
	case document.KindObject:
		st.isObject = true
		keys := make([]string, 0, len(v.Object))
		for k := range v.Object {
			if reservedKeys[k] {
				continue
			}
			keys = append(keys, k)
		}
		st.keyCounts[len(keys)]++
		for _, k := range keys {
			a.recordKey(st, k)
		}

		a.maybePromote(path, st)

		for _, k := range keys {
			child := path.Child(k)
			if st.isDynamic {
				child = path.Wildcard()
			}
			a.traverse(child, v.Object[k])
		}
	case document.KindArray:
		elem := path.Elem()
		for _, item := range v.Array {
			a.traverse(elem, item)
		}
	}
}

func (a *Accumulator) recordKey(st *pathStat, k string) {
	if _, exists := st.uniqueKeysSample[k]; exists {
		return
	}
	st.totalUniqueKeys++
	if len(st.uniqueKeysSample) >= SampleCap {
		return // over the cap: totalUniqueKeys keeps incrementing, sample does not
	}
	st.uniqueKeysSample[k] = struct{}{}
	st.uniqueKeysOrder = append(st.uniqueKeysOrder, k)
}

func (a *Accumulator) statAt(path document.Path) *pathStat {
	st, ok := a.stats[path]
	if !ok {
		st = newPathStat()
		a.stats[path] = st
	}
	return st
}

// maybePromote implements spec §4.4 "Promotion rule". The root path is a
// distinguished Static and can never be promoted (spec invariant 4).
func (a *Accumulator) maybePromote(path document.Path, st *pathStat) {
	if st.isDynamic || path == document.Root {
		return
	}
	if a.cfg.isForceStatic(path) {
		return
	}
	if a.cfg.isForceDynamic(path) {
		a.promote(path, st)
		return
	}
	if st.totalUniqueKeys >= a.cfg.Threshold {
		a.promote(path, st)
		return
	}
	sampleSize := a.cfg.Threshold
	if sampleSize > 10 {
		sampleSize = 10
	}
	if len(st.uniqueKeysSample) < sampleSize {
		return
	}
	det := pattern.DetectDynamicKeys(st.uniqueKeysOrder, pattern.DetectionConfig{
		Threshold:           a.cfg.Threshold,
		MinPatternMatch:     a.cfg.MinPatternMatch,
		ConfidenceThreshold: a.cfg.ConfidenceThreshold,
	}, a.cfg.Catalog)
	if det.Detected && (det.BestMatch != nil || det.Confidence > 0.8) {
		a.promote(path, st)
	}
}

// promote marks path Dynamic and migrates every existing statistic at
// path.<k>[.rest] to path.*[.rest] (spec §4.4 "On promotion").
func (a *Accumulator) promote(path document.Path, st *pathStat) {
	st.isDynamic = true
	wildcard := path.Wildcard()
	target := a.statAt(wildcard)

	for p, other := range a.stats {
		if p == path || p == wildcard {
			continue
		}
		if !isDirectOrDeeperChild(p, path) {
			continue
		}
		rewritten := rewriteUnderWildcard(p, path)
		if rewritten == p {
			continue
		}
		merged := a.statAt(rewritten)
		if rewritten == wildcard {
			mergeStat(target, other)
		} else {
			mergeStat(merged, other)
		}
		delete(a.stats, p)
	}
}

// isDirectOrDeeperChild reports whether p descends from parent by at least
// one literal key segment (array markers included).
func isDirectOrDeeperChild(p, parent document.Path) bool {
	return p.HasPrefix(parent) && p != parent
}

// rewriteUnderWildcard replaces the first segment of p below parent with
// "*", preserving the remainder of the path.
func rewriteUnderWildcard(p, parent document.Path) document.Path {
	full := p.String()
	base := parent.String()
	suffix := full[len(base):]
	// suffix starts with "." or "[]"; either way the first segment is the
	// literal key that must become "*".
	rest := ""
	if len(suffix) > 0 && suffix[0] == '.' {
		suffix = suffix[1:]
		// find end of this segment
		end := len(suffix)
		for i := 0; i < len(suffix); i++ {
			if suffix[i] == '.' || (suffix[i] == '[' && i+1 < len(suffix) && suffix[i+1] == ']') {
				end = i
				break
			}
		}
		rest = suffix[end:]
	}
	return parent.Wildcard() + document.Path(rest)
}

func mergeStat(dst, src *pathStat) {
	dst.documentCount += src.documentCount
	for k, c := range src.valueTypeCounts {
		dst.valueTypeCounts[k] += c
	}
	for k, v := range src.sampleValues {
		if _, ok := dst.sampleValues[k]; !ok {
			dst.sampleValues[k] = v
		}
	}
	if src.isObject {
		dst.isObject = true
	}
	for n, c := range src.keyCounts {
		dst.keyCounts[n] += c
	}
	for _, k := range src.uniqueKeysOrder {
		if _, exists := dst.uniqueKeysSample[k]; exists {
			continue
		}
		dst.totalUniqueKeys++
		if len(dst.uniqueKeysSample) < SampleCap {
			dst.uniqueKeysSample[k] = struct{}{}
			dst.uniqueKeysOrder = append(dst.uniqueKeysOrder, k)
		}
	}
	dst.totalUniqueKeys += src.totalUniqueKeys - len(src.uniqueKeysOrder)
	if src.isDynamic {
		dst.isDynamic = true
	}
}

// IsDynamic reports whether path has been promoted to Dynamic so far. Used
// by the inferencer at finalize time to strip the nested field map of a
// Dynamic path.
func (a *Accumulator) IsDynamic(path document.Path) bool {
	st, ok := a.stats[path]
	return ok && st.isDynamic
}
