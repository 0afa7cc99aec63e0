// Package freq implements the frequency-map primitives of spec §4.1:
// weighted sampling, percentile, and summary statistics over integer-keyed
// (stringified) frequency distributions, with a prepared cumulative-weight
// cache for repeated sampling.
package freq

import (
	"fmt"
	"sort"
	"strconv"

	"docsynth/domain/core"
)

// Distribution is a mapping from a stringified value to a positive integer
// count (spec §3 FrequencyDistribution). Counts are always >= 1; a key is
// removed rather than zeroed out.
type Distribution struct {
	counts map[string]int
	// insertion order is preserved so Sample's cumulative table is built
	// over "sorted insertion order" exactly as spec §4.1 describes: key
	// order need not be numeric, just stable.
	order    []string
	prepared *prepared
}

// prepared is the cached cumulative-weight table, invalidated whenever the
// distribution is mutated. Kept as a field on Distribution rather than a
// side map keyed by identity — Go gives every Distribution a stable address
// once allocated, which is the simplest "auxiliary map keyed by distribution
// identity" a single-threaded accumulator needs (design note, §9).
type prepared struct {
	keys       []string
	cumulative []int
	total      int
}

// New creates an empty Distribution.
func New() *Distribution {
	return &Distribution{counts: make(map[string]int)}
}

// Update increments the count at key String(v).
func (d *Distribution) Update(key string) {
	if d.counts == nil {
		d.counts = make(map[string]int)
	}
	if _, exists := d.counts[key]; !exists {
		d.order = append(d.order, key)
	}
	d.counts[key]++
	d.prepared = nil
}

// UpdateBy increments the count at key by n (n must be >= 1); used when
// merging distributions during dynamic-key path migration.
func (d *Distribution) UpdateBy(key string, n int) {
	if n <= 0 {
		return
	}
	if d.counts == nil {
		d.counts = make(map[string]int)
	}
	if _, exists := d.counts[key]; !exists {
		d.order = append(d.order, key)
	}
	d.counts[key] += n
	d.prepared = nil
}

// Counts returns the raw key->count map. Callers must not mutate it.
func (d *Distribution) Counts() map[string]int {
	return d.counts
}

// Total returns the sum of all counts.
func (d *Distribution) Total() int {
	total := 0
	for _, c := range d.counts {
		total += c
	}
	return total
}

// Unique returns the number of distinct keys.
func (d *Distribution) Unique() int {
	return len(d.counts)
}

// Empty reports whether the distribution has no entries.
func (d *Distribution) Empty() bool {
	return len(d.counts) == 0
}

// ensurePrepared builds and caches the cumulative-weight table over
// insertion order, as spec §4.1 requires for O(log n)/O(n) repeated sampling.
func (d *Distribution) ensurePrepared() *prepared {
	if d.prepared != nil {
		return d.prepared
	}
	keys := make([]string, 0, len(d.order))
	cumulative := make([]int, 0, len(d.order))
	running := 0
	for _, k := range d.order {
		c, ok := d.counts[k]
		if !ok || c <= 0 {
			continue
		}
		running += c
		keys = append(keys, k)
		cumulative = append(cumulative, running)
	}
	p := &prepared{keys: keys, cumulative: cumulative, total: running}
	d.prepared = p
	return p
}

// Sample draws a key given r in [0,1): it computes (or reuses) the cached
// cumulative table and returns the key whose cumulative range contains
// r*total.
func (d *Distribution) Sample(r float64) (string, error) {
	if d.Empty() {
		return "", core.ErrEmptyDistribution
	}
	if r < 0 || r >= 1 {
		return "", fmt.Errorf("freq: sample input must be in [0,1), got %v", r)
	}
	p := d.ensurePrepared()
	if p.total == 0 {
		return "", core.ErrEmptyDistribution
	}
	target := r * float64(p.total)
	// cumulative table is monotonic; linear scan is the documented O(n)
	// fallback, binary search below is the O(log n) fast path.
	idx := sort.Search(len(p.cumulative), func(i int) bool {
		return float64(p.cumulative[i]) > target
	})
	if idx >= len(p.keys) {
		idx = len(p.keys) - 1
	}
	return p.keys[idx], nil
}

// Percentile sorts keys numerically and advances cumulatively until
// cum >= q*total, returning that key's numeric value.
func (d *Distribution) Percentile(q float64) (float64, error) {
	if d.Empty() {
		return 0, core.ErrEmptyDistribution
	}
	if q < 0 || q > 1 {
		return 0, core.ErrPercentileRange
	}
	type entry struct {
		numeric float64
		count   int
	}
	entries := make([]entry, 0, len(d.counts))
	for k, c := range d.counts {
		n, err := strconv.ParseFloat(k, 64)
		if err != nil {
			continue
		}
		entries = append(entries, entry{numeric: n, count: c})
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("freq: no numeric keys to percentile over")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].numeric < entries[j].numeric })

	total := 0
	for _, e := range entries {
		total += e.count
	}
	target := q * float64(total)
	cum := 0
	for _, e := range entries {
		cum += e.count
		if float64(cum) >= target {
			return e.numeric, nil
		}
	}
	return entries[len(entries)-1].numeric, nil
}

// Stats is the single-pass min/max/median/p95/total/unique summary spec
// §4.1 requires.
type Stats struct {
	Min, Max, Median, P95 float64
	Total                 int
	Unique                int
}

// Stats computes summary statistics over the distribution's numeric keys.
func (d *Distribution) Stats() (Stats, error) {
	if d.Empty() {
		return Stats{}, core.ErrEmptyDistribution
	}
	min, err := d.Percentile(0)
	if err != nil {
		return Stats{}, err
	}
	max, err := d.Percentile(1)
	if err != nil {
		return Stats{}, err
	}
	median, err := d.Percentile(0.5)
	if err != nil {
		return Stats{}, err
	}
	p95, err := d.Percentile(0.95)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Min:    min,
		Max:    max,
		Median: median,
		P95:    p95,
		Total:  d.Total(),
		Unique: d.Unique(),
	}, nil
}

// Merge folds other's counts into d, used when migrating per-path statistics
// during dynamic-key promotion (spec §4.4 step "Migrate").
func (d *Distribution) Merge(other *Distribution) {
	if other == nil {
		return
	}
	for _, k := range other.order {
		d.UpdateBy(k, other.counts[k])
	}
}

// Clone returns a deep copy, used by tests that assert against a
// pre-mutation snapshot.
func (d *Distribution) Clone() *Distribution {
	out := New()
	for _, k := range d.order {
		out.UpdateBy(k, d.counts[k])
	}
	return out
}
