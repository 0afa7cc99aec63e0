// Package keygen implements the per-pattern key generators of spec §4.8.1:
// UUID v4, 12-byte object-id, ULID, numeric id, prefixed id, and a custom
// regex-driven generator, each deterministic given a *rand.Rand.
package keygen

import (
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"docsynth/domain/pattern"
)

// lowerAlnum, crockfordBase32 and upperAlnum back the ULID/prefixed/custom
// generators (spec §4.8.1).
const (
	lowerAlnum       = "abcdefghijklmnopqrstuvwxyz0123456789"
	crockfordBase32  = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	upperAlnum       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var prefixes = []string{"user", "doc", "item", "order"}

// Generate produces one key of the given pattern using r as the random
// source. now is the clock value used for time-embedded formats (object-id,
// ULID), passed explicitly so callers control determinism. customRegex is
// only consulted for pattern.Custom, and must be the regex body recorded on
// the dynamic-key metadata at detection time (spec §4.4 "custom pattern").
func Generate(name pattern.Name, r *mathrand.Rand, now time.Time, customRegex string) (string, error) {
	switch name {
	case pattern.UUID:
		return generateUUID(r), nil
	case pattern.MongoDBObjectID:
		return generateObjectID(r, now), nil
	case pattern.ULID:
		return generateULID(r, now), nil
	case pattern.NumericID:
		return generateNumericID(r), nil
	case pattern.PrefixedID:
		return generatePrefixedID(r), nil
	case pattern.Custom:
		return generateCustom(r, customRegex), nil
	default:
		return "", fmt.Errorf("keygen: unsupported pattern %q", name)
	}
}

// generateCustom produces a key matching the detected custom regex shape
// via gofakeit's regex generator. gofakeit.New(seed) draws a seed from r so
// repeated runs under the same outer seed reproduce the same key sequence.
// An empty or unsatisfiable regex falls back to a 12-character lowercase
// alphanumeric token.
func generateCustom(r *mathrand.Rand, regexBody string) string {
	if regexBody == "" {
		return randomString(r, 12, lowerAlnum)
	}
	faker := gofakeit.New(uint64(r.Int63()))
	s := faker.Regex(regexBody)
	if s == "" {
		return randomString(r, 12, lowerAlnum)
	}
	return s
}

// generateUUID builds a v4 UUID seeded from r so the sequence is
// reproducible under a fixed seed (spec §4.8.1, §8 invariant 5), rather than
// calling uuid.New() which reads crypto/rand directly.
func generateUUID(r *mathrand.Rand) string {
	var b [16]byte
	for i := range b {
		b[i] = byte(r.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// generateObjectID builds a 12-byte object-id hex string with the top 4
// bytes equal to the current Unix seconds, big-endian (spec §4.8.1).
func generateObjectID(r *mathrand.Rand, now time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(now.Unix()))
	for i := 4; i < 12; i++ {
		b[i] = byte(r.Intn(256))
	}
	return fmt.Sprintf("%x", b)
}

// generateULID renders a 26-character ULID-shaped key: the first 10
// characters encode the current millis in Crockford base32, the remaining 16
// are random uppercase alphanumerics (spec §4.8.1). The random part may
// contain I, L, O and U, which are outside the Crockford alphabet.
func generateULID(r *mathrand.Rand, now time.Time) string {
	millis := uint64(now.UnixMilli())
	var timePart [10]byte
	for i := 9; i >= 0; i-- {
		timePart[i] = crockfordBase32[millis%32]
		millis /= 32
	}
	randPart := randomString(r, 16, upperAlnum)
	return string(timePart[:]) + randPart
}

// generateNumericID draws a numeric id in [10^5, 10^9 - 1] (spec §4.8.1).
func generateNumericID(r *mathrand.Rand) string {
	const lo, hi = 100000, 999999999
	return fmt.Sprintf("%d", lo+r.Intn(hi-lo+1))
}

// generatePrefixedID builds "{user|doc|item|order}_{16 lowercase alnum}".
func generatePrefixedID(r *mathrand.Rand) string {
	prefix := prefixes[r.Intn(len(prefixes))]
	return prefix + "_" + randomString(r, 16, lowerAlnum)
}

func randomString(r *mathrand.Rand, n int, alphabet string) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return sb.String()
}
