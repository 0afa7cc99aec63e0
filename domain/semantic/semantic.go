// Package semantic implements the semantic detector catalog of spec §4.3:
// field-name and value validators for common identifier-like string
// semantics (Email, URL, UUID, Phone, PersonName, IP), each with a priority
// and a minimum confidence the scanner requires before labeling a field.
package semantic

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// Label names a detected semantic type. Recorded on a string-type field
// record (spec §3 InferredSchemaField).
type Label string

const (
	Email      Label = "email"
	URL        Label = "url"
	UUID       Label = "uuid"
	Phone      Label = "phone"
	PersonName Label = "person_name"
	IPAddress  Label = "ip_address"
)

// Detector pairs field-name heuristics with a value validator.
type Detector struct {
	Label         Label
	NamePatterns  []*regexp.Regexp
	Validate      func(value string) bool
	MinConfidence float64
	Priority      int // lower runs first
}

// NameMatches reports whether fieldName looks like it could hold this
// semantic type, by name alone.
func (d Detector) NameMatches(fieldName string) bool {
	if len(d.NamePatterns) == 0 {
		return true
	}
	lower := strings.ToLower(fieldName)
	for _, re := range d.NamePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func namePattern(fragments ...string) *regexp.Regexp {
	return regexp.MustCompile(strings.Join(fragments, "|"))
}

var personNameWords = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
}

func looksLikePersonName(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	parts := strings.Fields(v)
	if len(parts) < 1 || len(parts) > 4 {
		return false
	}
	letters := 0
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == ' ', r == '-', r == '\'', r == '.':
			letters++
		default:
			return false
		}
	}
	if letters != len([]rune(v)) {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 {
			return false
		}
		if !personNameWords[strings.ToLower(strings.TrimRight(p, "."))] && p[0] < 'A' {
			// still allow, name-casing is not enforced strictly
			continue
		}
	}
	return true
}

// DefaultCatalog returns the built-in semantic detector catalog, ordered by
// Priority ascending (the scanner's iteration order).
func DefaultCatalog() []Detector {
	return []Detector{
		{
			Label:        Email,
			Priority:     0,
			NamePatterns: []*regexp.Regexp{namePattern("email", "e_?mail", "mail")},
			Validate: func(v string) bool {
				_, err := mail.ParseAddress(v)
				return err == nil
			},
			MinConfidence: 0.9,
		},
		{
			Label:        UUID,
			Priority:     1,
			NamePatterns: []*regexp.Regexp{namePattern("uuid", "guid", "_id$", "^id$")},
			Validate: func(v string) bool {
				return regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`).MatchString(v)
			},
			MinConfidence: 0.95,
		},
		{
			Label:        URL,
			Priority:     2,
			NamePatterns: []*regexp.Regexp{namePattern("url", "uri", "link", "href", "website")},
			Validate: func(v string) bool {
				u, err := url.ParseRequestURI(v)
				return err == nil && u.Scheme != "" && u.Host != ""
			},
			MinConfidence: 0.85,
		},
		{
			Label:        IPAddress,
			Priority:     3,
			NamePatterns: []*regexp.Regexp{namePattern("ip$", "ip_address", "ipaddr", "remote_addr")},
			Validate: func(v string) bool {
				return net.ParseIP(v) != nil
			},
			MinConfidence: 0.9,
		},
		{
			Label:        Phone,
			Priority:     4,
			NamePatterns: []*regexp.Regexp{namePattern("phone", "mobile", "tel$", "telephone")},
			Validate: func(v string) bool {
				return regexp.MustCompile(`^\+?[0-9][0-9().\-\s]{6,18}[0-9]$`).MatchString(strings.TrimSpace(v))
			},
			MinConfidence: 0.8,
		},
		{
			Label:        PersonName,
			Priority:     5,
			NamePatterns: []*regexp.Regexp{namePattern("name$", "^full_name", "first_name", "last_name", "customer_name")},
			Validate:     looksLikePersonName,
			MinConfidence: 0.7,
		},
	}
}

// Scan applies the catalog to a field's sampled string values in priority
// order and returns the first detector whose name heuristic matches and
// whose validator passes on at least MinConfidence of samples.
func Scan(catalog []Detector, fieldName string, samples []string) (Label, float64, bool) {
	if len(samples) == 0 {
		return "", 0, false
	}
	for _, d := range catalog {
		if !d.NameMatches(fieldName) {
			continue
		}
		passed := 0
		for _, s := range samples {
			if d.Validate(s) {
				passed++
			}
		}
		confidence := float64(passed) / float64(len(samples))
		if confidence >= d.MinConfidence {
			return d.Label, confidence, true
		}
	}
	return "", 0, false
}
