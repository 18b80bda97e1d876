package factcheck

import (
	"errors"
	"strings"
)

// ErrEmptyAllowlist is returned when no usable domain survives normalisation.
var ErrEmptyAllowlist = errors.New("factcheck: trusted domain list is empty")

// DefaultTrustedDomains is the built-in allow-list of global wires, national
// broadcasters and fact-checking organisations.
var DefaultTrustedDomains = []string{
	// Global wires & US
	"reuters.com",
	"apnews.com",
	"bloomberg.com",
	"cnn.com",
	"nytimes.com",
	"washingtonpost.com",
	"wsj.com",
	"npr.org",
	"pbs.org",
	"usatoday.com",

	// UK & Europe
	"bbc.com",
	"theguardian.com",
	"independent.co.uk",
	"sky.com",
	"dw.com",
	"france24.com",
	"euronews.com",

	// Middle East & Asia
	"aljazeera.com",
	"thehindu.com",
	"indianexpress.com",
	"ndtv.com",
	"pti.in",
	"timesofindia.indiatimes.com",
	"hindustantimes.com",
	"livemint.com",
	"nikkei.com",
	"kyodonews.net",
	"scmp.com",
	"channelnewsasia.com",
	"straitstimes.com",

	// Americas (non-US) & Australia
	"cbc.ca",
	"theglobeandmail.com",
	"abc.net.au",
	"smh.com.au",

	// Fact-checkers
	"snopes.com",
	"politifact.com",
	"factcheck.org",
}

// Allowlist is an immutable, ordered set of trusted domain substrings.
// It is safe for concurrent use.
type Allowlist struct {
	entries []string
}

// NewAllowlist normalises entries (trim, lowercase, drop blanks and
// duplicates, keep first-seen order). An empty result is an error.
func NewAllowlist(entries []string) (*Allowlist, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, ErrEmptyAllowlist
	}
	return &Allowlist{entries: out}, nil
}

// MustAllowlist is NewAllowlist that panics; used for the built-in list.
func MustAllowlist(entries []string) *Allowlist {
	al, err := NewAllowlist(entries)
	if err != nil {
		panic(err)
	}
	return al
}

// Entries returns a copy of the normalised entries.
func (a *Allowlist) Entries() []string {
	return append([]string(nil), a.entries...)
}

// Len returns the number of entries.
func (a *Allowlist) Len() int {
	return len(a.entries)
}

// Matches reports whether any entry is a substring of s, case-insensitively.
func (a *Allowlist) Matches(s string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, trusted := range a.entries {
		if strings.Contains(s, trusted) {
			return true
		}
	}
	return false
}

// Trusts reports whether either the URL or the domain of src matches.
func (a *Allowlist) Trusts(src Source) bool {
	return a.Matches(src.URL) || a.Matches(src.Domain)
}

// Filter returns the trusted sources in their original order together with
// the number of sources before filtering.
func (a *Allowlist) Filter(sources []Source) ([]Source, int) {
	kept := make([]Source, 0, len(sources))
	for _, src := range sources {
		if a.Trusts(src) {
			kept = append(kept, src)
		}
	}
	return kept, len(sources)
}
