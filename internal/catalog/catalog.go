package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/labreports/constants"
)

// DefaultPFASPages is how many leading pages are scanned for the tests-requested section
// when the catalog does not say.
const DefaultPFASPages = 3

// Catalog is the compiled, validated form of a catalog file. It is read-only after Load.
type Catalog struct {
	Reference   constants.Substance
	Substances  []Substance // declared order of constants.Substances()
	NotDetected []string
	Units       []string
	DateLayouts []string
	DateAnchors []*regexp.Regexp
	PFAS        PFASRule
	Ambiguities []Ambiguity
}

// Substance is one key with its ordered match rules.
type Substance struct {
	Key     constants.Substance
	Aliases []Alias
}

// Alias is a literal name matched on whole-word boundaries.
type Alias struct {
	Text          string
	CaseSensitive bool
	re            *regexp.Regexp
}

// Names reports whether text is one of the substance's own aliases or symbols,
// compared the way each is matched.
func (s Substance) Names(text string) bool {
	for _, a := range s.Aliases {
		if a.CaseSensitive && text == a.Text {
			return true
		}
		if !a.CaseSensitive && strings.EqualFold(text, a.Text) {
			return true
		}
	}
	return false
}

// PFASRule describes how the screening flag is detected.
type PFASRule struct {
	Pages    int
	Headings []string
	Token    string
}

// Ambiguity reports an alias of one substance that also matches inside an alias of another.
type Ambiguity struct {
	Alias    string
	Key      constants.Substance
	Within   string
	OtherKey constants.Substance
}

func (a Ambiguity) String() string {
	return fmt.Sprintf("%s alias %q matches inside %s alias %q", a.Key, a.Alias, a.OtherKey, a.Within)
}

func newAlias(text string, caseSensitive bool) (Alias, error) {
	pattern := `(?:^|[^\p{L}\p{N}])(` + regexp.QuoteMeta(text) + `)(?:$|[^\p{L}\p{N}])`
	if !caseSensitive {
		pattern = `(?i)` + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Alias{}, err
	}
	return Alias{Text: text, CaseSensitive: caseSensitive, re: re}, nil
}

// Find reports the byte offset just past the first whole-word occurrence of the alias in s.
func (a Alias) Find(s string) (int, bool) {
	loc := a.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, false
	}
	return loc[3], true
}

// Keys returns the catalog keys in declared order.
func (c *Catalog) Keys() []constants.Substance {
	out := make([]constants.Substance, len(c.Substances))
	for i, s := range c.Substances {
		out[i] = s.Key
	}
	return out
}

// IsNotDetected reports whether s starts with a not-detected marker followed by a word boundary.
func (c *Catalog) IsNotDetected(s string) bool {
	for _, m := range c.NotDetected {
		if len(s) < len(m) || !strings.EqualFold(s[:len(m)], m) {
			continue
		}
		if len(s) == len(m) || !isWordByte(s[len(m)]) || !isWordByte(m[len(m)-1]) {
			return true
		}
	}
	return false
}

// IsUnit reports whether tok is one of the configured unit tokens.
func (c *Catalog) IsUnit(tok string) bool {
	for _, u := range c.Units {
		if strings.EqualFold(tok, u) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// findAmbiguities reports every alias that whole-word matches inside an alias of a different key.
func findAmbiguities(subs []Substance) []Ambiguity {
	var out []Ambiguity
	for i, s := range subs {
		for j, other := range subs {
			if i == j {
				continue
			}
			for _, a := range s.Aliases {
				for _, b := range other.Aliases {
					if _, ok := a.Find(b.Text); ok {
						out = append(out, Ambiguity{Alias: a.Text, Key: s.Key, Within: b.Text, OtherKey: other.Key})
					}
				}
			}
		}
	}
	return out
}
