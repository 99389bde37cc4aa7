package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/catalog"
	"github.com/joseph-ayodele/labreports/internal/entity"
)

// MatchKind is what the text after an alias turned out to hold.
type MatchKind int

const (
	NoMatch MatchKind = iota
	MatchNotDetected
	MatchNumber
)

func (k MatchKind) String() string {
	switch k {
	case MatchNotDetected:
		return "not_detected"
	case MatchNumber:
		return "number"
	default:
		return "no_match"
	}
}

// Hit is one substance recognised on a line.
type Hit struct {
	Key   constants.Substance
	Alias string
	Kind  MatchKind
	Value entity.Measurement
}

var (
	rePlainNumber     = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reThousandsNumber = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
)

// MatchLine evaluates every substance against line independently. Within a
// substance the first alias that occurs wins; substances whose alias is absent
// are left out, ones whose alias is present but not followed by a value come
// back as NoMatch.
func (e *Extractor) MatchLine(line string) []Hit {
	var hits []Hit
	for _, sub := range e.cat.Substances {
		for _, alias := range sub.Aliases {
			end, ok := alias.Find(line)
			if !ok {
				continue
			}
			kind, value := e.scanValue(sub, line[end:])
			hits = append(hits, Hit{Key: sub.Key, Alias: alias.Text, Kind: kind, Value: value})
			break
		}
	}
	return hits
}

// scanValue looks at the text right after an alias of sub. Punctuation, unit
// tokens and sub's own names (the "(Pb)" of "Lead(Pb)") may sit between the
// alias and the value; any other word means no value.
//
// In table rows the unit column comes before the detection limit and the
// result, as in "Lead (Pb) mg/kg 2 N.D.". Once a unit has been passed, a
// not-detected marker later in the row outranks the number.
func (e *Extractor) scanValue(sub catalog.Substance, rest string) (MatchKind, entity.Measurement) {
	fields := strings.Fields(rest)
	sawUnit := false
	for i, tok := range fields {
		if e.notDetectedFrom(fields[i:]) {
			return MatchNotDetected, entity.NotDetected()
		}
		clean := strings.TrimLeft(strings.TrimRight(tok, ",;:)"), "(:")
		if clean != "" && clean[0] >= '0' && clean[0] <= '9' {
			v, ok := parseNumber(clean)
			if !ok || looksLikeYear(clean, v) {
				return NoMatch, entity.NotDetected()
			}
			if sawUnit && e.markerAfter(fields[i+1:]) {
				return MatchNotDetected, entity.NotDetected()
			}
			return MatchNumber, entity.Detected(v)
		}
		switch {
		case e.cat.IsUnit(clean):
			sawUnit = true
		case isPunct(tok), sub.Names(unwrapParens(tok)):
		default:
			return NoMatch, entity.NotDetected()
		}
	}
	return NoMatch, entity.NotDetected()
}

func (e *Extractor) notDetectedFrom(fields []string) bool {
	return len(fields) > 0 && e.cat.IsNotDetected(strings.Join(fields, " "))
}

// markerAfter reports whether any position of fields starts a not-detected marker.
func (e *Extractor) markerAfter(fields []string) bool {
	for j := range fields {
		if e.notDetectedFrom(fields[j:]) {
			return true
		}
	}
	return false
}

// unwrapParens strips trailing separators and one enclosing pair of parentheses:
// "(Cr(VI))," becomes "Cr(VI)".
func unwrapParens(tok string) string {
	tok = strings.TrimRight(tok, ",;:")
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		return tok[1 : len(tok)-1]
	}
	return tok
}

func parseNumber(tok string) (float64, bool) {
	switch {
	case rePlainNumber.MatchString(tok):
	case reThousandsNumber.MatchString(tok):
		tok = strings.ReplaceAll(tok, ",", "")
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// looksLikeYear catches regulation and year references such as "2011" next to a
// substance name: the value is above 2000 and the token text contains "20".
// tok is the text as printed, so "2,011" passes and "2,020" does not.
func looksLikeYear(tok string, v float64) bool {
	return v > 2000 && strings.Contains(tok, "20")
}

func isPunct(tok string) bool {
	for _, r := range tok {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return tok != ""
}
