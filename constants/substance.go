package constants

import (
	"strings"
)

// Substance is a regulated-substance key. Declaration order of allSubstances
// is the column order used everywhere a report row is rendered.
type Substance string

const (
	Lead      Substance = "Pb"
	Cadmium   Substance = "Cd"
	Mercury   Substance = "Hg"
	Chromium6 Substance = "Cr6+"
	PBB       Substance = "PBB"
	PBDE      Substance = "PBDE"
	DEHP      Substance = "DEHP"
	DBP       Substance = "DBP"
	BBP       Substance = "BBP"
	DIBP      Substance = "DIBP"
	Fluorine  Substance = "F"
	Chlorine  Substance = "CL"
	Bromine   Substance = "BR"
	PFOS      Substance = "PFOS"
)

// ReferenceSubstance picks which report's file name represents an aggregated sample.
const ReferenceSubstance = Lead

var allSubstances = []Substance{
	Lead,
	Cadmium,
	Mercury,
	Chromium6,
	PBB,
	PBDE,
	DEHP,
	DBP,
	BBP,
	DIBP,
	Fluorine,
	Chlorine,
	Bromine,
	PFOS,
}

// Substances returns the catalog keys in declared order.
func Substances() []Substance {
	out := make([]Substance, len(allSubstances))
	copy(out, allSubstances)
	return out
}

// CanonicalizeSubstance maps a key as written in a catalog file to its enum value.
func CanonicalizeSubstance(input string) (Substance, bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Substance{
		"lead":     Lead,
		"cadmium":  Cadmium,
		"mercury":  Mercury,
		"cr(vi)":   Chromium6,
		"cr6":      Chromium6,
		"cr vi":    Chromium6,
		"crvi":     Chromium6,
		"fluorine": Fluorine,
		"chlorine": Chlorine,
		"bromine":  Bromine,
		"pbbs":     PBB,
		"pbdes":    PBDE,
	}

	if s, ok := synonyms[normalized]; ok {
		return s, true
	}

	for _, s := range allSubstances {
		if normalized == strings.ToLower(string(s)) {
			return s, true
		}
	}

	return "", false
}
