package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/common"
)

const minimalTail = `
dates:
  formats: ["2006/1/2"]
  anchors:
    - label: 'Date'
      shape: '\d{4}/\d{1,2}/\d{1,2}'
pfas:
  headings: ["Test Requested"]
  token: "PFAS"
`

// minimalCatalog lists every key with only its symbol, plus extra YAML for the given keys.
func minimalCatalog(extra map[string]string) string {
	var b strings.Builder
	b.WriteString("reference: Pb\nnot_detected: [\"N.D.\"]\nsubstances:\n")
	for _, k := range constants.Substances() {
		if e, ok := extra[string(k)]; ok {
			b.WriteString(e)
			continue
		}
		b.WriteString("  - key: \"" + string(k) + "\"\n    symbols: [\"" + string(k) + "\"]\n")
	}
	b.WriteString(minimalTail)
	return b.String()
}

func TestDefault_LoadsCleanly(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, constants.Lead, cat.Reference)
	assert.Equal(t, constants.Substances(), cat.Keys())
	assert.Empty(t, cat.Ambiguities, "default catalog must not contain ambiguous aliases")
	assert.Equal(t, 3, cat.PFAS.Pages)
	assert.NotEmpty(t, cat.DateAnchors)
	assert.NotEmpty(t, cat.DateLayouts)
	for _, s := range cat.Substances {
		assert.NotEmpty(t, s.Aliases, "substance %s has no aliases", s.Key)
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("", Options{})
	require.NoError(t, err)
	assert.Len(t, cat.Substances, len(constants.Substances()))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog(nil)), 0o644))

	cat, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPFASPages, cat.PFAS.Pages)
	assert.Empty(t, cat.Units)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Options{})
	require.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "not yaml",
			doc:  "reference: [",
			want: "decode yaml",
		},
		{
			name: "schema: unknown top-level field",
			doc:  minimalCatalog(nil) + "colour: blue\n",
			want: "schema",
		},
		{
			name: "schema: substance without aliases or symbols",
			doc:  minimalCatalog(map[string]string{"Hg": "  - key: Hg\n"}),
			want: "schema",
		},
		{
			name: "unknown key",
			doc:  minimalCatalog(map[string]string{"Hg": "  - key: Unobtainium\n    symbols: [\"Uo\"]\n"}),
			want: "unknown substance key",
		},
		{
			name: "duplicate key",
			doc:  minimalCatalog(map[string]string{"Hg": "  - key: Cd\n    symbols: [\"Cd2\"]\n"}),
			want: "more than once",
		},
		{
			name: "unknown reference",
			doc:  strings.Replace(minimalCatalog(nil), "reference: Pb", "reference: Zn", 1),
			want: "unknown reference",
		},
		{
			name: "anchor with capture group",
			doc:  strings.Replace(minimalCatalog(nil), "label: 'Date'", "label: '(Date)'", 1),
			want: "capturing groups",
		},
		{
			name: "anchor does not compile",
			doc:  strings.Replace(minimalCatalog(nil), "label: 'Date'", "label: 'Date)'", 1),
			want: "date anchor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrCatalog), "error should wrap ErrCatalog: %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_MissingSubstance(t *testing.T) {
	doc := strings.Replace(minimalCatalog(nil), "  - key: \"PFOS\"\n    symbols: [\"PFOS\"]\n", "", 1)
	_, err := Parse([]byte(doc), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing substances: PFOS")
}

func TestParse_CanonicalizesKeys(t *testing.T) {
	doc := minimalCatalog(map[string]string{
		"Pb":   "  - key: lead\n    symbols: [\"Pb\"]\n",
		"Cr6+": "  - key: Cr(VI)\n    aliases: [\"Hexavalent Chromium\"]\n",
	})
	cat, err := Parse([]byte(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, constants.Substances(), cat.Keys())
}

func TestParse_Ambiguity(t *testing.T) {
	doc := minimalCatalog(map[string]string{
		"CL": "  - key: CL\n    aliases: [\"Cl\"]\n",
		"BR": "  - key: BR\n    aliases: [\"Cl Br mix\"]\n",
	})

	cat, err := Parse([]byte(doc), Options{})
	require.NoError(t, err)
	require.Len(t, cat.Ambiguities, 1)
	a := cat.Ambiguities[0]
	assert.Equal(t, constants.Chlorine, a.Key)
	assert.Equal(t, constants.Bromine, a.OtherKey)
	assert.Equal(t, "Cl Br mix", a.Within)

	_, err = Parse([]byte(doc), Options{Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_AMBIGUOUS")

	_, err = Parse([]byte("strict: true\n"+doc), Options{})
	require.Error(t, err, "strict in the file applies too")
}

func TestAlias_FindWholeWord(t *testing.T) {
	cl, err := newAlias("Cl", true)
	require.NoError(t, err)

	end, ok := cl.Find("Chlorine (Cl) 12")
	require.True(t, ok)
	assert.Equal(t, " 12", "Chlorine (Cl) 12"[end+1:])

	_, ok = cl.Find("Cloud cover")
	assert.False(t, ok, "substring of a longer word must not match")
	_, ok = cl.Find("CL 12")
	assert.False(t, ok, "symbols are case-sensitive")

	lead, err := newAlias("Lead", false)
	require.NoError(t, err)
	_, ok = lead.Find("LEAD 3")
	assert.True(t, ok)
	_, ok = lead.Find("Leadership")
	assert.False(t, ok)
}

func TestIsNotDetected(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	for _, s := range []string{"N.D.", "n.d.", "ND", "nd mg/kg", "Not Detected", "not detected (<2)", "未检出"} {
		assert.True(t, cat.IsNotDetected(s), s)
	}
	for _, s := range []string{"NDA", "3.5", "", "Nothing"} {
		assert.False(t, cat.IsNotDetected(s), s)
	}
}

func TestIsUnit(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.True(t, cat.IsUnit("mg/kg"))
	assert.True(t, cat.IsUnit("PPM"))
	assert.False(t, cat.IsUnit("per"))
}

func TestSubstance_Names(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	var lead, chrome Substance
	for _, s := range cat.Substances {
		switch s.Key {
		case constants.Lead:
			lead = s
		case constants.Chromium6:
			chrome = s
		}
	}

	assert.True(t, lead.Names("Pb"))
	assert.True(t, lead.Names("LEAD"), "aliases compare case-insensitively")
	assert.False(t, lead.Names("PB"), "symbols compare case-sensitively")
	assert.False(t, lead.Names("Cd"))
	assert.True(t, chrome.Names("cr(vi)"))
}
