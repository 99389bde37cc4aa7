package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/common"
)

//go:embed default.yaml
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema []byte

// Options tune how a catalog is loaded.
type Options struct {
	// Strict turns alias ambiguities into a load error instead of a warning.
	Strict bool
	Logger *slog.Logger
}

type catalogFile struct {
	Reference   string          `yaml:"reference"`
	Strict      bool            `yaml:"strict"`
	NotDetected []string        `yaml:"not_detected"`
	Units       []string        `yaml:"units"`
	Substances  []substanceSpec `yaml:"substances"`
	Dates       struct {
		Formats []string     `yaml:"formats"`
		Anchors []anchorSpec `yaml:"anchors"`
	} `yaml:"dates"`
	PFAS struct {
		Pages    int      `yaml:"pages"`
		Headings []string `yaml:"headings"`
		Token    string   `yaml:"token"`
	} `yaml:"pfas"`
}

type substanceSpec struct {
	Key     string   `yaml:"key"`
	Aliases []string `yaml:"aliases"`
	Symbols []string `yaml:"symbols"`
}

type anchorSpec struct {
	Label string `yaml:"label"`
	Shape string `yaml:"shape"`
}

// DefaultSource returns the embedded catalog document.
func DefaultSource() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// Default compiles the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, Options{})
}

// Load reads a catalog file; an empty path selects the embedded default.
func Load(path string, opts Options) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultCatalog, opts)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError("CATALOG_ERROR", "read "+path, err)
	}
	return Parse(data, opts)
}

// Parse validates a YAML catalog document against the schema and compiles it.
func Parse(data []byte, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, common.NewAppError("CATALOG_ERROR", "decode yaml", errJoin(common.ErrCatalog, err))
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, common.NewAppError("CATALOG_ERROR", "re-encode as json", errJoin(common.ErrCatalog, err))
	}
	if err := validateAgainstSchema(catalogSchema, asJSON); err != nil {
		return nil, common.NewAppError("CATALOG_ERROR", "schema", errJoin(common.ErrCatalog, err))
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, common.NewAppError("CATALOG_ERROR", "decode catalog", errJoin(common.ErrCatalog, err))
	}

	cat, err := compile(doc)
	if err != nil {
		return nil, common.NewAppError("CATALOG_ERROR", "compile", errJoin(common.ErrCatalog, err))
	}

	for _, a := range cat.Ambiguities {
		logger.Warn("catalog alias is ambiguous", "alias", a.Alias, "key", a.Key, "within", a.Within, "other_key", a.OtherKey)
	}
	if (opts.Strict || doc.Strict) && len(cat.Ambiguities) > 0 {
		msgs := make([]string, len(cat.Ambiguities))
		for i, a := range cat.Ambiguities {
			msgs[i] = a.String()
		}
		return nil, common.NewAppError("CATALOG_AMBIGUOUS", strings.Join(msgs, "; "), common.ErrCatalog)
	}

	logger.Debug("catalog loaded",
		"substances", len(cat.Substances),
		"date_layouts", len(cat.DateLayouts),
		"date_anchors", len(cat.DateAnchors),
		"ambiguities", len(cat.Ambiguities),
	)
	return cat, nil
}

func compile(doc catalogFile) (*Catalog, error) {
	ref, ok := constants.CanonicalizeSubstance(doc.Reference)
	if !ok {
		return nil, fmt.Errorf("unknown reference substance %q", doc.Reference)
	}

	byKey := make(map[constants.Substance]Substance, len(doc.Substances))
	for _, ss := range doc.Substances {
		key, ok := constants.CanonicalizeSubstance(ss.Key)
		if !ok {
			return nil, fmt.Errorf("unknown substance key %q", ss.Key)
		}
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("substance %s listed more than once", key)
		}
		sub := Substance{Key: key}
		for _, text := range ss.Aliases {
			a, err := newAlias(text, false)
			if err != nil {
				return nil, fmt.Errorf("alias %q: %w", text, err)
			}
			sub.Aliases = append(sub.Aliases, a)
		}
		for _, text := range ss.Symbols {
			a, err := newAlias(text, true)
			if err != nil {
				return nil, fmt.Errorf("symbol %q: %w", text, err)
			}
			sub.Aliases = append(sub.Aliases, a)
		}
		byKey[key] = sub
	}

	cat := &Catalog{
		Reference:   ref,
		NotDetected: doc.NotDetected,
		Units:       doc.Units,
		DateLayouts: doc.Dates.Formats,
		PFAS: PFASRule{
			Pages:    doc.PFAS.Pages,
			Headings: doc.PFAS.Headings,
			Token:    doc.PFAS.Token,
		},
	}
	if cat.PFAS.Pages <= 0 {
		cat.PFAS.Pages = DefaultPFASPages
	}

	var missing []string
	for _, key := range constants.Substances() {
		sub, ok := byKey[key]
		if !ok {
			missing = append(missing, string(key))
			continue
		}
		cat.Substances = append(cat.Substances, sub)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("catalog is missing substances: %s", strings.Join(missing, ", "))
	}

	for i, an := range doc.Dates.Anchors {
		re, err := regexp.Compile(`(?i)` + an.Label + `\s*[:：]?\s*(` + an.Shape + `)`)
		if err != nil {
			return nil, fmt.Errorf("date anchor %d: %w", i, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("date anchor %d: label and shape must not contain capturing groups", i)
		}
		cat.DateAnchors = append(cat.DateAnchors, re)
	}

	cat.Ambiguities = findAmbiguities(cat.Substances)
	return cat, nil
}

// validateAgainstSchema validates JSON data against a JSON schema document.
func validateAgainstSchema(schemaDoc, data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.schema.json", bytes.NewReader(schemaDoc)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}

func errJoin(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
