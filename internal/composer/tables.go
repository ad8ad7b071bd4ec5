package composer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed data/*.toml
var embeddedData embed.FS

const (
	emotionsFile  = "data/emotions.toml"
	religionsFile = "data/religions.toml"

	// DefaultReligion is the table used for unknown religion keys.
	DefaultReligion = "interfaith"
)

// Greeting and ending variant names used in religions.toml.
const (
	VariantFormal     = "formal"
	VariantIntimate   = "intimate"
	VariantCrisis     = "crisis"
	VariantDevotional = "devotional"

	VariantStandard   = "standard"
	VariantTrust      = "trust"
	VariantLiturgical = "liturgical"
)

var (
	greetingVariants = []string{VariantFormal, VariantIntimate, VariantCrisis, VariantDevotional}
	endingVariants   = []string{VariantStandard, VariantTrust, VariantDevotional, VariantLiturgical}
)

// builtin is parsed once at start-up and never mutated afterwards.
var builtin = mustLoad(embeddedData)

// Tables holds the keyword and religious template tables. A Tables value is
// read-only after Load returns and is safe for concurrent use.
type Tables struct {
	categories []category
	fallback   Config
	religions  map[string]*ReligiousTemplate
}

type category struct {
	name     Category
	config   Config
	keywords []string
}

// ReligiousTemplate is the phrase pool and guidance for one religion.
type ReligiousTemplate struct {
	key         string
	name        string
	guidance    string
	transitions []string
	greetings   map[string][]string
	endings     map[string][]string
}

type emotionsData struct {
	Default  configData     `toml:"default"`
	Category []categoryData `toml:"category"`
}

type configData struct {
	Intensity string `toml:"intensity"`
	Length    string `toml:"length"`
	Tone      string `toml:"tone"`
	Focus     string `toml:"focus"`
}

type categoryData struct {
	Name      string   `toml:"name"`
	Intensity string   `toml:"intensity"`
	Length    string   `toml:"length"`
	Tone      string   `toml:"tone"`
	Focus     string   `toml:"focus"`
	Keywords  []string `toml:"keywords"`
}

type religionData struct {
	Name        string              `toml:"name"`
	Guidance    string              `toml:"guidance"`
	Transitions []string            `toml:"transitions"`
	Greetings   map[string][]string `toml:"greetings"`
	Endings     map[string][]string `toml:"endings"`
}

// Builtin returns the tables embedded in the binary.
func Builtin() *Tables {
	return builtin
}

func mustLoad(fsys fs.FS) *Tables {
	t, err := Load(fsys)
	if err != nil {
		panic(fmt.Sprintf("composer: invalid embedded tables: %v", err))
	}
	return t
}

// Load parses data/emotions.toml and data/religions.toml from fsys and
// validates them. The returned tables never yield an empty greeting, ending or
// an undefined length bucket.
func Load(fsys fs.FS) (*Tables, error) {
	var ed emotionsData
	if _, err := toml.DecodeFS(fsys, emotionsFile, &ed); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", emotionsFile, err)
	}

	var rd map[string]religionData
	if _, err := toml.DecodeFS(fsys, religionsFile, &rd); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", religionsFile, err)
	}

	fallback, err := newConfig(ed.Default.Intensity, ed.Default.Length, ed.Default.Tone, ed.Default.Focus)
	if err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	t := &Tables{
		fallback:  fallback,
		religions: make(map[string]*ReligiousTemplate, len(rd)),
	}

	var errs []error
	seen := make(map[Category]bool, len(ed.Category))
	for i, cd := range ed.Category {
		c, err := newCategory(cd)
		if err != nil {
			errs = append(errs, fmt.Errorf("category %d (%q): %w", i, cd.Name, err))
			continue
		}
		if seen[c.name] {
			errs = append(errs, fmt.Errorf("category %q declared twice", c.name))
			continue
		}
		seen[c.name] = true
		t.categories = append(t.categories, c)
	}

	for key, data := range rd {
		tmpl, err := newReligiousTemplate(key, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("religion %q: %w", key, err))
			continue
		}
		t.religions[tmpl.key] = tmpl
	}
	if _, ok := t.religions[DefaultReligion]; !ok {
		errs = append(errs, fmt.Errorf("religion %q is required", DefaultReligion))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

func newConfig(intensity, length, tone, focus string) (Config, error) {
	l := Length(length)
	if !l.Valid() {
		return Config{}, fmt.Errorf("unknown length %q", length)
	}
	if intensity == "" || tone == "" || focus == "" {
		return Config{}, errors.New("intensity, tone and focus are required")
	}
	return Config{Intensity: Intensity(intensity), Length: l, Tone: tone, Focus: focus}, nil
}

func newCategory(cd categoryData) (category, error) {
	name := Category(cd.Name)
	if !name.Valid() || name == CategoryGeneral {
		return category{}, errors.New("unknown category name")
	}
	cfg, err := newConfig(cd.Intensity, cd.Length, cd.Tone, cd.Focus)
	if err != nil {
		return category{}, err
	}
	if len(cd.Keywords) == 0 {
		return category{}, errors.New("no keywords")
	}
	keywords := make([]string, 0, len(cd.Keywords))
	for _, kw := range cd.Keywords {
		if kw == "" || kw != strings.ToLower(kw) {
			return category{}, fmt.Errorf("keyword %q must be non-empty lower case", kw)
		}
		keywords = append(keywords, kw)
	}
	return category{name: name, config: cfg, keywords: keywords}, nil
}

func newReligiousTemplate(key string, data religionData) (*ReligiousTemplate, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, errors.New("empty key")
	}
	if data.Guidance == "" {
		return nil, errors.New("guidance is required")
	}
	greetings, err := copyVariants(data.Greetings, greetingVariants, VariantFormal)
	if err != nil {
		return nil, fmt.Errorf("greetings: %w", err)
	}
	endings, err := copyVariants(data.Endings, endingVariants, VariantStandard)
	if err != nil {
		return nil, fmt.Errorf("endings: %w", err)
	}
	if err := checkPairs(greetings, endings); err != nil {
		return nil, err
	}
	name := data.Name
	if name == "" {
		name = key
	}
	return &ReligiousTemplate{
		key:         key,
		name:        name,
		guidance:    strings.TrimSpace(data.Guidance),
		transitions: append([]string(nil), data.Transitions...),
		greetings:   greetings,
		endings:     endings,
	}, nil
}

func copyVariants(in map[string][]string, allowed []string, required string) (map[string][]string, error) {
	out := make(map[string][]string, len(in))
	for variant, phrases := range in {
		if !contains(allowed, variant) {
			return nil, fmt.Errorf("unknown variant %q", variant)
		}
		if len(phrases) == 0 {
			return nil, fmt.Errorf("variant %q has no phrases", variant)
		}
		for _, p := range phrases {
			if strings.TrimSpace(p) == "" {
				return nil, fmt.Errorf("variant %q has an empty phrase", variant)
			}
		}
		out[variant] = append([]string(nil), phrases...)
	}
	if _, ok := out[required]; !ok {
		return nil, fmt.Errorf("variant %q is required", required)
	}
	return out, nil
}

// checkPairs rejects a greeting that contains the leading clause of an
// ending. Finalize would find the clause in a prepended greeting and never
// append the ending.
func checkPairs(greetings, endings map[string][]string) error {
	for _, gs := range greetings {
		for _, g := range gs {
			for _, es := range endings {
				for _, e := range es {
					if c := leadingClause(e, "."); c != "" && strings.Contains(g, c) {
						return fmt.Errorf("greeting %q contains the opening of ending %q", g, e)
					}
				}
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Religion returns the template for key, falling back to the interfaith
// template when key is unknown. It never returns nil.
func (t *Tables) Religion(key string) *ReligiousTemplate {
	if tmpl, ok := t.religions[normalizeKey(key)]; ok {
		return tmpl
	}
	return t.religions[DefaultReligion]
}

// Religions returns the known religion keys.
func (t *Tables) Religions() []string {
	keys := make([]string, 0, len(t.religions))
	for k := range t.religions {
		keys = append(keys, k)
	}
	return keys
}

// Key is the table key, e.g. "catholic".
func (r *ReligiousTemplate) Key() string { return r.key }

// Name is the display name used in prompts.
func (r *ReligiousTemplate) Name() string { return r.name }

// Guidance returns the authenticity guidance block for prompts.
func (r *ReligiousTemplate) Guidance() Guidance {
	return Guidance{
		Religion:    r.name,
		Text:        r.guidance,
		Transitions: append([]string(nil), r.transitions...),
	}
}

func (r *ReligiousTemplate) hasGreeting(variant string) bool {
	_, ok := r.greetings[variant]
	return ok
}

func (r *ReligiousTemplate) hasEnding(variant string) bool {
	_, ok := r.endings[variant]
	return ok
}
