package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"polychat/internal/config"
	"polychat/internal/domain"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Language is one supported reply language
type Language struct {
	Code       string `yaml:"-" json:"code"`
	Name       string `yaml:"name" json:"name"`
	NativeName string `yaml:"native_name" json:"nativeName"`
	Prompt     string `yaml:"prompt" json:"-"`
}

// Persona is a business-domain preset prepended to the system prompt
type Persona struct {
	ID     string `yaml:"-" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Prompt string `yaml:"prompt" json:"prompt"`
}

type languagesFile struct {
	Default   string               `yaml:"default"`
	Languages map[string]*Language `yaml:"languages"`
}

type personasFile struct {
	Personas map[string]*Persona `yaml:"personas"`
}

// Catalog holds the per-language templates and persona presets.
type Catalog struct {
	defaultLanguage string
	languages       map[string]*Language
	personas        map[string]*Persona
	mu              sync.RWMutex
}

// NewCatalog loads the embedded YAML files.
// defaultLanguage overrides the file's default when it is a supported code.
func NewCatalog(defaultLanguage string) (*Catalog, error) {
	var langs languagesFile
	if err := loadFile("config/languages.yaml", &langs); err != nil {
		return nil, err
	}
	var personas personasFile
	if err := loadFile("config/personas.yaml", &personas); err != nil {
		return nil, err
	}

	for code, l := range langs.Languages {
		l.Code = code
	}
	for id, p := range personas.Personas {
		p.ID = id
	}

	if _, ok := langs.Languages[langs.Default]; !ok {
		return nil, fmt.Errorf("default language %q has no template", langs.Default)
	}
	if _, ok := langs.Languages[config.SourceLanguage]; !ok {
		return nil, fmt.Errorf("source language %q has no template", config.SourceLanguage)
	}

	c := &Catalog{
		defaultLanguage: langs.Default,
		languages:       langs.Languages,
		personas:        personas.Personas,
	}
	if code := baseCode(defaultLanguage); code != "" {
		if _, ok := c.languages[code]; ok {
			c.defaultLanguage = code
		}
	}
	return c, nil
}

func loadFile(name string, dest interface{}) error {
	data, err := configFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// baseCode reduces a BCP 47 tag ("de-DE", "zh_Hant", "EN") to its base language
func baseCode(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, _ := t.Base()
	return base.String()
}

// DefaultLanguage returns the fallback language code
func (c *Catalog) DefaultLanguage() string {
	return c.defaultLanguage
}

// IsSupported reports whether tag maps to a language with a template
func (c *Catalog) IsSupported(tag string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.languages[baseCode(tag)]
	return ok
}

// Normalize maps tag to a supported code. Unknown tags become
// config.SourceLanguage regardless of the configured default.
func (c *Catalog) Normalize(tag string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if code := baseCode(tag); code != "" {
		if _, ok := c.languages[code]; ok {
			return code
		}
	}
	return config.SourceLanguage
}

// LanguageName returns the English name of a language, e.g. "German"
func (c *Catalog) LanguageName(code string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if l, ok := c.languages[code]; ok {
		return l.Name
	}
	return c.languages[config.SourceLanguage].Name
}

// HasPersona reports whether id names a persona preset
func (c *Catalog) HasPersona(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.personas[id]
	return ok
}

// Resolve builds the system prompt: persona preset, then free-form context,
// then the language instruction.
func (c *Catalog) Resolve(lang, persona, context string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := make([]string, 0, 3)
	if persona != "" {
		p, ok := c.personas[persona]
		if !ok {
			return "", fmt.Errorf("%w: unknown persona %q", domain.ErrValidation, persona)
		}
		parts = append(parts, p.Prompt)
	}
	if ctx := strings.TrimSpace(context); ctx != "" {
		parts = append(parts, ctx)
	}

	code := baseCode(lang)
	l, ok := c.languages[code]
	if !ok {
		l = c.languages[config.SourceLanguage]
	}
	parts = append(parts, l.Prompt)

	return strings.Join(parts, "\n\n"), nil
}

// Languages lists the supported languages ordered by code
func (c *Catalog) Languages() []Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Language, 0, len(c.languages))
	for _, l := range c.languages {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Personas lists the persona presets ordered by id
func (c *Catalog) Personas() []Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Persona, 0, len(c.personas))
	for _, p := range c.personas {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
