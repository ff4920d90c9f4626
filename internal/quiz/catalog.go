package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

var (
	//go:embed data/catalog.json
	catalogJSON []byte
	//go:embed data/system_prompt.txt
	systemPromptTemplate string
)

// QuestionType distinguishes tallied questions from the scale question.
type QuestionType string

const (
	TypeSingle QuestionType = "single"
	TypeScale  QuestionType = "scale"
)

// Option is one answer of a single-choice question. Letter maps it to a
// profile.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type ScaleLabels struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Question is one quiz question as served to the public form.
type Question struct {
	ID          string       `json:"id"`
	Question    string       `json:"question"`
	Type        QuestionType `json:"type"`
	Options     []Option     `json:"options,omitempty"`
	ScaleMin    int          `json:"scaleMin,omitempty"`
	ScaleMax    int          `json:"scaleMax,omitempty"`
	ScaleLabels *ScaleLabels `json:"scaleLabels,omitempty"`
}

// Profile is the static outcome attached to a dominant letter.
type Profile struct {
	Letter               string   `json:"letter"`
	Name                 string   `json:"name"`
	RootBlocker          string   `json:"rootBlocker"`
	Desire               string   `json:"desire"`
	MirrorPhrase         string   `json:"mirrorPhrase"`
	SignatureProgram     string   `json:"signatureProgram"`
	ComplementaryModules []string `json:"complementaryModules"`
}

// Catalog holds the questions and the eight profiles.
type Catalog struct {
	Questions []Question `json:"questions"`
	Profiles  []Profile  `json:"profiles"`

	byID     map[string]Question
	byLetter map[string]Profile
}

// Letters lists profile letters in tie-break order.
var Letters = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogJSON)
}

// ParseCatalog decodes and indexes a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse quiz catalog: %w", err)
	}
	c.byID = make(map[string]Question, len(c.Questions))
	for _, q := range c.Questions {
		c.byID[q.ID] = q
	}
	c.byLetter = make(map[string]Profile, len(c.Profiles))
	for _, p := range c.Profiles {
		c.byLetter[p.Letter] = p
	}
	for _, l := range Letters {
		if _, ok := c.byLetter[l]; !ok {
			return nil, fmt.Errorf("quiz catalog: missing profile %s", l)
		}
	}
	return &c, nil
}

func (c *Catalog) question(id string) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Profile returns the profile for letter.
func (c *Catalog) Profile(letter string) (Profile, bool) {
	p, ok := c.byLetter[letter]
	return p, ok
}

// programs lists every programme and module name the model may pick from.
func (c *Catalog) programs() string {
	seen := map[string]bool{}
	var b strings.Builder
	for _, p := range c.Profiles {
		for _, name := range append([]string{p.SignatureProgram}, p.ComplementaryModules...) {
			if seen[name] {
				continue
			}
			seen[name] = true
			b.WriteString("- ")
			b.WriteString(name)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
