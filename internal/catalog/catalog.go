package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/careerpath/internal/assessment"
)

//go:embed data/*.yaml
var dataFS embed.FS

// SupportedMajor is the content major version this build understands.
const SupportedMajor = "v1"

const (
	banksFile           = "banks.yaml"
	fallbackFile        = "fallback.yaml"
	recommendationsFile = "recommendations.yaml"
)

// Certification is a recommended credential.
type Certification struct {
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
	Link     string `yaml:"link" json:"link"`
	Level    string `yaml:"level" json:"level"`
}

// Course is a recommended learning resource.
type Course struct {
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
	Duration string `yaml:"duration" json:"duration"`
	Type     string `yaml:"type" json:"type"`
}

// Recommendation is the bundle shown for a dominant interest.
type Recommendation struct {
	Title          string          `yaml:"title" json:"title"`
	Description    string          `yaml:"description" json:"description"`
	SuggestedRole  string          `yaml:"suggested_role" json:"suggestedRole"`
	Industry       string          `yaml:"industry" json:"industry"`
	Careers        []string        `yaml:"careers" json:"careers"`
	Certifications []Certification `yaml:"certifications" json:"certifications"`
	Courses        []Course        `yaml:"courses" json:"courses"`
}

// FallbackEntry is a locally authored question for one (interest, facet).
type FallbackEntry struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
}

type banksDoc struct {
	Version   string                `yaml:"version"`
	Interest  []assessment.Question `yaml:"interest"`
	Knowledge []assessment.Question `yaml:"knowledge"`
}

type fallbackDoc struct {
	Version   string                                           `yaml:"version"`
	Facets    []string                                         `yaml:"facets"`
	Template  FallbackEntry                                    `yaml:"template"`
	Questions map[assessment.Category]map[string]FallbackEntry `yaml:"questions"`
}

type recommendationsDoc struct {
	Version         string                                 `yaml:"version"`
	Recommendations map[assessment.Category]Recommendation `yaml:"recommendations"`
}

// Catalog is the read-only content consumed by the engine: the fixed
// question banks, the fallback question catalog, and the recommendation
// table. It is loaded once and never mutated.
type Catalog struct {
	Version string

	interest        []assessment.Question
	knowledge       []assessment.Question
	facets          []string
	template        FallbackEntry
	fallback        map[assessment.Category]map[string]FallbackEntry
	recommendations map[assessment.Category]Recommendation
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(dataFS, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = Load(sub)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is like Default but panics on error. The embedded catalog is
// checked by tests, so a failure here is a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Load reads and validates the three catalog files from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var banks banksDoc
	if err := decode(fsys, banksFile, &banks); err != nil {
		return nil, err
	}
	var fb fallbackDoc
	if err := decode(fsys, fallbackFile, &fb); err != nil {
		return nil, err
	}
	var recs recommendationsDoc
	if err := decode(fsys, recommendationsFile, &recs); err != nil {
		return nil, err
	}

	for file, v := range map[string]string{
		banksFile:           banks.Version,
		fallbackFile:        fb.Version,
		recommendationsFile: recs.Version,
	} {
		if err := checkVersion(file, v); err != nil {
			return nil, err
		}
	}

	c := &Catalog{
		Version:         maxVersion(banks.Version, fb.Version, recs.Version),
		interest:        banks.Interest,
		knowledge:       banks.Knowledge,
		facets:          fb.Facets,
		template:        fb.Template,
		fallback:        fb.Questions,
		recommendations: recs.Recommendations,
	}
	for i := range c.interest {
		c.interest[i].Origin = assessment.OriginInterest
	}
	for i := range c.knowledge {
		c.knowledge[i].Origin = assessment.OriginKnowledge
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func checkVersion(file, v string) error {
	if !semver.IsValid(v) {
		return &MalformedEntryError{File: file, Path: "version", Reason: fmt.Sprintf("%q is not a semantic version", v)}
	}
	if semver.Major(v) != SupportedMajor {
		return &MalformedEntryError{File: file, Path: "version", Reason: fmt.Sprintf("major version %s is not supported (want %s)", semver.Major(v), SupportedMajor)}
	}
	return nil
}

func maxVersion(vs ...string) string {
	best := ""
	for _, v := range vs {
		if best == "" || semver.Compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

// Banks returns copies of the fixed interest and knowledge banks.
func (c *Catalog) Banks() assessment.Banks {
	return assessment.Banks{
		Interest:  cloneQuestions(c.interest),
		Knowledge: cloneQuestions(c.knowledge),
	}
}

// Facets returns the cyclic facet list.
func (c *Catalog) Facets() []string {
	return append([]string(nil), c.facets...)
}

// Fallback returns the authored question for (interest, facet), if any.
func (c *Catalog) Fallback(interest assessment.Category, facet string) (FallbackEntry, bool) {
	e, ok := c.fallback[interest][facet]
	return e, ok
}

// Template renders the generic question used when no authored entry exists.
// n is the one-based question number shown to the learner.
func (c *Catalog) Template(interest assessment.Category, n int) FallbackEntry {
	r := strings.NewReplacer("{interest}", string(interest), "{n}", strconv.Itoa(n))
	out := FallbackEntry{Question: r.Replace(c.template.Question)}
	for _, o := range c.template.Options {
		out.Options = append(out.Options, r.Replace(o))
	}
	return out
}

// Recommendation returns the bundle for a category. Unknown categories get
// the technology bundle, the same default Dominant uses.
func (c *Catalog) Recommendation(cat assessment.Category) Recommendation {
	if r, ok := c.recommendations[cat]; ok {
		return r
	}
	return c.recommendations[assessment.CategoryTechnology]
}

func cloneQuestions(qs []assessment.Question) []assessment.Question {
	out := make([]assessment.Question, len(qs))
	for i, q := range qs {
		out[i] = q
		out[i].Options = append([]assessment.Option(nil), q.Options...)
	}
	return out
}
