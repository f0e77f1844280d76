package catalog

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/abhisek/careerpath/internal/assessment"
)

// embeddedFS returns the embedded catalog files as a MapFS so individual
// files can be replaced.
func embeddedFS(t *testing.T) fstest.MapFS {
	t.Helper()
	out := fstest.MapFS{}
	for _, name := range []string{banksFile, fallbackFile, recommendationsFile} {
		data, err := fs.ReadFile(dataFS, "data/"+name)
		if err != nil {
			t.Fatalf("read embedded %s: %v", name, err)
		}
		out[name] = &fstest.MapFile{Data: data}
	}
	return out
}

func TestDefault_Loads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if c.Version == "" {
		t.Error("expected a catalog version")
	}

	banks := c.Banks()
	if len(banks.Interest) != assessment.InterestCount {
		t.Errorf("interest bank = %d, want %d", len(banks.Interest), assessment.InterestCount)
	}
	if len(banks.Knowledge) != assessment.KnowledgeCount {
		t.Errorf("knowledge bank = %d, want %d", len(banks.Knowledge), assessment.KnowledgeCount)
	}
	for _, q := range banks.Interest {
		if q.Origin != assessment.OriginInterest {
			t.Errorf("interest question %d origin = %q", q.ID, q.Origin)
		}
	}
	for _, q := range banks.Knowledge {
		if q.Origin != assessment.OriginKnowledge {
			t.Errorf("knowledge question %d origin = %q", q.ID, q.Origin)
		}
	}
	if len(c.Facets()) != 20 {
		t.Errorf("facets = %d, want 20", len(c.Facets()))
	}
}

func TestBanks_ReturnsCopies(t *testing.T) {
	c := MustDefault()
	b := c.Banks()
	b.Interest[0].Options[0].Text = "mutated"

	again := c.Banks()
	if again.Interest[0].Options[0].Text == "mutated" {
		t.Error("Banks() should not expose internal option slices")
	}
}

func TestRecommendation_TotalOverCategories(t *testing.T) {
	c := MustDefault()
	for _, cat := range assessment.Categories {
		r := c.Recommendation(cat)
		if r.Title == "" {
			t.Errorf("no recommendation for %s", cat)
		}
		if len(r.Certifications) == 0 || len(r.Courses) == 0 {
			t.Errorf("recommendation for %s has no certifications or courses", cat)
		}
	}

	if got := c.Recommendation("astronomy").Title; got != c.Recommendation(assessment.CategoryTechnology).Title {
		t.Errorf("unknown category should map to technology bundle, got %q", got)
	}
}

func TestFallback_Lookup(t *testing.T) {
	c := MustDefault()

	e, ok := c.Fallback(assessment.CategoryTechnology, "work_environment")
	if !ok {
		t.Fatal("expected technology/work_environment entry")
	}
	if len(e.Options) != 4 {
		t.Errorf("options = %d, want 4", len(e.Options))
	}

	if _, ok := c.Fallback(assessment.CategoryCreative, "time_management"); ok {
		t.Error("did not expect creative/time_management entry")
	}
}

func TestTemplate_Renders(t *testing.T) {
	c := MustDefault()
	e := c.Template(assessment.CategoryBusiness, 22)

	want := "What aspect of business work interests you most at this stage? (Question 22)"
	if e.Question != want {
		t.Errorf("question = %q, want %q", e.Question, want)
	}
	if len(e.Options) != 4 {
		t.Fatalf("options = %d, want 4", len(e.Options))
	}
	if e.Options[0] != "Foundational business skills and concepts" {
		t.Errorf("option[0] = %q", e.Options[0])
	}
}

func TestLoad_RejectsUnsupportedMajor(t *testing.T) {
	fsys := embeddedFS(t)
	data := string(fsys[fallbackFile].Data)
	fsys[fallbackFile] = &fstest.MapFile{Data: []byte(strings.Replace(data, "version: v1.2.0", "version: v2.0.0", 1))}

	_, err := Load(fsys)
	var me *MalformedEntryError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedEntryError, got %v", err)
	}
	if me.File != fallbackFile || me.Path != "version" {
		t.Errorf("unexpected error location: %+v", me)
	}
}

func TestLoad_RejectsInvalidVersion(t *testing.T) {
	fsys := embeddedFS(t)
	data := string(fsys[banksFile].Data)
	fsys[banksFile] = &fstest.MapFile{Data: []byte(strings.Replace(data, "version: v1.2.0", "version: latest", 1))}

	if _, err := Load(fsys); err == nil || !strings.Contains(err.Error(), "semantic version") {
		t.Fatalf("expected semantic version error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	fsys := embeddedFS(t)
	delete(fsys, recommendationsFile)

	if _, err := Load(fsys); err == nil {
		t.Fatal("expected error for missing file")
	}
}
