package matching

import "testing"

func TestCanonicalSkillName(t *testing.T) {
	cases := map[string]string{
		"Golang":                "go",
		"  K8S ":                "kubernetes",
		"NodeJS":                "node.js",
		"node":                  "node.js",
		"Postgres":              "postgresql",
		"Rust":                  "rust",
		"Amazon   Web Services": "aws",
	}
	for in, want := range cases {
		if got := CanonicalSkillName(in); got != want {
			t.Fatalf("CanonicalSkillName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAliasesFoldIntoOneSkill(t *testing.T) {
	set := NewSkillSet(Skill{Name: "golang"}, Skill{Name: "Go"})
	if len(set) != 1 {
		t.Fatalf("expected aliases to collapse, got %d entries", len(set))
	}
	if !set.Contains("GoLang") {
		t.Fatal("expected alias lookup to hit")
	}
}

func TestExactMatch_AliasesCountAsOverlap(t *testing.T) {
	student := skills("golang", "postgres")
	required := skills("Go", "PostgreSQL")

	if got := (ExactMatch{}).Score(student, required); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}
