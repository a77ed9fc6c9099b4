package matching

import "testing"

func skills(names ...string) SkillSet {
	out := make([]Skill, 0, len(names))
	for _, n := range names {
		out = append(out, Skill{Name: n})
	}
	return NewSkillSet(out...)
}

func TestExactMatch_PartialOverlap(t *testing.T) {
	student := skills("JavaScript", "React")
	required := skills("JavaScript", "React", "Node.js")

	got := ExactMatch{}.Score(student, required)
	if got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestExactMatch_NoRequiredSkills(t *testing.T) {
	if got := (ExactMatch{}).Score(skills("Go"), NewSkillSet()); got != 100 {
		t.Fatalf("expected 100 for empty requirements, got %d", got)
	}
	if got := (ExactMatch{}).Score(NewSkillSet(), NewSkillSet()); got != 100 {
		t.Fatalf("expected 100 for empty vs empty, got %d", got)
	}
}

func TestExactMatch_FullOverlapIsHundred(t *testing.T) {
	student := skills("go", "postgresql", "docker")
	required := skills("Go", "PostgreSQL")

	if got := (ExactMatch{}).Score(student, required); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestExactMatch_NoOverlapIsZero(t *testing.T) {
	if got := (ExactMatch{}).Score(skills("Rust"), skills("Go", "Docker")); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestExactMatch_NormalizationAndOrderIndependence(t *testing.T) {
	a := NewSkillSet(Skill{Name: "  JavaScript "}, Skill{Name: "react"})
	b := NewSkillSet(Skill{Name: "React"}, Skill{Name: "javascript"})
	required := skills("REACT", "JavaScript", "node.js")

	sa := ExactMatch{}.Score(a, required)
	sb := ExactMatch{}.Score(b, required)
	if sa != sb {
		t.Fatalf("order/case dependent score: %d vs %d", sa, sb)
	}
	if sa != 67 {
		t.Fatalf("expected 67, got %d", sa)
	}
}

func TestNewSkillSet_DeduplicatesByNormalizedName(t *testing.T) {
	set := NewSkillSet(
		Skill{Name: "Go", Proficiency: ProficiencyBeginner},
		Skill{Name: " go ", Proficiency: ProficiencyAdvanced},
	)
	if len(set) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set))
	}
	if !set.Contains("GO") {
		t.Fatalf("expected set to contain go")
	}
}

func TestProficiencyWeighted_Credits(t *testing.T) {
	required := NewSkillSet(
		Skill{Name: "Go", Proficiency: ProficiencyAdvanced},
		Skill{Name: "Docker", Proficiency: ProficiencyIntermediate},
		Skill{Name: "Kubernetes", Proficiency: ProficiencyAdvanced},
		Skill{Name: "SQL", Proficiency: ProficiencyBeginner},
	)
	student := NewSkillSet(
		Skill{Name: "Go", Proficiency: ProficiencyAdvanced},         // full
		Skill{Name: "Docker", Proficiency: ProficiencyBeginner},     // half
		Skill{Name: "Kubernetes", Proficiency: ProficiencyBeginner}, // two below: zero
	)

	// (1 + 0.5 + 0 + 0) / 4 = 37.5 -> 38
	if got := (ProficiencyWeighted{}).Score(student, required); got != 38 {
		t.Fatalf("expected 38, got %d", got)
	}
}

func TestProficiencyWeighted_UnstatedRequiredLevelNeedsPresenceOnly(t *testing.T) {
	required := NewSkillSet(Skill{Name: "Go"})
	student := NewSkillSet(Skill{Name: "Go", Proficiency: ProficiencyBeginner})

	if got := (ProficiencyWeighted{}).Score(student, required); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestProficiencyWeighted_NoRequiredSkills(t *testing.T) {
	if got := (ProficiencyWeighted{}).Score(skills("Go"), NewSkillSet()); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestParseProficiency(t *testing.T) {
	cases := map[string]Proficiency{
		"Beginner":      ProficiencyBeginner,
		" intermediate": ProficiencyIntermediate,
		"ADVANCED":      ProficiencyAdvanced,
		"wizard":        ProficiencyUnknown,
		"":              ProficiencyUnknown,
	}
	for in, want := range cases {
		if got := ParseProficiency(in); got != want {
			t.Fatalf("ParseProficiency(%q) = %v, want %v", in, got, want)
		}
	}
}
