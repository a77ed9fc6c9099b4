package matching

import "strings"

// Proficiency is an ordered scale. Zero means "not stated".
type Proficiency int

const (
	ProficiencyUnknown Proficiency = iota
	ProficiencyBeginner
	ProficiencyIntermediate
	ProficiencyAdvanced
)

func (p Proficiency) String() string {
	switch p {
	case ProficiencyBeginner:
		return "Beginner"
	case ProficiencyIntermediate:
		return "Intermediate"
	case ProficiencyAdvanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

func ParseProficiency(s string) Proficiency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return ProficiencyBeginner
	case "intermediate":
		return ProficiencyIntermediate
	case "advanced":
		return ProficiencyAdvanced
	default:
		return ProficiencyUnknown
	}
}

type Skill struct {
	Name        string
	Proficiency Proficiency
}

// SkillSet keys skills by normalized name. Name is the identity; proficiency
// is an attached value, never a second identity. Iteration order of the
// underlying map must never influence a score.
type SkillSet map[string]Skill

// NormalizeSkillName lower-cases, trims and collapses inner whitespace.
func NormalizeSkillName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

func NewSkillSet(skills ...Skill) SkillSet {
	set := make(SkillSet, len(skills))
	for _, s := range skills {
		key := CanonicalSkillName(s.Name)
		if key == "" {
			continue
		}
		set[key] = Skill{Name: key, Proficiency: s.Proficiency}
	}
	return set
}

func (s SkillSet) Contains(name string) bool {
	_, ok := s[CanonicalSkillName(name)]
	return ok
}

func (s SkillSet) Names() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
