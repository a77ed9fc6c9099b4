package matching

import "math"

// Strategy scores a student skill set against a job's required skill set.
// Implementations must be pure: same inputs, same score, no side effects.
type Strategy interface {
	Score(student SkillSet, required SkillSet) int
}

// ExactMatch scores by name overlap only: matched required skills over total
// required skills. A job with zero required skills is trivially satisfied.
type ExactMatch struct{}

func (ExactMatch) Score(student SkillSet, required SkillSet) int {
	if len(required) == 0 {
		return 100
	}

	matched := 0
	for key := range required {
		if _, ok := student[key]; ok {
			matched++
		}
	}

	return clampScore(math.Round(float64(matched) / float64(len(required)) * 100))
}

// ProficiencyWeighted grants full credit when the student's proficiency meets
// the required level, half credit one level below, and nothing otherwise.
// A required skill without a stated level only needs to be present.
type ProficiencyWeighted struct{}

func (ProficiencyWeighted) Score(student SkillSet, required SkillSet) int {
	if len(required) == 0 {
		return 100
	}

	var credit float64
	for key, req := range required {
		stu, ok := student[key]
		if !ok {
			continue
		}
		credit += proficiencyCredit(stu.Proficiency, req.Proficiency)
	}

	return clampScore(math.Round(credit / float64(len(required)) * 100))
}

func proficiencyCredit(have, want Proficiency) float64 {
	if want == ProficiencyUnknown || have >= want {
		return 1
	}
	if want-have == 1 {
		return 0.5
	}
	return 0
}

func clampScore(v float64) int {
	score := int(v)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
