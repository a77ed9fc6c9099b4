package matching

// aliases folds common alternate spellings onto one canonical skill name so
// that "golang" on a profile still matches "Go" on a posting.
var aliases = map[string]string{
	"golang":              "go",
	"js":                  "javascript",
	"ts":                  "typescript",
	"postgres":            "postgresql",
	"k8s":                 "kubernetes",
	"node":                "node.js",
	"nodejs":              "node.js",
	"react.js":            "react",
	"reactjs":             "react",
	"vue.js":              "vue",
	"vuejs":               "vue",
	"amazon web services": "aws",
	"google cloud":        "gcp",
}

// CanonicalSkillName normalizes a raw name and folds known aliases.
func CanonicalSkillName(name string) string {
	n := NormalizeSkillName(name)
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}
