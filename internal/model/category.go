package model

type Category struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
	Domains  []string `json:"domains,omitempty" yaml:"domains"`
	MinScore int      `json:"minScore,omitempty" yaml:"min_score"`
}

// Threshold is the minimum classification score, defaulting to 1.
func (c Category) Threshold() int {
	if c.MinScore <= 0 {
		return 1
	}
	return c.MinScore
}

// MaxSelected is the hard limit on simultaneously selected categories.
const MaxSelected = 3
