package dag

import "fmt"

type VariableType string

const (
	Continuous  VariableType = "continuous"
	Categorical VariableType = "categorical"
	Binary      VariableType = "binary"
)

// Variable carries the metadata of one observed column
type Variable struct {
	Name  string       `yaml:"name" json:"name"`
	Type  VariableType `yaml:"type" json:"type"`
	Lower float64      `yaml:"lower,omitempty" json:"lower,omitempty"`
	Upper float64      `yaml:"upper,omitempty" json:"upper,omitempty"`
	// Group ties columns of one multi-dimensional variable together,
	// defaults to the variable name
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
}

func (v Variable) group() string {
	if v.Group != "" {
		return v.Group
	}
	return v.Name
}

type Variables []Variable

// GroupNames lists the groups in first-appearance order
func (vs Variables) GroupNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, v := range vs {
		g := v.group()
		if !seen[g] {
			seen[g] = true
			names = append(names, g)
		}
	}
	return names
}

// GroupIdxs returns the column indices of each group, ordered as GroupNames
func (vs Variables) GroupIdxs() [][]int {
	names := vs.GroupNames()
	pos := map[string]int{}
	for i, n := range names {
		pos[n] = i
	}
	idxs := make([][]int, len(names))
	for col, v := range vs {
		i := pos[v.group()]
		idxs[i] = append(idxs[i], col)
	}
	return idxs
}

// Subset keeps the variables at the given column indices
func (vs Variables) Subset(idxs []int) (Variables, error) {
	out := make(Variables, 0, len(idxs))
	for _, i := range idxs {
		if i < 0 || i >= len(vs) {
			return nil, fmt.Errorf("variable index %d out of range, have %d variables", i, len(vs))
		}
		out = append(out, vs[i])
	}
	return out, nil
}
