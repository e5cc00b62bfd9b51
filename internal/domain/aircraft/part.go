// Package aircraft models the recursive aircraft-part tree edited before a
// single bulk submission, and its transformation to the backend shape.
package aircraft

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionNew is the condition assigned to freshly added parts.
const ConditionNew = "NEW"

// Part is a form-side node.  The numeric counters are pointers because the
// form may leave them blank.  Category is UI-only and never submitted.
type Part struct {
	PartName            string   `json:"part_name"`
	PartNumber          string   `json:"part_number"`
	ConditionType       string   `json:"condition_type"`
	Category            string   `json:"category,omitempty"`
	IsFather            bool     `json:"is_father"`
	TimeSinceNew        *float64 `json:"time_since_new,omitempty"`
	TimeSinceOverhaul   *float64 `json:"time_since_overhaul,omitempty"`
	CyclesSinceNew      *float64 `json:"cycles_since_new,omitempty"`
	CyclesSinceOverhaul *float64 `json:"cycles_since_overhaul,omitempty"`
	SubParts            []Part   `json:"sub_parts,omitempty"`
}

// NewPart returns a blank part in NEW condition.
func NewPart() Part {
	return Part{ConditionType: ConditionNew}
}

// APIPart is the submit shape: no category, every counter present.
type APIPart struct {
	PartName            string    `json:"part_name"`
	PartNumber          string    `json:"part_number"`
	ConditionType       string    `json:"condition_type"`
	IsFather            bool      `json:"is_father"`
	TimeSinceNew        float64   `json:"time_since_new"`
	TimeSinceOverhaul   float64   `json:"time_since_overhaul"`
	CyclesSinceNew      float64   `json:"cycles_since_new"`
	CyclesSinceOverhaul float64   `json:"cycles_since_overhaul"`
	SubParts            []APIPart `json:"sub_parts,omitempty"`
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Transform maps the form tree to the backend shape.  IsFather is passed
// through exactly as the user set it.
func Transform(parts []Part) []APIPart {
	out := make([]APIPart, 0, len(parts))
	for _, p := range parts {
		ap := APIPart{
			PartName:            p.PartName,
			PartNumber:          p.PartNumber,
			ConditionType:       p.ConditionType,
			IsFather:            p.IsFather,
			TimeSinceNew:        orZero(p.TimeSinceNew),
			TimeSinceOverhaul:   orZero(p.TimeSinceOverhaul),
			CyclesSinceNew:      orZero(p.CyclesSinceNew),
			CyclesSinceOverhaul: orZero(p.CyclesSinceOverhaul),
		}
		if len(p.SubParts) > 0 {
			ap.SubParts = Transform(p.SubParts)
		}
		out = append(out, ap)
	}
	return out
}

// Path addresses a node by its index at each level, top level first.
type Path []int

// Key renders the path as "0.2.1"; the empty path renders as "".
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Parent returns the path of the enclosing node.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p[:len(p)-1]...)
}

// Child returns the path of the i-th child.
func (p Path) Child(i int) Path {
	return append(append(Path(nil), p...), i)
}

// ParsePath reads "0.2.1" back into a Path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	fields := strings.Split(s, ".")
	out := make(Path, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid path segment %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}

// Inconsistency flags a node whose is_father flag disagrees with its children.
type Inconsistency struct {
	Path     string `json:"path"`
	PartName string `json:"part_name"`
	IsFather bool   `json:"is_father"`
	SubParts int    `json:"sub_parts"`
}

// Inconsistencies walks the tree and reports every disagreement.  Nothing is
// corrected; the backend decides.
func Inconsistencies(parts []Part) []Inconsistency {
	var out []Inconsistency
	var walk func(nodes []Part, prefix Path)
	walk = func(nodes []Part, prefix Path) {
		for i, n := range nodes {
			p := prefix.Child(i)
			if n.IsFather != (len(n.SubParts) > 0) {
				out = append(out, Inconsistency{Path: p.Key(), PartName: n.PartName, IsFather: n.IsFather, SubParts: len(n.SubParts)})
			}
			walk(n.SubParts, p)
		}
	}
	walk(parts, nil)
	return out
}

// Depth returns the number of levels in the tree; zero for an empty slice.
func Depth(parts []Part) int {
	max := 0
	for _, p := range parts {
		if d := 1 + Depth(p.SubParts); d > max {
			max = d
		}
	}
	return max
}

func clonePart(p Part) Part {
	p.TimeSinceNew = cloneFloat(p.TimeSinceNew)
	p.TimeSinceOverhaul = cloneFloat(p.TimeSinceOverhaul)
	p.CyclesSinceNew = cloneFloat(p.CyclesSinceNew)
	p.CyclesSinceOverhaul = cloneFloat(p.CyclesSinceOverhaul)
	if p.SubParts != nil {
		subs := make([]Part, len(p.SubParts))
		for i, c := range p.SubParts {
			subs[i] = clonePart(c)
		}
		p.SubParts = subs
	}
	return p
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Count returns the total number of nodes.
func Count(parts []Part) int {
	n := len(parts)
	for _, p := range parts {
		n += Count(p.SubParts)
	}
	return n
}

//Personal.AI order the ending
