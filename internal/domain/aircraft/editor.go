package aircraft

import (
	"strconv"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// ErrLastTopLevelPart is returned when removing the only top-level part.
var ErrLastTopLevelPart = errors.New(errors.ErrCodeLastTopLevelPart, "must have at least one part")

// Editor is the in-memory tree plus its expansion state.  The tree is built
// top-down by one editing session, so no cycle checks are needed; MaxDepth
// bounds recursion for drafts that arrive over the API.
type Editor struct {
	Parts    []Part          `json:"parts"`
	Expanded map[string]bool `json:"expanded"`
	MaxDepth int             `json:"max_depth"`
}

// NewEditor starts a session with one blank top-level part.
func NewEditor(maxDepth int) *Editor {
	return &Editor{
		Parts:    []Part{NewPart()},
		Expanded: map[string]bool{},
		MaxDepth: maxDepth,
	}
}

// Restore wraps an existing tree (for example one loaded from storage).
func Restore(parts []Part, expanded map[string]bool, maxDepth int) (*Editor, error) {
	if expanded == nil {
		expanded = map[string]bool{}
	}
	e := &Editor{Parts: parts, Expanded: expanded, MaxDepth: maxDepth}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func invalidPath(p Path) error {
	return errors.New(errors.ErrCodePartPathInvalid, "no part at path").WithDetail(p.Key())
}

// siblings returns the slice holding the node at path and the node's index.
func (e *Editor) siblings(path Path) (*[]Part, int, error) {
	if len(path) == 0 {
		return nil, 0, invalidPath(path)
	}
	list := &e.Parts
	for depth, idx := range path {
		if idx < 0 || idx >= len(*list) {
			return nil, 0, invalidPath(path)
		}
		if depth == len(path)-1 {
			return list, idx, nil
		}
		list = &(*list)[idx].SubParts
	}
	return nil, 0, invalidPath(path)
}

func (e *Editor) node(path Path) (*Part, error) {
	list, idx, err := e.siblings(path)
	if err != nil {
		return nil, err
	}
	return &(*list)[idx], nil
}

// Get returns a copy of the node at path.
func (e *Editor) Get(path Path) (Part, error) {
	n, err := e.node(path)
	if err != nil {
		return Part{}, err
	}
	return *n, nil
}

// AddPart appends a blank top-level part and returns its path.
func (e *Editor) AddPart() Path {
	e.Parts = append(e.Parts, NewPart())
	return Path{len(e.Parts) - 1}
}

// AddSubpart appends a blank NEW part under the node at parent and expands
// the parent so the new row is visible.
func (e *Editor) AddSubpart(parent Path) (Path, error) {
	n, err := e.node(parent)
	if err != nil {
		return nil, err
	}
	if len(parent)+1 > e.maxDepth() {
		return nil, errors.New(errors.ErrCodeTreeTooDeep, "part tree too deep").WithDetail(strconv.Itoa(e.maxDepth()))
	}
	n.SubParts = append(n.SubParts, NewPart())
	e.ensureExpanded()
	e.Expanded[parent.Key()] = true
	return parent.Child(len(n.SubParts) - 1), nil
}

// RemoveItem deletes the node at path with its subtree.  Removing the last
// top-level part is refused and leaves the tree unchanged.
func (e *Editor) RemoveItem(path Path) error {
	list, idx, err := e.siblings(path)
	if err != nil {
		return err
	}
	if len(path) == 1 && len(e.Parts) == 1 {
		return ErrLastTopLevelPart
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	e.shiftExpanded(path)
	return nil
}

// Toggle flips the expansion flag of the node at path.
func (e *Editor) Toggle(path Path) (bool, error) {
	if _, err := e.node(path); err != nil {
		return false, err
	}
	e.ensureExpanded()
	k := path.Key()
	e.Expanded[k] = !e.Expanded[k]
	return e.Expanded[k], nil
}

// IsExpanded reports the expansion flag of the node at path.
func (e *Editor) IsExpanded(path Path) bool {
	return e.Expanded[path.Key()]
}

// Update applies fn to a copy of the node at path and keeps the result only
// if the tree still validates.  On error the tree is left unchanged.
func (e *Editor) Update(path Path, fn func(*Part)) error {
	n, err := e.node(path)
	if err != nil {
		return err
	}
	old := *n
	next := clonePart(old)
	fn(&next)
	*n = next
	if err := e.Validate(); err != nil {
		*n = old
		return err
	}
	return nil
}

// Validate checks the submission invariants: at least one top-level part and
// a bounded depth.
func (e *Editor) Validate() error {
	if len(e.Parts) == 0 {
		return ErrLastTopLevelPart
	}
	return ValidateDepth(e.Parts, e.MaxDepth)
}

// DefaultMaxDepth bounds trees when no limit is configured.
const DefaultMaxDepth = 8

// ValidateDepth rejects trees deeper than max.  A non-positive max means
// DefaultMaxDepth.
func ValidateDepth(parts []Part, max int) error {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	if Depth(parts) > max {
		return errors.New(errors.ErrCodeTreeTooDeep, "part tree too deep").WithDetail(strconv.Itoa(max))
	}
	return nil
}

// Submission validates the tree and returns the backend payload plus any
// is_father disagreements for the caller to surface.
func (e *Editor) Submission() ([]APIPart, []Inconsistency, error) {
	if err := e.Validate(); err != nil {
		return nil, nil, err
	}
	return Transform(e.Parts), Inconsistencies(e.Parts), nil
}

func (e *Editor) maxDepth() int {
	if e.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return e.MaxDepth
}

func (e *Editor) ensureExpanded() {
	if e.Expanded == nil {
		e.Expanded = map[string]bool{}
	}
}

// shiftExpanded drops the removed subtree's flags and renumbers the later
// siblings so flags stay attached to the same nodes.
func (e *Editor) shiftExpanded(removed Path) {
	if len(e.Expanded) == 0 {
		return
	}
	parent := removed.Parent()
	idx := removed[len(removed)-1]
	level := len(removed) - 1

	next := make(map[string]bool, len(e.Expanded))
	for k, v := range e.Expanded {
		p, err := ParsePath(k)
		if err != nil || len(p) <= level || !hasPrefix(p, parent) {
			next[k] = v
			continue
		}
		switch {
		case p[level] == idx:
			// inside the removed subtree
		case p[level] > idx:
			p[level]--
			next[p.Key()] = v
		default:
			next[k] = v
		}
	}
	e.Expanded = next
}

func hasPrefix(p, prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

//Personal.AI order the ending
