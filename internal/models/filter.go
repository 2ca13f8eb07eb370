package models

import (
	"fmt"
	"sort"
	"strings"
)

// AnyValue is the exact-filter sentinel that imposes no constraint.
const AnyValue = "(any)"

type FilterKind int

const (
	MembershipFilter FilterKind = iota
	SubstringFilter
	ExactFilter
)

func (k FilterKind) String() string {
	switch k {
	case MembershipFilter:
		return "membership"
	case SubstringFilter:
		return "substring"
	case ExactFilter:
		return "exact"
	default:
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
}

// FilterSpec is the filter configuration of a single column.
type FilterSpec struct {
	Column string
	Kind   FilterKind

	// Options are the candidate values for membership and exact filters,
	// sorted. Exact filters list AnyValue first.
	Options []string

	// Selected is the membership selection.
	Selected map[string]bool

	// Text is the raw comma separated search text of a substring filter.
	Text string

	// Choice is the exact filter value, AnyValue for no constraint.
	Choice string
}

func NewMembershipSpec(column string, values []string) *FilterSpec {
	opts := append([]string(nil), values...)
	sort.Strings(opts)
	return &FilterSpec{
		Column:   column,
		Kind:     MembershipFilter,
		Options:  opts,
		Selected: make(map[string]bool, len(opts)),
	}
}

func NewSubstringSpec(column string) *FilterSpec {
	return &FilterSpec{Column: column, Kind: SubstringFilter}
}

func NewExactSpec(column string, values []string) *FilterSpec {
	opts := append([]string(nil), values...)
	sort.Strings(opts)
	return &FilterSpec{
		Column:  column,
		Kind:    ExactFilter,
		Options: append([]string{AnyValue}, opts...),
		Choice:  AnyValue,
	}
}

// Active reports whether the spec constrains rows at all.
func (f *FilterSpec) Active() bool {
	switch f.Kind {
	case MembershipFilter:
		return len(f.SelectedValues()) > 0
	case SubstringFilter:
		return len(f.Terms()) > 0
	case ExactFilter:
		return f.Choice != "" && f.Choice != AnyValue
	}
	return false
}

// SelectedValues returns the membership selection in option order.
func (f *FilterSpec) SelectedValues() []string {
	out := make([]string, 0, len(f.Selected))
	for _, opt := range f.Options {
		if f.Selected[opt] {
			out = append(out, opt)
		}
	}
	return out
}

// AllSelected drives the "Select All / None" toggle.
func (f *FilterSpec) AllSelected() bool {
	if len(f.Options) == 0 {
		return false
	}
	for _, opt := range f.Options {
		if !f.Selected[opt] {
			return false
		}
	}
	return true
}

// Terms splits the search text on commas, trims, lowercases and drops empties.
func (f *FilterSpec) Terms() []string {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			terms = append(terms, strings.ToLower(p))
		}
	}
	return terms
}

// Predicate returns the row test for an active spec. Missing values never
// match. It is computed once per apply so terms are not re-split per row.
func (f *FilterSpec) Predicate() func(*string) bool {
	switch f.Kind {
	case MembershipFilter:
		allowed := make(map[string]struct{}, len(f.Selected))
		for _, v := range f.SelectedValues() {
			allowed[v] = struct{}{}
		}
		return func(v *string) bool {
			if v == nil {
				return false
			}
			_, ok := allowed[*v]
			return ok
		}
	case SubstringFilter:
		terms := f.Terms()
		return func(v *string) bool {
			if v == nil {
				return false
			}
			lower := strings.ToLower(*v)
			for _, t := range terms {
				if strings.Contains(lower, t) {
					return true
				}
			}
			return false
		}
	case ExactFilter:
		choice := f.Choice
		return func(v *string) bool {
			return v != nil && *v == choice
		}
	}
	return func(*string) bool { return true }
}

// Clear restores the unconstrained default.
func (f *FilterSpec) Clear() {
	switch f.Kind {
	case MembershipFilter:
		f.Selected = make(map[string]bool, len(f.Options))
	case SubstringFilter:
		f.Text = ""
	case ExactFilter:
		f.Choice = AnyValue
	}
}

func (f *FilterSpec) clone() *FilterSpec {
	c := *f
	c.Options = append([]string(nil), f.Options...)
	if f.Selected != nil {
		c.Selected = make(map[string]bool, len(f.Selected))
		for k, v := range f.Selected {
			c.Selected[k] = v
		}
	}
	return &c
}

// EditKind enumerates the user edits a filter widget can emit.
type EditKind int

const (
	EditToggle EditKind = iota
	EditSelectAll
	EditText
	EditChoose
)

// FilterEdit is a single change made through a filter widget.
type FilterEdit struct {
	Column  string
	Kind    EditKind
	Value   string
	Checked bool
}

// FilterSet holds one FilterSpec per dataset column, in column order.
type FilterSet struct {
	specs []*FilterSpec
	index map[string]int
}

func NewFilterSet(specs ...*FilterSpec) *FilterSet {
	fs := &FilterSet{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		fs.index[s.Column] = len(fs.specs)
		fs.specs = append(fs.specs, s)
	}
	return fs
}

// Specs returns the specs in column order. Callers must treat them as
// read-only and go through Apply to change them.
func (fs *FilterSet) Specs() []*FilterSpec {
	return append([]*FilterSpec(nil), fs.specs...)
}

func (fs *FilterSet) Get(column string) (*FilterSpec, bool) {
	i, ok := fs.index[column]
	if !ok {
		return nil, false
	}
	return fs.specs[i], true
}

func (fs *FilterSet) Len() int {
	return len(fs.specs)
}

// Active returns the specs that currently constrain rows.
func (fs *FilterSet) Active() []*FilterSpec {
	out := make([]*FilterSpec, 0)
	for _, s := range fs.specs {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// Apply records a widget edit.
func (fs *FilterSet) Apply(edit FilterEdit) error {
	spec, ok := fs.Get(edit.Column)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, edit.Column)
	}

	switch edit.Kind {
	case EditToggle, EditSelectAll:
		if spec.Kind != MembershipFilter {
			return fmt.Errorf("column %q: %s filter does not take selections", spec.Column, spec.Kind)
		}
		if edit.Kind == EditSelectAll {
			for _, opt := range spec.Options {
				spec.Selected[opt] = edit.Checked
			}
			return nil
		}
		if !containsString(spec.Options, edit.Value) {
			return fmt.Errorf("column %q: %q is not an option", spec.Column, edit.Value)
		}
		spec.Selected[edit.Value] = edit.Checked
	case EditText:
		if spec.Kind != SubstringFilter {
			return fmt.Errorf("column %q: %s filter does not take text", spec.Column, spec.Kind)
		}
		spec.Text = edit.Value
	case EditChoose:
		if spec.Kind != ExactFilter {
			return fmt.Errorf("column %q: %s filter does not take a choice", spec.Column, spec.Kind)
		}
		if !containsString(spec.Options, edit.Value) {
			return fmt.Errorf("column %q: %q is not an option", spec.Column, edit.Value)
		}
		spec.Choice = edit.Value
	default:
		return fmt.Errorf("unknown edit kind %d", edit.Kind)
	}
	return nil
}

// Clear resets every spec to its unconstrained default.
func (fs *FilterSet) Clear() {
	for _, s := range fs.specs {
		s.Clear()
	}
}

// Clone returns a deep copy.
func (fs *FilterSet) Clone() *FilterSet {
	specs := make([]*FilterSpec, len(fs.specs))
	for i, s := range fs.specs {
		specs[i] = s.clone()
	}
	return NewFilterSet(specs...)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Replace swaps the spec for spec.Column, keeping column order.
func (fs *FilterSet) Replace(spec *FilterSpec) error {
	i, ok := fs.index[spec.Column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, spec.Column)
	}
	fs.specs[i] = spec
	return nil
}
