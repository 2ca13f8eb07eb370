package models

// Widget styles for low-cardinality text columns.
const (
	StyleCheckbox = "checkbox"
	StyleDropdown = "dropdown"
)

// DefaultMembershipThreshold is the distinct-value count below which a text
// column is offered as a value picker.
const DefaultMembershipThreshold = 30

// RegistryOptions controls which FilterSpec kind each column receives.
type RegistryOptions struct {
	MembershipThreshold int
	Style               string
}

func DefaultRegistryOptions() RegistryOptions {
	return RegistryOptions{
		MembershipThreshold: DefaultMembershipThreshold,
		Style:               StyleCheckbox,
	}
}

// BuildFilterSet creates one unconstrained FilterSpec per dataset column.
// Text columns with fewer distinct values than the threshold get a
// membership filter (or an exact selector in dropdown style); every other
// column gets a substring filter.
func BuildFilterSet(ds *Dataset, opts RegistryOptions) *FilterSet {
	specs := make([]*FilterSpec, 0, len(ds.columns))
	for i, col := range ds.columns {
		if col.Kind == KindText && col.Distinct < opts.MembershipThreshold {
			values := distinct(ds.views[i].Slice())
			if opts.Style == StyleDropdown {
				specs = append(specs, NewExactSpec(col.Name, values))
			} else {
				specs = append(specs, NewMembershipSpec(col.Name, values))
			}
			continue
		}
		specs = append(specs, NewSubstringSpec(col.Name))
	}
	return NewFilterSet(specs...)
}
