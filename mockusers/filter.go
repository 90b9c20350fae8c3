package mockusers

import (
	"strings"
)

// FilterKind identifies the form of an id filter expression.
type FilterKind int

const (
	// FilterNone means the id parameter was absent.
	FilterNone FilterKind = iota
	// FilterEq is eq.<id>.
	FilterEq
	// FilterIn is in.(<id>,<id>,...).
	FilterIn
	// FilterOther is any other value. It selects everything, like FilterNone, but write
	// operations reject it.
	FilterOther
)

const (
	eqPrefix = "eq."
	inPrefix = "in.("
	inSuffix = ")"
)

// Filter is a parsed id query parameter.
type Filter struct {
	Kind FilterKind
	IDs  []string
}

// ParseFilter parses the raw id parameter. present is false when the parameter was absent.
func ParseFilter(raw string, present bool) Filter {
	switch {
	case !present:
		return Filter{Kind: FilterNone}
	case strings.HasPrefix(raw, eqPrefix):
		return Filter{Kind: FilterEq, IDs: []string{strings.TrimPrefix(raw, eqPrefix)}}
	case strings.HasPrefix(raw, inPrefix):
		list := strings.TrimSuffix(strings.TrimPrefix(raw, inPrefix), inSuffix)
		return Filter{Kind: FilterIn, IDs: strings.Split(list, ",")}
	default:
		return Filter{Kind: FilterOther}
	}
}

// Match reports whether a record is selected by the filter.
func (f Filter) Match(u User) bool {
	switch f.Kind {
	case FilterEq, FilterIn:
		for _, id := range f.IDs {
			if id == u.ID {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// SingleID returns the id of an eq. filter.
func (f Filter) SingleID() (string, bool) {
	if f.Kind != FilterEq {
		return "", false
	}
	return f.IDs[0], true
}
