// Package experiment defines the feature flags that gate tools still under evaluation.
package experiment

import "sort"

// ID names an experiment.
type ID string

const (
	SearchWeb        ID = "searchWeb"
	SearchAndReplace ID = "searchAndReplace"
	InsertContent    ID = "insertContent"
)

// Flags maps experiment IDs to their enabled state for a session.
type Flags map[ID]bool

// Enabled reports whether id is present and true.
func (f Flags) Enabled(id ID) bool {
	return f[id]
}

// Clone returns an independent copy of f.
func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Known returns every experiment ID in sorted order.
func Known() []ID {
	ids := make([]ID, 0, len(defaults))
	for id := range defaults {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsKnown reports whether id is a defined experiment.
func IsKnown(id ID) bool {
	_, ok := defaults[id]
	return ok
}

var defaults = Flags{
	SearchWeb:        false,
	SearchAndReplace: false,
	InsertContent:    false,
}

// Defaults returns the initial value of every experiment.
func Defaults() Flags {
	return defaults.Clone()
}

// WithDefaults returns f layered over the defaults.
func WithDefaults(f Flags) Flags {
	out := Defaults()
	for k, v := range f {
		out[k] = v
	}
	return out
}
