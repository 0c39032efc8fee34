package mode

import (
	"errors"
	"fmt"
)

// ErrModeNotFound matches every NotFoundError via errors.Is.
var ErrModeNotFound = errors.New("mode not found")

// NotFoundError reports a slug that is neither custom nor built in.
type NotFoundError struct {
	Slug ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mode %q not found", e.Slug)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrModeNotFound
}

// Resolve returns the configuration for id.
// A custom mode with the same slug shadows the built-in one.
func Resolve(id ID, customModes []Config) (Config, error) {
	if m, ok := findCustom(id, customModes); ok {
		return m, nil
	}
	if m, ok := builtin(id); ok {
		return m, nil
	}
	return Config{}, &NotFoundError{Slug: id}
}

// findCustom returns the first custom mode with slug id.
func findCustom(id ID, customModes []Config) (Config, bool) {
	for _, m := range customModes {
		if m.Slug == id {
			return m, true
		}
	}
	return Config{}, false
}

// All lists every mode available with customModes loaded: built-ins first in
// their usual order (replaced by a shadowing custom mode), then the remaining
// custom modes in the order given.
func All(customModes []Config) []Config {
	out := make([]Config, 0, len(builtinModes)+len(customModes))
	for _, b := range builtinModes {
		if m, ok := findCustom(b.Slug, customModes); ok {
			out = append(out, m)
			continue
		}
		out = append(out, b)
	}
	for _, m := range customModes {
		if _, ok := builtin(m.Slug); ok {
			continue
		}
		if containsSlug(out, m.Slug) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func containsSlug(modes []Config, id ID) bool {
	for _, m := range modes {
		if m.Slug == id {
			return true
		}
	}
	return false
}
