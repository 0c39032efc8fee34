// Package permission decides which tools a mode may offer and use.
package permission

// Checker decides whether a tool call is permitted.
type Checker interface {
	Check(name string, params map[string]any) Decision
}

// Decision represents a permission decision.
type Decision int

const (
	// Permit auto-executes the tool call.
	Permit Decision = iota
	// Reject blocks the tool call.
	Reject
	// Prompt delegates to the caller for interactive approval.
	Prompt
)

func (d Decision) String() string {
	switch d {
	case Permit:
		return "permit"
	case Reject:
		return "reject"
	case Prompt:
		return "prompt"
	default:
		return "unknown"
	}
}
