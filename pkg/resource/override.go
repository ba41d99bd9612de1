package resource

import "fmt"

// Override describes how Replace changes a resource.
type Override interface {
	override()
}

// Replacement swaps the whole resource for another one.
type Replacement struct {
	Resource Resource
}

// Merge merges Patch into a structured payload. A scalar payload is
// substituted instead.
type Merge struct {
	Patch any
}

// CallbackPatch calls Fn with the current payload under the "cached"
// variable and shallow-merges the result into the payload.
type CallbackPatch struct {
	Fn Callback
}

// Substitution replaces the payload unconditionally.
type Substitution struct {
	Value any
}

func (Replacement) override()   {}
func (Merge) override()         {}
func (CallbackPatch) override() {}
func (Substitution) override()  {}

// OverrideOf classifies loosely typed input. Resources become Replacements,
// callbacks become CallbackPatches, Overrides pass through and anything else
// is a Merge.
func OverrideOf(v any) Override {
	switch t := v.(type) {
	case Override:
		return t
	case Resource:
		return Replacement{Resource: t}
	case Callback:
		return CallbackPatch{Fn: t}
	case func(Vars, string, string) (any, error):
		return CallbackPatch{Fn: t}
	default:
		return Merge{Patch: v}
	}
}

func invalidOverride(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOverride, fmt.Sprintf(format, args...))
}
