package kinematics

import "fmt"

// UnresolvedPathError is returned when a link cannot be reached from the root.
type UnresolvedPathError struct {
	Root   string
	Target string
}

func (e *UnresolvedPathError) Error() string {
	return fmt.Sprintf("kinematics: no chain from %q to %q", e.Root, e.Target)
}

// ValidationError reports a model that is not a single-rooted tree.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "kinematics: invalid model: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
