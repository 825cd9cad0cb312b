package transform

// DegenerateAxisError is returned when a joint's motion axis has zero length.
type DegenerateAxisError struct {
	Joint string
}

func (e *DegenerateAxisError) Error() string {
	return "transform: joint " + e.Joint + " has a zero-length axis"
}
