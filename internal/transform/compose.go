package transform

// Compose returns t1 followed by t2, with t2 expressed in the frame t1 establishes.
// None on either side returns the other operand unchanged. The result never carries scale.
func Compose(t1, t2 Maybe) Maybe {
	a, ok := t1.Get()
	if !ok {
		return t2
	}
	b, ok := t2.Get()
	if !ok {
		return t1
	}

	r1 := a.Rotation()
	return Some(New(
		a.Translation().Add(r1.Rotate(b.Translation())),
		r1.Mul(b.Rotation()),
	))
}

// Chain composes ts left to right.
func Chain(ts ...Maybe) Maybe {
	out := None()
	for _, t := range ts {
		out = Compose(out, t)
	}
	return out
}
