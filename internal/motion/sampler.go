// Package motion produces per-joint transforms for each export mode.
package motion

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/mathutil"
	"urdf-scene-exporter/internal/transform"
)

// Mode selects how joint transforms are produced.
type Mode int

const (
	// Original emits each joint's static origin.
	Original Mode = iota
	// Random emits a uniformly random rotation per joint, ignoring axis and type.
	// It is a visualization stress test, not a reachable pose.
	Random
	// Sampled draws a joint value within limits and applies it through the joint's motion.
	Sampled
)

func (m Mode) String() string {
	switch m {
	case Original:
		return "original"
	case Random:
		return "random"
	case Sampled:
		return "sampled"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "original" (or "static"), "random" (or "debug") and "sampled".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "original", "static":
		return Original, nil
	case "random", "debug":
		return Random, nil
	case "sampled":
		return Sampled, nil
	}
	return 0, fmt.Errorf("motion: unknown mode %q", s)
}

// DefaultPrismaticRange bounds sampled prismatic values for joints without limits (meters).
const DefaultPrismaticRange = 0.1

// Sampler draws random poses. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler seeded with seed; equal seeds give equal sequences.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Static returns the joint's origin transform, or None when it has none.
func Static(j *kinematics.Joint) transform.Maybe {
	return transform.FromOrigin(j.Origin)
}

// DebugRotation returns a uniformly random rotation for j.
func (s *Sampler) DebugRotation(j *kinematics.Joint) transform.Transform {
	s.mu.Lock()
	q := mathutil.RandomRotation(s.rng)
	s.mu.Unlock()
	return transform.FromRotation(q)
}

// Value draws a joint value: uniformly within the joint's limits when they
// are usable, otherwise within a default range for its kind.
func (s *Sampler) Value(j *kinematics.Joint) float64 {
	lo, hi := Range(j)
	if lo == hi {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return mathutil.Uniform(s.rng, lo, hi)
}

// Sample draws a value for j and returns origin followed by the joint motion.
func (s *Sampler) Sample(j *kinematics.Joint) (transform.Maybe, float64, error) {
	v := s.Value(j)
	m, err := transform.JointMotion(j, v)
	if err != nil {
		return transform.None(), 0, err
	}
	return transform.Compose(Static(j), transform.Some(m)), v, nil
}

// Range returns the sampling interval for a joint.
func Range(j *kinematics.Joint) (lo, hi float64) {
	switch j.Type {
	case kinematics.Revolute:
		if usable(j.Limit) {
			return j.Limit.Lower, j.Limit.Upper
		}
		return -math.Pi, math.Pi
	case kinematics.Continuous:
		return -math.Pi, math.Pi
	case kinematics.Prismatic:
		if usable(j.Limit) {
			return j.Limit.Lower, j.Limit.Upper
		}
		return -DefaultPrismaticRange, DefaultPrismaticRange
	}
	return 0, 0
}

// usable rejects missing, inverted and all-zero (unset) limits.
func usable(l *kinematics.Limit) bool {
	return l != nil && l.Lower <= l.Upper && !(l.Lower == 0 && l.Upper == 0)
}
