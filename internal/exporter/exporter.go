// Package exporter walks a kinematic tree and logs joint transforms and link
// visuals to a scene sink.
package exporter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"urdf-scene-exporter/internal/entitypath"
	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/logging"
	"urdf-scene-exporter/internal/motion"
	"urdf-scene-exporter/internal/scene"
	"urdf-scene-exporter/internal/transform"
	"urdf-scene-exporter/internal/visual"
)

// Exporter holds the shared resources for logging one model.
type Exporter struct {
	Source  kinematics.Source
	Paths   *entitypath.Resolver
	Visuals *visual.Exporter
	Sampler *motion.Sampler
	Sink    scene.Sink
	// Workers bounds concurrent per-joint and per-link work; <= 1 is sequential
	// in declaration order.
	Workers int
}

// Result counts what one pass emitted.
type Result struct {
	Joints  int // joint transforms logged
	Links   int // links whose visuals were exported
	Visuals int
	// Values holds the joint values drawn in Sampled mode.
	Values map[string]float64
}

func (r *Result) add(o Result) {
	r.Joints += o.Joints
	r.Links += o.Links
	r.Visuals += o.Visuals
}

// Log runs one pass in the given mode.
func (e *Exporter) Log(ctx context.Context, mode motion.Mode) (Result, error) {
	switch mode {
	case motion.Original:
		return e.LogOriginal(ctx)
	case motion.Random:
		return e.LogRandom(ctx)
	case motion.Sampled:
		return e.LogSampled(ctx)
	}
	return Result{}, fmt.Errorf("exporter: unknown mode %v", mode)
}

// Run logs the static model, then frames passes in mode on successive time
// steps. In Original mode no frames are logged.
func (e *Exporter) Run(ctx context.Context, mode motion.Mode, frames int) (Result, error) {
	total, err := e.LogOriginal(ctx)
	if err != nil || mode == motion.Original {
		return total, err
	}
	timeline, _ := e.Sink.(scene.Timeline)
	for f := range frames {
		if timeline != nil {
			timeline.SetFrame(f)
		}
		res, err := e.Log(ctx, mode)
		if err != nil {
			return total, fmt.Errorf("exporter: frame %d: %w", f, err)
		}
		total.add(res)
		total.Values = res.Values
	}
	return total, nil
}

// LogOriginal logs every joint's static origin (when it has one) as a
// persistent transform, then every link's visuals.
func (e *Exporter) LogOriginal(ctx context.Context) (Result, error) {
	start := time.Now()
	var joints, links, visuals atomic.Int64

	js := e.Source.Joints()
	err := e.run(ctx, "joints", len(js), func(ctx context.Context, i int) error {
		j := js[i]
		t, ok := motion.Static(j).Get()
		if !ok {
			return nil
		}
		if err := e.logJoint(j, t, true); err != nil {
			return err
		}
		joints.Add(1)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	ls := e.Source.Links()
	err = e.run(ctx, "links", len(ls), func(ctx context.Context, i int) error {
		l := ls[i]
		path, err := e.Paths.Link(l.Name)
		if err != nil {
			return fmt.Errorf("exporter: link %s: %w", l.Name, err)
		}
		n, err := e.Visuals.ExportLink(ctx, path, l)
		visuals.Add(int64(n))
		if err != nil {
			return fmt.Errorf("exporter: link %s: %w", l.Name, err)
		}
		links.Add(1)
		return nil
	})

	res := Result{Joints: int(joints.Load()), Links: int(links.Load()), Visuals: int(visuals.Load())}
	if err != nil {
		return res, err
	}
	logging.Logger().Info("logged original pose",
		"joints", res.Joints, "links", res.Links, "visuals", res.Visuals,
		"elapsed", time.Since(start))
	return res, nil
}

// LogRandom logs a uniformly random rotation per joint as a non-persistent
// transform. Visuals are not re-logged.
func (e *Exporter) LogRandom(ctx context.Context) (Result, error) {
	js := e.Source.Joints()
	var joints atomic.Int64
	err := e.run(ctx, "joints", len(js), func(ctx context.Context, i int) error {
		j := js[i]
		if err := e.logJoint(j, e.Sampler.DebugRotation(j), false); err != nil {
			return err
		}
		joints.Add(1)
		return nil
	})
	res := Result{Joints: int(joints.Load())}
	if err != nil {
		return res, err
	}
	logging.Logger().Info("logged random pose", "joints", res.Joints)
	return res, nil
}

// LogSampled draws a value per joint within its limits and logs origin
// followed by joint motion as a non-persistent transform.
func (e *Exporter) LogSampled(ctx context.Context) (Result, error) {
	js := e.Source.Joints()
	var (
		mu     sync.Mutex
		values = make(map[string]float64, len(js))
		joints atomic.Int64
	)
	err := e.run(ctx, "joints", len(js), func(ctx context.Context, i int) error {
		j := js[i]
		m, v, err := e.Sampler.Sample(j)
		if err != nil {
			return fmt.Errorf("exporter: joint %s: %w", j.Name, err)
		}
		mu.Lock()
		values[j.Name] = v
		mu.Unlock()

		t, ok := m.Get()
		if !ok {
			return nil
		}
		if err := e.logJoint(j, t, false); err != nil {
			return err
		}
		joints.Add(1)
		return nil
	})
	res := Result{Joints: int(joints.Load()), Values: values}
	if err != nil {
		return res, err
	}
	logging.Logger().Info("logged sampled pose", "joints", res.Joints)
	return res, nil
}

func (e *Exporter) logJoint(j *kinematics.Joint, t transform.Transform, static bool) error {
	path, err := e.Paths.Joint(j)
	if err != nil {
		return fmt.Errorf("exporter: joint %s: %w", j.Name, err)
	}
	if err := e.Sink.LogTransform(path, t, static); err != nil {
		return fmt.Errorf("exporter: joint %s: %w", j.Name, err)
	}
	logging.Logger().Debug("transform", "path", path, "static", static)
	return nil
}
