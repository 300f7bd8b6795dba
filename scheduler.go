package cinder

import "time"

// Layer partitions active effects into independently drawn groups.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerForeground
)

// String returns the lowercase layer name.
func (l Layer) String() string {
	if l == LayerForeground {
		return "foreground"
	}
	return "background"
}

// LayerAdvanceFunc is notified after a layer's effects have been advanced for
// a tick, so a renderer can rebuild its draw list. Idle layers (no active
// effects) are never notified.
type LayerAdvanceFunc func(layer Layer, deltaMillis float64)

// effectLayer holds one layer's active list plus a pending buffer for effects
// added mid-tick. The pending buffer exists so a layer iterating its active
// list is never mutated in place.
type effectLayer struct {
	active  []Effect
	pending []Effect
}

// FrameScheduler advances all active effects once per host tick with the
// correct elapsed delta and partitions them into draw layers. The host clock
// is the sole source of progress; the scheduler invents no time of its own.
//
// Single-threaded: all methods must be called from the same goroutine that
// calls Tick.
type FrameScheduler struct {
	layers      [2]effectLayer
	declared    []Effect
	lastTick    time.Duration
	surfaceSize Vec2
	onAdvance   LayerAdvanceFunc
}

// NewFrameScheduler creates an empty scheduler. Set the surface size before
// adding effects that place particles relative to the canvas.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// SetSurfaceSize records the render canvas dimensions, used for particle
// placement at emission, and broadcasts the resize to every effect.
func (s *FrameScheduler) SetSurfaceSize(size Vec2) {
	old := s.surfaceSize
	if old == size {
		return
	}
	s.surfaceSize = size
	for li := range s.layers {
		l := &s.layers[li]
		for _, e := range l.active {
			e.OnSurfaceResized(old, size)
		}
		for _, e := range l.pending {
			e.OnSurfaceResized(old, size)
		}
	}
}

// SurfaceSize returns the last recorded render canvas dimensions.
func (s *FrameScheduler) SurfaceSize() Vec2 {
	return s.surfaceSize
}

// OnLayerAdvance registers the per-layer notification callback. Passing nil
// detaches.
func (s *FrameScheduler) OnLayerAdvance(fn LayerAdvanceFunc) {
	s.onAdvance = fn
}

// AddEffect wires the effect to this scheduler and files it in the pending
// buffer of its layer. It joins the active list on the next Tick.
func (s *FrameScheduler) AddEffect(e Effect) {
	e.attach(s.surfaceSize, s.addChained)
	l := s.layerFor(e)
	l.pending = append(l.pending, e)
}

func (s *FrameScheduler) layerFor(e Effect) *effectLayer {
	if e.Configuration().Foreground {
		return &s.layers[LayerForeground]
	}
	return &s.layers[LayerBackground]
}

// addChained receives post-effect chained effects. They arrive already marked
// as runtime-added and root-linked; they only need wiring and buffering.
func (s *FrameScheduler) addChained(e Effect) {
	s.AddEffect(e)
}

// RemoveEffect kills and removes the effect together with every active or
// pending effect descending from it through post-effect chaining (matching
// root), in both layers.
func (s *FrameScheduler) RemoveEffect(target Effect) {
	matches := func(e Effect) bool {
		return e == target || e.Root() == target
	}
	for li := range s.layers {
		l := &s.layers[li]
		l.active = removeMatching(l.active, matches)
		l.pending = removeMatching(l.pending, matches)
	}
	s.declared = removeMatching(s.declared, matches)
}

// removeMatching kills and filters out matching effects, preserving order.
func removeMatching(effects []Effect, matches func(Effect) bool) []Effect {
	kept := 0
	for _, e := range effects {
		if matches(e) {
			e.Kill()
			continue
		}
		effects[kept] = e
		kept++
	}
	for i := kept; i < len(effects); i++ {
		effects[i] = nil
	}
	return effects[:kept]
}

// ClearEffects kills and removes every effect, active and pending, in both
// layers.
func (s *FrameScheduler) ClearEffects() {
	all := func(Effect) bool { return true }
	for li := range s.layers {
		l := &s.layers[li]
		l.active = removeMatching(l.active, all)
		l.pending = removeMatching(l.pending, all)
	}
	s.declared = nil
}

// SetEffects reconciles a declaratively supplied effect list against the
// previous call's list: new entries are added, vanished entries are purged
// along with their chained descendants. Effects added at runtime through
// post-effect chaining are not part of any declared list and are never purged
// by the diff.
func (s *FrameScheduler) SetEffects(effects []Effect) {
	// RemoveEffect compacts s.declared in place, so diff against a copy.
	prev := append([]Effect(nil), s.declared...)
	for _, e := range prev {
		if !containsEffect(effects, e) {
			s.RemoveEffect(e)
		}
	}
	for _, e := range effects {
		if !containsEffect(s.declared, e) {
			s.AddEffect(e)
		}
	}
	s.declared = append(s.declared[:0:0], effects...)
}

func containsEffect(effects []Effect, target Effect) bool {
	for _, e := range effects {
		if e == target {
			return true
		}
	}
	return false
}

// Effects returns a layer's active list: effects merged on or before the most
// recent Tick and not yet swept. Read-only view.
func (s *FrameScheduler) Effects(layer Layer) []Effect {
	return s.layers[layer].active
}

// Tick advances the engine to the given elapsed time. The host supplies a
// monotonically non-decreasing duration since its own epoch; the first tick's
// baseline is zero. Per tick: sweep killed effects, merge pending effects
// into their layer, compute the delta, and advance every non-idle layer.
func (s *FrameScheduler) Tick(elapsed time.Duration) {
	// Sweep killed effects out of the active lists.
	for li := range s.layers {
		l := &s.layers[li]
		kept := 0
		for _, e := range l.active {
			if e.State() == EffectKilled {
				continue
			}
			l.active[kept] = e
			kept++
		}
		for i := kept; i < len(l.active); i++ {
			l.active[i] = nil
		}
		l.active = l.active[:kept]
	}

	// Merge pending buffers, partitioned by the Foreground flag.
	for li := range s.layers {
		l := &s.layers[li]
		for _, e := range l.pending {
			if e.State() == EffectKilled {
				continue
			}
			dst := &s.layers[LayerBackground]
			if e.Configuration().Foreground {
				dst = &s.layers[LayerForeground]
			}
			dst.active = append(dst.active, e)
		}
		for i := range l.pending {
			l.pending[i] = nil
		}
		l.pending = l.pending[:0]
	}

	delta := float64(elapsed-s.lastTick) / float64(time.Millisecond)
	s.lastTick = elapsed
	if delta < 0 {
		delta = 0
	}

	// Advance non-idle layers. Idle layers are skipped entirely, including
	// listener notification.
	for li := range s.layers {
		l := &s.layers[li]
		if len(l.active) == 0 {
			continue
		}
		for _, e := range l.active {
			e.Forward(delta)
		}
		if s.onAdvance != nil {
			s.onAdvance(Layer(li), delta)
		}
	}
}
