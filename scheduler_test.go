package cinder

import (
	"testing"
	"time"
)

func newSchedulerEffect(t *testing.T, foreground bool) *BaseEffect {
	t.Helper()
	cfg := testEffectConfig()
	cfg.EmitDuration = 0
	cfg.ParticleCount = 0
	cfg.Foreground = foreground
	return newTestEffect(t, cfg)
}

func TestAddEffectMergesOnNextTick(t *testing.T) {
	s := NewFrameScheduler()
	e := newSchedulerEffect(t, false)
	s.AddEffect(e)

	if len(s.Effects(LayerBackground)) != 0 {
		t.Fatal("effect should sit in the pending buffer until the next tick")
	}

	s.Tick(16 * time.Millisecond)
	if len(s.Effects(LayerBackground)) != 1 {
		t.Fatalf("active = %d, want 1 after merge", len(s.Effects(LayerBackground)))
	}
	// The merged effect was advanced this tick.
	if e.TotalEmitted() == 0 {
		t.Error("merged effect was not forwarded")
	}
}

func TestLayerPartitioning(t *testing.T) {
	s := NewFrameScheduler()
	bg := newSchedulerEffect(t, false)
	fg := newSchedulerEffect(t, true)
	s.AddEffect(bg)
	s.AddEffect(fg)
	s.Tick(time.Millisecond)

	if got := s.Effects(LayerBackground); len(got) != 1 || got[0] != Effect(bg) {
		t.Errorf("background layer = %v", got)
	}
	if got := s.Effects(LayerForeground); len(got) != 1 || got[0] != Effect(fg) {
		t.Errorf("foreground layer = %v", got)
	}
}

func TestDeltaComputation(t *testing.T) {
	s := NewFrameScheduler()
	e := newSchedulerEffect(t, false)
	s.AddEffect(e)

	var deltas []float64
	s.OnLayerAdvance(func(_ Layer, delta float64) { deltas = append(deltas, delta) })

	// The first tick's baseline is zero.
	s.Tick(100 * time.Millisecond)
	s.Tick(116 * time.Millisecond)
	s.Tick(150 * time.Millisecond)

	want := []float64{100, 16, 34}
	if len(deltas) != len(want) {
		t.Fatalf("deltas = %v, want %v", deltas, want)
	}
	for i := range want {
		assertNear(t, "delta", deltas[i], want[i])
	}
}

func TestIdleLayersAreNotNotified(t *testing.T) {
	s := NewFrameScheduler()
	s.AddEffect(newSchedulerEffect(t, false)) // background only

	notified := map[Layer]int{}
	s.OnLayerAdvance(func(l Layer, _ float64) { notified[l]++ })

	s.Tick(10 * time.Millisecond)
	s.Tick(20 * time.Millisecond)

	if notified[LayerBackground] != 2 {
		t.Errorf("background notified %d times, want 2", notified[LayerBackground])
	}
	if notified[LayerForeground] != 0 {
		t.Errorf("foreground notified %d times, want 0 (idle)", notified[LayerForeground])
	}
}

func TestKilledEffectsAreSwept(t *testing.T) {
	s := NewFrameScheduler()
	e := newSchedulerEffect(t, false)
	s.AddEffect(e)
	s.Tick(time.Millisecond)

	e.Kill()
	s.Tick(2 * time.Millisecond)
	if len(s.Effects(LayerBackground)) != 0 {
		t.Error("killed effect should be swept from the active list")
	}
}

func TestSelfCompletingEffectIsSwept(t *testing.T) {
	s := NewFrameScheduler()
	cfg := testEffectConfig()
	cfg.EmitDuration = 0
	cfg.ParticlesPerEmit = 2
	cfg.ParticleCount = 2
	cfg.Duration = Range{Min: 50, Max: 50}
	e := newTestEffect(t, cfg)
	s.AddEffect(e)

	s.Tick(10 * time.Millisecond) // merge + emit both
	s.Tick(100 * time.Millisecond)
	if e.State() != EffectKilled {
		t.Fatalf("state = %v, want killed once budget and particles are spent", e.State())
	}
	s.Tick(110 * time.Millisecond)
	if len(s.Effects(LayerBackground)) != 0 {
		t.Error("completed effect should be swept")
	}
}

func TestChainedEffectJoinsOnLaterTick(t *testing.T) {
	pcfg := testParticleConfig()
	pcfg.PostEffect = func(p *Particle) Effect {
		splashCfg := testEffectConfig()
		splashCfg.EmitDuration = 0
		splashCfg.ParticleCount = 0
		splash, err := NewRandomizedEffect(splashCfg, testParticleConfig(), testRand())
		if err != nil {
			panic(err)
		}
		return splash
	}
	cfg := testEffectConfig()
	cfg.EmitDuration = 0
	cfg.ParticlesPerEmit = 1
	cfg.ParticleCount = 1
	cfg.Duration = Range{Min: 50, Max: 50}
	root, err := NewRandomizedEffect(cfg, pcfg, testRand())
	if err != nil {
		t.Fatal(err)
	}

	s := NewFrameScheduler()
	s.AddEffect(root)
	s.Tick(10 * time.Millisecond)  // merge root, emit its particle
	s.Tick(100 * time.Millisecond) // particle retires, splash is buffered

	active := s.Effects(LayerBackground)
	if len(active) != 1 {
		t.Fatalf("chained effect must not join the active list mid-tick (active = %d)", len(active))
	}

	s.Tick(110 * time.Millisecond) // root swept (killed), splash merged
	active = s.Effects(LayerBackground)
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1 (the chained splash)", len(active))
	}
	splash := active[0]
	if !splash.AddedAtRuntime() {
		t.Error("chained effect should be runtime-added")
	}
	if splash.Root() != Effect(root) {
		t.Error("chained effect should resolve to the original root")
	}
}

func TestRemoveEffectPurgesChain(t *testing.T) {
	root := newSchedulerEffect(t, false)
	chainA := newSchedulerEffect(t, false)
	chainB := newSchedulerEffect(t, true)
	chainA.markRuntime(root)
	chainB.markRuntime(root)
	other := newSchedulerEffect(t, false)

	s := NewFrameScheduler()
	s.AddEffect(root)
	s.AddEffect(chainA)
	s.AddEffect(other)
	s.Tick(time.Millisecond)
	s.AddEffect(chainB) // still pending when the removal happens

	s.RemoveEffect(root)
	s.Tick(2 * time.Millisecond)

	bg := s.Effects(LayerBackground)
	if len(bg) != 1 || bg[0] != Effect(other) {
		t.Errorf("background = %v, want only the unrelated effect", bg)
	}
	if len(s.Effects(LayerForeground)) != 0 {
		t.Error("pending chained effect should have been purged too")
	}
	for _, e := range []*BaseEffect{root, chainA, chainB} {
		if e.State() != EffectKilled {
			t.Errorf("removed effect state = %v, want killed", e.State())
		}
	}
	if other.State() == EffectKilled {
		t.Error("unrelated effect was killed")
	}
}

func TestClearEffects(t *testing.T) {
	s := NewFrameScheduler()
	a := newSchedulerEffect(t, false)
	b := newSchedulerEffect(t, true)
	s.AddEffect(a)
	s.Tick(time.Millisecond)
	s.AddEffect(b)

	s.ClearEffects()
	s.Tick(2 * time.Millisecond)
	if len(s.Effects(LayerBackground)) != 0 || len(s.Effects(LayerForeground)) != 0 {
		t.Error("ClearEffects should empty both layers")
	}
	if a.State() != EffectKilled || b.State() != EffectKilled {
		t.Error("cleared effects should be killed")
	}
}

func TestSetEffectsDiff(t *testing.T) {
	s := NewFrameScheduler()
	a := newSchedulerEffect(t, false)
	b := newSchedulerEffect(t, false)

	s.SetEffects([]Effect{a, b})
	s.Tick(time.Millisecond)
	if len(s.Effects(LayerBackground)) != 2 {
		t.Fatalf("active = %d, want 2", len(s.Effects(LayerBackground)))
	}

	// b vanishes from the declared list, c appears.
	c := newSchedulerEffect(t, false)
	s.SetEffects([]Effect{a, c})
	s.Tick(2 * time.Millisecond)

	bg := s.Effects(LayerBackground)
	if len(bg) != 2 {
		t.Fatalf("active = %d, want 2 after diff", len(bg))
	}
	if !containsEffect(bg, a) || !containsEffect(bg, c) {
		t.Errorf("active = %v, want a and c", bg)
	}
	if b.State() != EffectKilled {
		t.Error("b should be purged by the diff")
	}
	// a kept its state: it was not re-added.
	if a.State() != EffectRunning {
		t.Errorf("a state = %v, want running", a.State())
	}
}

func TestSetEffectsDiffSparesRuntimeChains(t *testing.T) {
	s := NewFrameScheduler()
	declared := newSchedulerEffect(t, false)
	s.SetEffects([]Effect{declared})
	s.Tick(time.Millisecond)

	chained := newSchedulerEffect(t, false)
	chained.markRuntime(declared)
	s.AddEffect(chained)
	s.Tick(2 * time.Millisecond)

	// Re-declaring the same list must not purge the runtime-added chain.
	s.SetEffects([]Effect{declared})
	s.Tick(3 * time.Millisecond)

	bg := s.Effects(LayerBackground)
	if !containsEffect(bg, chained) {
		t.Error("runtime-added chained effect was purged by the declarative diff")
	}
	if chained.State() == EffectKilled {
		t.Error("chained effect was killed by the diff")
	}
}

func TestSurfaceSizeBroadcastAndStorage(t *testing.T) {
	s := NewFrameScheduler()
	e := newSchedulerEffect(t, false)
	s.AddEffect(e)
	s.SetSurfaceSize(Vec2{800, 600})

	if s.SurfaceSize() != (Vec2{800, 600}) {
		t.Errorf("SurfaceSize = %v", s.SurfaceSize())
	}

	s.Tick(time.Millisecond)
	p := e.Particles()[0].Particle()
	if p.InitialPosition() != (Vec2{400, 300}) {
		t.Errorf("spawn = %v, want center of the stored surface", p.InitialPosition())
	}

	// Effects added after the size is set are wired with it immediately.
	late := newSchedulerEffect(t, false)
	s.AddEffect(late)
	s.Tick(2 * time.Millisecond)
	if late.Particles()[0].Particle().InitialPosition() != (Vec2{400, 300}) {
		t.Error("late effect did not receive the surface size")
	}
}

func TestNonDecreasingClockTolerated(t *testing.T) {
	s := NewFrameScheduler()
	e := newSchedulerEffect(t, false)
	s.AddEffect(e)

	s.Tick(100 * time.Millisecond)
	emitted := e.TotalEmitted()
	// A repeated timestamp yields a zero delta, which must not emit (the
	// strict emission gate stays closed) or corrupt anything.
	s.Tick(100 * time.Millisecond)
	if e.TotalEmitted() != emitted {
		t.Errorf("zero-delta tick emitted particles: %d -> %d", emitted, e.TotalEmitted())
	}
}
