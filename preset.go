package cinder

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rangeSpec is the YAML form of a Range. It accepts either a bare scalar
// (a fixed value, min == max) or a {min, max} mapping.
type rangeSpec struct {
	Min, Max float64
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *rangeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		r.Min, r.Max = v, v
		return nil
	}
	var m struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	}
	if err := value.Decode(&m); err != nil {
		return err
	}
	r.Min, r.Max = m.Min, m.Max
	return nil
}

func (r rangeSpec) toRange() Range {
	return Range{Min: r.Min, Max: r.Max}
}

// EffectPreset is the YAML document shape for an effect configuration.
// Curves are referenced by name ("linear", "ease-out-quad", ...); range
// fields accept a scalar or {min, max}.
type EffectPreset struct {
	EmitDuration     float64    `yaml:"emitDuration"`
	ParticlesPerEmit int        `yaml:"particlesPerEmit"`
	ParticleCount    int        `yaml:"particleCount"`
	Foreground       bool       `yaml:"foreground"`
	Distance         rangeSpec  `yaml:"distance"`
	Angle            rangeSpec  `yaml:"angle"`
	Duration         rangeSpec  `yaml:"duration"`
	BeginScale       rangeSpec  `yaml:"beginScale"`
	EndScale         *rangeSpec `yaml:"endScale"`
	FadeInLimit      rangeSpec  `yaml:"fadeInLimit"`
	FadeOutThreshold *rangeSpec `yaml:"fadeOutThreshold"`
	DistanceCurve    string     `yaml:"distanceCurve"`
	FadeInCurve      string     `yaml:"fadeInCurve"`
	FadeOutCurve     string     `yaml:"fadeOutCurve"`
	ScaleCurve       string     `yaml:"scaleCurve"`
}

// LoadEffectPreset parses a YAML effect preset into an EffectConfiguration.
// Unknown curve names and reversed ranges are reported as errors.
func LoadEffectPreset(data []byte) (EffectConfiguration, error) {
	var p EffectPreset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return EffectConfiguration{}, fmt.Errorf("cinder: failed to parse effect preset: %w", err)
	}
	return p.Configuration()
}

// Configuration resolves the preset into an EffectConfiguration, looking up
// curves by name and validating ranges.
func (p EffectPreset) Configuration() (EffectConfiguration, error) {
	cfg := EffectConfiguration{
		EmitDuration:     p.EmitDuration,
		ParticlesPerEmit: p.ParticlesPerEmit,
		ParticleCount:    p.ParticleCount,
		Foreground:       p.Foreground,
		Distance:         p.Distance.toRange(),
		Angle:            p.Angle.toRange(),
		Duration:         p.Duration.toRange(),
		BeginScale:       p.BeginScale.toRange(),
		FadeInLimit:      p.FadeInLimit.toRange(),
	}
	if p.EndScale != nil {
		r := p.EndScale.toRange()
		cfg.EndScale = &r
	}
	if p.FadeOutThreshold != nil {
		r := p.FadeOutThreshold.toRange()
		cfg.FadeOutThreshold = &r
	}

	var err error
	if cfg.DistanceCurve, err = curveFor(p.DistanceCurve); err != nil {
		return EffectConfiguration{}, err
	}
	if cfg.FadeInCurve, err = curveFor(p.FadeInCurve); err != nil {
		return EffectConfiguration{}, err
	}
	if cfg.FadeOutCurve, err = curveFor(p.FadeOutCurve); err != nil {
		return EffectConfiguration{}, err
	}
	if cfg.ScaleCurve, err = curveFor(p.ScaleCurve); err != nil {
		return EffectConfiguration{}, err
	}

	if err := cfg.Validate(); err != nil {
		return EffectConfiguration{}, err
	}
	return cfg, nil
}

// curveFor resolves a preset curve name. The empty name means linear.
func curveFor(name string) (Curve, error) {
	if name == "" {
		return nil, nil
	}
	c, ok := curvesByName[name]
	if !ok {
		return nil, fmt.Errorf("cinder: unknown curve %q", name)
	}
	return c, nil
}
