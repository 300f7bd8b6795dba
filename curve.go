package cinder

import (
	"github.com/tanema/gween/ease"
)

// Curve is a pure easing function mapping normalized progress in [0, 1] to an
// eased value. The standard curves stay within [0, 1]; overshooting curves
// (back, elastic) may leave it, which interpolation callers tolerate.
//
// Curves must be stateless: the engine calls them once per particle per frame
// in no guaranteed order.
type Curve func(progress float64) float64

// FromEase adapts a gween easing function to a Curve by evaluating it over a
// unit time/value span.
func FromEase(fn ease.TweenFunc) Curve {
	return func(progress float64) float64 {
		return float64(fn(float32(progress), 0, 1, 1))
	}
}

// Standard curves. All wrap the corresponding gween easing function.
var (
	Linear = FromEase(ease.Linear)

	EaseInQuad    = FromEase(ease.InQuad)
	EaseOutQuad   = FromEase(ease.OutQuad)
	EaseInOutQuad = FromEase(ease.InOutQuad)

	EaseInCubic    = FromEase(ease.InCubic)
	EaseOutCubic   = FromEase(ease.OutCubic)
	EaseInOutCubic = FromEase(ease.InOutCubic)

	EaseInSine    = FromEase(ease.InSine)
	EaseOutSine   = FromEase(ease.OutSine)
	EaseInOutSine = FromEase(ease.InOutSine)

	EaseInExpo    = FromEase(ease.InExpo)
	EaseOutExpo   = FromEase(ease.OutExpo)
	EaseInOutExpo = FromEase(ease.InOutExpo)

	EaseOutBack    = FromEase(ease.OutBack)
	EaseInOutBack  = FromEase(ease.InOutBack)
	EaseOutElastic = FromEase(ease.OutElastic)
)

// curvesByName maps preset names to standard curves for YAML effect presets.
var curvesByName = map[string]Curve{
	"linear":            Linear,
	"ease-in-quad":      EaseInQuad,
	"ease-out-quad":     EaseOutQuad,
	"ease-in-out-quad":  EaseInOutQuad,
	"ease-in-cubic":     EaseInCubic,
	"ease-out-cubic":    EaseOutCubic,
	"ease-in-out-cubic": EaseInOutCubic,
	"ease-in-sine":      EaseInSine,
	"ease-out-sine":     EaseOutSine,
	"ease-in-out-sine":  EaseInOutSine,
	"ease-in-expo":      EaseInExpo,
	"ease-out-expo":     EaseOutExpo,
	"ease-in-out-expo":  EaseInOutExpo,
	"ease-out-back":     EaseOutBack,
	"ease-in-out-back":  EaseInOutBack,
	"ease-out-elastic":  EaseOutElastic,
}

// orLinear returns the curve, or Linear when nil. Configuration structs leave
// curve fields nil to mean "no easing".
func orLinear(c Curve) Curve {
	if c == nil {
		return Linear
	}
	return c
}
