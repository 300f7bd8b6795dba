package cinder

import "github.com/hajimehoshi/ebiten/v2"

// DrawCommand carries everything a renderer needs to draw one particle:
// the sprite region, the transform (position, rotation, size), and the tint.
// No internal animation state leaks through.
type DrawCommand struct {
	Region   TextureRegion
	Position Vec2    // sprite center in surface coordinates
	Rotation float64 // radians
	Size     float64 // rendered width in pixels; height preserves aspect
	Color    Color
	Blend    BlendMode
}

// AppendCommands appends one DrawCommand per active particle in the layer,
// in effect order, and returns the extended slice. Call after Tick, typically
// from a LayerAdvanceFunc; pass the previous slice truncated to zero to reuse
// its backing array.
func (s *FrameScheduler) AppendCommands(dst []DrawCommand, layer Layer) []DrawCommand {
	for _, e := range s.layers[layer].active {
		for _, ap := range e.Particles() {
			p := ap.Particle()
			cfg := p.configuration
			dst = append(dst, DrawCommand{
				Region:   cfg.Region,
				Position: p.Position,
				Rotation: p.Rotation,
				Size:     p.Size,
				Color:    p.Color,
				Blend:    cfg.BlendMode,
			})
		}
	}
	return dst
}

// Renderer submits a scheduler layer's particles to an ebiten image. It
// reuses one command buffer and one DrawImageOptions across frames, so Draw
// does not allocate once the buffer has grown to fit.
type Renderer struct {
	atlas *Atlas
	cmds  []DrawCommand
}

// NewRenderer creates a renderer resolving sprite regions against the atlas.
func NewRenderer(atlas *Atlas) *Renderer {
	return &Renderer{atlas: atlas}
}

// Draw renders every active particle in the layer onto target. Particles are
// drawn scaled around their sprite center, rotated, translated, and tinted
// with a premultiplied color scale.
func (r *Renderer) Draw(target *ebiten.Image, s *FrameScheduler, layer Layer) {
	r.cmds = s.AppendCommands(r.cmds[:0], layer)

	var op ebiten.DrawImageOptions
	for i := range r.cmds {
		cmd := &r.cmds[i]
		if cmd.Region.Width == 0 || cmd.Color.A <= 0 {
			continue
		}
		page := r.atlas.Page(cmd.Region)
		if page == nil {
			continue
		}
		sub := page.SubImage(cmd.Region.SourceRect()).(*ebiten.Image)

		w := float64(cmd.Region.OriginalW)
		h := float64(cmd.Region.OriginalH)
		scale := 1.0
		if w > 0 {
			scale = cmd.Size / w
		}

		op.GeoM.Reset()
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Rotate(cmd.Rotation)
		op.GeoM.Translate(cmd.Position.X, cmd.Position.Y)

		a := float32(cmd.Color.A)
		op.ColorScale.Reset()
		op.ColorScale.Scale(float32(cmd.Color.R)*a, float32(cmd.Color.G)*a, float32(cmd.Color.B)*a, a)
		op.Blend = cmd.Blend.EbitenBlend()

		target.DrawImage(sub, &op)
	}
}
