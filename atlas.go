package cinder

import (
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Debug enables stderr warnings for recoverable problems, like an atlas
// region lookup miss.
var Debug bool

// TextureRegion describes a sub-rectangle within an atlas page: the sprite
// drawn for a particle. Value type, stored directly on configurations.
type TextureRegion struct {
	Page      uint16 // atlas page index (references Atlas.Pages)
	X, Y      uint16 // top-left corner of the sub-image rect within the page
	Width     uint16 // width of the sub-image rect
	Height    uint16 // height of the sub-image rect
	OriginalW uint16 // untrimmed sprite width as authored
	OriginalH uint16 // untrimmed sprite height as authored
}

// SourceRect returns the region's pixel rectangle within its page.
func (r TextureRegion) SourceRect() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Width), int(r.Y)+int(r.Height))
}

// Atlas holds one or more sprite sheet images and a map of named regions.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]TextureRegion
}

// Region returns the TextureRegion for the given name. A missing name logs a
// warning when Debug is set and returns a zero region, which renders nothing.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	if Debug {
		log.Printf("cinder: atlas region %q not found", name)
	}
	return TextureRegion{}
}

// Page resolves a region's page image, or nil when out of range.
func (a *Atlas) Page(r TextureRegion) *ebiten.Image {
	if int(r.Page) >= len(a.Pages) {
		return nil
	}
	return a.Pages[r.Page]
}

// atlasFrame mirrors one TexturePacker frame entry.
type atlasFrame struct {
	Frame struct {
		X, Y, W, H int
	} `json:"frame"`
	SourceSize struct {
		W, H int
	} `json:"sourceSize"`
}

// LoadAtlas parses TexturePacker JSON data (hash format: a single "frames"
// object) and associates the given page images.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var doc struct {
		Frames map[string]atlasFrame `json:"frames"`
	}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("cinder: failed to parse atlas JSON: %w", err)
	}
	if doc.Frames == nil {
		return nil, fmt.Errorf("cinder: atlas JSON has no \"frames\" key")
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion, len(doc.Frames)),
	}
	for name, f := range doc.Frames {
		origW, origH := f.SourceSize.W, f.SourceSize.H
		if origW == 0 {
			origW, origH = f.Frame.W, f.Frame.H
		}
		atlas.regions[name] = TextureRegion{
			X:         uint16(f.Frame.X),
			Y:         uint16(f.Frame.Y),
			Width:     uint16(f.Frame.W),
			Height:    uint16(f.Frame.H),
			OriginalW: uint16(origW),
			OriginalH: uint16(origH),
		}
	}
	return atlas, nil
}

// NewSingleRegionAtlas wraps one standalone image as a one-region atlas,
// for effects that don't use a packed sprite sheet. The region is named
// by the given name.
func NewSingleRegionAtlas(name string, img *ebiten.Image) *Atlas {
	b := img.Bounds()
	return &Atlas{
		Pages: []*ebiten.Image{img},
		regions: map[string]TextureRegion{
			name: {
				Width:     uint16(b.Dx()),
				Height:    uint16(b.Dy()),
				OriginalW: uint16(b.Dx()),
				OriginalH: uint16(b.Dy()),
			},
		},
	}
}
