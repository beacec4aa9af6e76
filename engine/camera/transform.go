package camera

import "github.com/1siamBot/boardcam/engine/geom"

// Transform returns the world to device-pixel transform for the current
// state. devicePixelRatio scales viewport pixels to backing-store pixels;
// flipY moves the origin to the bottom-left for y-up back-ends.
func (r *Rig) Transform(devicePixelRatio float64, flipY bool) geom.Matrix {
	return Transform(r.state, devicePixelRatio, flipY)
}

// Transform projects a state to a world to device-pixel transform
func Transform(s State, devicePixelRatio float64, flipY bool) geom.Matrix {
	dpr := devicePixelRatio
	if !geom.IsFinite(dpr) || dpr <= 0 {
		dpr = 1
	}
	m := TRS(s).Matrix().Then(geom.Scale(dpr, dpr))
	if flipY {
		m = m.Then(geom.Scale(1, -1)).Then(geom.Translate(geom.Pt(0, s.Viewport.Y*dpr)))
	}
	return m
}

// TRS returns the components of Transform(1, false)
func (r *Rig) TRS() geom.TRS {
	return TRS(r.state)
}

// TRS splits the world to viewport transform of s into its components
func TRS(s State) geom.TRS {
	return geom.TRS{
		Translate: s.Center().Sub(s.Position.Rotate(-s.Rotation).Scale(s.Zoom)),
		Rotate:    -s.Rotation,
		Scale:     s.Zoom,
	}
}

// ViewportToWorld maps a viewport pixel to the world point under it
func (r *Rig) ViewportToWorld(v geom.Point) geom.Point {
	return r.state.ViewportToWorld(v)
}

// WorldToViewport maps a world point to its viewport pixel
func (r *Rig) WorldToViewport(w geom.Point) geom.Point {
	return r.state.WorldToViewport(w)
}

// VisibleBounds returns the world-space bounding box of the viewport
func (r *Rig) VisibleBounds() geom.Rect {
	return r.state.VisibleBounds()
}
