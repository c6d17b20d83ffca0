package render

import (
	"math"

	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

// View maps floor-plane coordinates to screen pixels. World Z grows down the
// screen.
type View struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// FitRooms returns a view that fits every Room in the world into a
// width x height area with margin pixels on each side.
func FitRooms(w *ecs.World, width, height, margin float64) View {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	ecs.ForEach(w, component.RoomComponent.Kind(), func(_ ecs.Entity, r *component.Room) {
		minX = math.Min(minX, r.Bounds.X)
		minZ = math.Min(minZ, r.Bounds.Z)
		maxX = math.Max(maxX, r.Bounds.X+r.Bounds.Width)
		maxZ = math.Max(maxZ, r.Bounds.Z+r.Bounds.Depth)
	})
	if math.IsInf(minX, 1) {
		return View{Scale: 1}
	}

	spanX, spanZ := maxX-minX, maxZ-minZ
	if spanX <= 0 || spanZ <= 0 {
		return View{Scale: 1}
	}
	scale := math.Min((width-2*margin)/spanX, (height-2*margin)/spanZ)
	return View{
		Scale:   scale,
		OffsetX: margin + ((width-2*margin)-spanX*scale)/2 - minX*scale,
		OffsetY: margin + ((height-2*margin)-spanZ*scale)/2 - minZ*scale,
	}
}

func (v View) ToScreen(x, z float64) (float32, float32) {
	return float32(x*v.Scale + v.OffsetX), float32(z*v.Scale + v.OffsetY)
}

func (v View) Length(d float64) float32 {
	return float32(d * v.Scale)
}
