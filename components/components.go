package components

// Position is the entity's computed location on the metric axes.
type Position struct {
	X, Y, Z float32
}

// Vec returns the position as a Vec3.
func (p Position) Vec() Vec3 {
	return Vec3{p.X, p.Y, p.Z}
}

// Metrics holds the four scoring values that drive placement and size.
// Profit, Risk and Confidence map to the X/Y/Z axes; Volume maps to scale.
type Metrics struct {
	Profit     float32
	Risk       float32
	Confidence float32
	Volume     float32
}

// Display holds the render-facing attributes derived at ingestion.
// RenderScale is Scale, or 0 while the entity is hidden by a visibility
// filter; the instance buffer layout never changes.
type Display struct {
	Scale       float32
	RenderScale float32
	Category    uint8
	Live        bool
}
