package optics

import (
	"fmt"
	"math"
)

// SnapStep is the granularity, in degrees, of every committed axis.
const SnapStep = 5

// Axis is a cylinder meridian in the clinical convention: whole degrees in
// [1,180]. A meridian at θ is the same as θ+180, and 0 is written 180.
type Axis int

func (a Axis) String() string {
	return fmt.Sprintf("%d°", int(a))
}

// RoundToStep rounds angle to the nearest multiple of step. A non-positive
// step falls back to SnapStep.
func RoundToStep(angle float64, step int) int {
	if step <= 0 {
		step = SnapStep
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	return int(math.Round(angle/float64(step))) * step
}

// ToAxis snaps angle to SnapStep and folds it into the clinical range.
// Negative angles are handled, and a fold landing on 0 reports 180.
func ToAxis(angle float64) Axis {
	deg := RoundToStep(angle, SnapStep)
	deg = ((deg % 360) + 360) % 360
	deg %= 180
	if deg == 0 {
		return 180
	}
	return Axis(deg)
}

// DragAngle returns the angle of the pointer around the centre in [0,360).
// Screen y grows downward while the clinical axis grows counter-clockwise,
// so the vertical delta is negated. A pointer sitting on the centre gives 0.
func DragAngle(pointerX, pointerY, centerX, centerY float64) float64 {
	dx := pointerX - centerX
	dy := -(pointerY - centerY)
	if dx == 0 && dy == 0 {
		return 0
	}
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return 0
	}
	deg := math.Atan2(dy, dx) * 180.0 / math.Pi
	if deg < 0 {
		deg += 360.0
	}
	if deg >= 360.0 {
		deg -= 360.0
	}
	return deg
}

// ThumbPosition is the inverse of DragAngle: the screen offset from the
// centre of a thumb drawn at angle360 on a circle of the given radius.
// x grows toward 0°, y grows downward.
func ThumbPosition(angle360, radius float64) (x, y float64) {
	rad := angle360 * math.Pi / 180.0
	return radius * math.Cos(rad), -radius * math.Sin(rad)
}

// ThumbAngle snaps a raw drag angle to SnapStep for thumb rendering,
// keeping the full [0,360) circle so the thumb stays under the pointer.
func ThumbAngle(raw float64) int {
	deg := RoundToStep(raw, SnapStep)
	return ((deg % 360) + 360) % 360
}
