package optics

import (
	"fmt"
	"math"
)

// Power is a lens power counted in quarter dioptres, so -2.50 D is -10.
// Keeping it integral makes endpoint checks exact.
type Power int

// Quarter is one 0.25 D step.
const Quarter Power = 1

func Dioptres(d float64) Power {
	return Power(math.Round(d * 4))
}

func (p Power) Dioptres() float64 {
	return float64(p) / 4.0
}

// String formats the power with two decimals and an explicit sign for
// non-zero values, as written on a prescription.
func (p Power) String() string {
	if p == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%+.2f", p.Dioptres())
}

// Prescription formats sphere, cylinder and axis in minus-cylinder form,
// e.g. "0.00 DS / -2.50 DC x 5°".
func Prescription(sphere, cylinder Power, axis Axis) string {
	return fmt.Sprintf("%s DS / %s DC x %s", sphere, cylinder, axis)
}
