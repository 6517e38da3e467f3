package tutor

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Control names an input widget the tutor can enable or disable.
type Control string

const (
	ControlFlip          Control = "flip"
	ControlJCCRotation   Control = "jcc-rotation"
	ControlLensRotation  Control = "lens-rotation"
	ControlIncreasePower Control = "increase-power"
	ControlDecreasePower Control = "decrease-power"
	ControlConfirmAxis   Control = "confirm-axis"
	ControlConfirmPower  Control = "confirm-power"
	ControlStart         Control = "start"
	ControlAcknowledge   Control = "acknowledge"
)

// Controls lists every recognised control in presentation order.
var Controls = []Control{
	ControlFlip,
	ControlJCCRotation,
	ControlLensRotation,
	ControlIncreasePower,
	ControlDecreasePower,
	ControlConfirmAxis,
	ControlConfirmPower,
	ControlStart,
	ControlAcknowledge,
}

var ErrUnknownControl = errors.New("unknown control")

func ParseControl(name string) (Control, error) {
	c := Control(name)
	if !lo.Contains(Controls, c) {
		return "", fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
	return c, nil
}

// Slider is one of the two rotary drag controls.
type Slider string

const (
	SliderLens Slider = "lens"
	SliderJCC  Slider = "jcc"
)

func ParseSlider(name string) (Slider, error) {
	switch Slider(name) {
	case SliderLens, SliderJCC:
		return Slider(name), nil
	}
	return "", fmt.Errorf("unknown slider %q", name)
}

// Control returns the control gating drags on this slider.
func (s Slider) Control() Control {
	if s == SliderLens {
		return ControlLensRotation
	}
	return ControlJCCRotation
}

// ControlGate holds the set of enabled controls. Everything starts disabled.
type ControlGate struct {
	enabled map[Control]bool
}

func NewControlGate() *ControlGate {
	return &ControlGate{enabled: make(map[Control]bool, len(Controls))}
}

func (g *ControlGate) DisableAll() {
	g.enabled = make(map[Control]bool, len(Controls))
}

// Enable makes exactly the given controls available. Unknown names are
// rejected and leave the gate untouched.
func (g *ControlGate) Enable(names ...Control) error {
	if unknown := lo.Without(names, Controls...); len(unknown) > 0 {
		return fmt.Errorf("%w: %v", ErrUnknownControl, unknown)
	}
	g.DisableAll()
	for _, n := range lo.Uniq(names) {
		g.enabled[n] = true
	}
	return nil
}

func (g *ControlGate) Enabled(c Control) bool {
	return g.enabled[c]
}

// Active returns the enabled controls in presentation order.
func (g *ControlGate) Active() []Control {
	return lo.Filter(Controls, func(c Control, _ int) bool {
		return g.enabled[c]
	})
}
