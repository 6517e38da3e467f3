package tutor

import "JCCTrainer/optics"

// The fixed scenario every session starts from.
var (
	InitialSphere   = optics.Dioptres(0)
	InitialCylinder = optics.Dioptres(-2.00)
)

const (
	InitialLensAxis  optics.Axis = 180
	InitialJCCHandle optics.Axis = 90
)

// LensState is the trial lens in the frame.
type LensState struct {
	Sphere   optics.Power `json:"sphere"`
	Cylinder optics.Power `json:"cylinder"`
	Axis     optics.Axis  `json:"axis"`
}

// JCCState is the cross-cylinder paddle held in front of the trial lens.
type JCCState struct {
	Handle  optics.Axis `json:"handle"`
	Flipped bool        `json:"flipped"`
}

func (j JCCState) Meridians() optics.Meridians {
	return optics.JCCMeridians(j.Handle, j.Flipped)
}

// Position is the clinical name of the current flip state.
func (j JCCState) Position() string {
	if j.Flipped {
		return "Position 2"
	}
	return "Position 1"
}

// State is everything a learner action can change.
type State struct {
	Lens LensState `json:"lens"`
	JCC  JCCState  `json:"jcc"`
}

func InitialState() State {
	return State{
		Lens: LensState{
			Sphere:   InitialSphere,
			Cylinder: InitialCylinder,
			Axis:     InitialLensAxis,
		},
		JCC: JCCState{
			Handle: InitialJCCHandle,
		},
	}
}

func (s State) Prescription() string {
	return optics.Prescription(s.Lens.Sphere, s.Lens.Cylinder, s.Lens.Axis)
}
