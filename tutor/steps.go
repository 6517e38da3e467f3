package tutor

import (
	"fmt"

	"JCCTrainer/optics"
)

// Scripted targets of the scenario.
const (
	StraddleHandle optics.Axis = 180
	RefinedAxis    optics.Axis = 5
)

// EndpointCylinder is reached by two -0.25 steps from the starting cylinder.
var EndpointCylinder = optics.Dioptres(-2.50)

// LastStep is the final prescription step. Anything past it is complete.
const LastStep = 39

// Action is one committed learner input. Angle is only used by the two
// rotation controls.
type Action struct {
	Control Control     `json:"control"`
	Angle   optics.Axis `json:"angle,omitempty"`
}

func (a Action) String() string {
	if a.Control == ControlLensRotation || a.Control == ControlJCCRotation {
		return fmt.Sprintf("%s to %s", a.Control, a.Angle)
	}
	return string(a.Control)
}

// Rule is the advance predicate of a step: the step moves on when an action
// on control On commits and When (nil means always) holds on the new state.
type Rule struct {
	On   Control
	When func(State) bool
}

func (r Rule) Accepts(c Control, st State) bool {
	if r.On == "" || r.On != c {
		return false
	}
	return r.When == nil || r.When(st)
}

// Step describes one entry of the tutor script.
type Step struct {
	Instruction func(State) string
	Feedback    string
	// Notify steps show Feedback in a blocking prompt and only accept an
	// acknowledgement.
	Notify   bool
	Controls []Control
	Enter    func(*State)
	Advance  Rule
	Expect   func(State) Action
}

// Complete is returned for any step past the end of the script.
var Complete = Step{
	Instruction: func(State) string { return "Simulation complete." },
}

// Steps is the fixed JCC refraction script.
var Steps = buildSteps()

// StepAt returns the descriptor for n, falling back to Complete.
func StepAt(n int) Step {
	if n < 0 || n >= len(Steps) {
		return Complete
	}
	return Steps[n]
}

func press(c Control) func(State) Action {
	return func(State) Action { return Action{Control: c} }
}

func rotate(c Control, target func(State) optics.Axis) func(State) Action {
	return func(st State) Action { return Action{Control: c, Angle: target(st)} }
}

func text(format string, args ...func(State) any) func(State) string {
	return func(st State) string {
		vals := make([]any, len(args))
		for i, f := range args {
			vals[i] = f(st)
		}
		return fmt.Sprintf(format, vals...)
	}
}

func lensAxis(st State) any  { return st.Lens.Axis }
func redLine(st State) any   { return st.JCC.Meridians().Red }
func greenLine(st State) any { return st.JCC.Meridians().Green }
func position(st State) any  { return st.JCC.Position() }
func cylinder(st State) any  { return st.Lens.Cylinder }
func rx(st State) any        { return st.Prescription() }

func positionOne(st *State) { st.JCC.Flipped = false }

// powerHandle puts the red line of Position 1 on the cylinder axis.
func powerHandle(st State) optics.Axis {
	return optics.ToAxis(float64(int(st.Lens.Axis) + optics.JCCOffset))
}

func flipStep(instruction func(State) string, enter func(*State)) Step {
	return Step{
		Instruction: instruction,
		Controls:    []Control{ControlFlip},
		Enter:       enter,
		Advance:     Rule{On: ControlFlip},
		Expect:      press(ControlFlip),
	}
}

func notifyStep(feedback string) Step {
	return Step{
		Instruction: text("Listen to the patient, then acknowledge."),
		Feedback:    feedback,
		Notify:      true,
		Controls:    []Control{ControlAcknowledge},
		Advance:     Rule{On: ControlAcknowledge},
		Expect:      press(ControlAcknowledge),
	}
}

func buildSteps() []Step {
	return []Step{
		// 0
		{
			Instruction: text("Welcome to the Jackson Cross-Cylinder trainer. The trial frame holds %s. "+
				"Press Start to refine the cylinder axis.", rx),
			Controls: []Control{ControlStart},
			Advance:  Rule{On: ControlStart},
			Expect:   press(ControlStart),
		},
		// 1: straddle the axis
		{
			Instruction: text("Axis check: straddle the cylinder axis. Rotate the JCC handle until it lies "+
				"along the trial lens axis at %s.", lensAxis),
			Controls: []Control{ControlJCCRotation},
			Advance: Rule{On: ControlJCCRotation, When: func(st State) bool {
				return st.JCC.Handle == StraddleHandle
			}},
			Expect: rotate(ControlJCCRotation, func(State) optics.Axis { return StraddleHandle }),
		},
		// 2-7: compare both positions
		flipStep(text("%s is shown: red line at %s, green line at %s. Ask the patient to note how clear "+
			"the letters are, then flip the paddle.", position, redLine, greenLine), positionOne),
		notifyStep(`Patient: "Number two is clearer than number one."`),
		flipStep(text("%s is on the eye with its red line at %s. Flip back to check the patient's answer.",
			position, redLine), nil),
		notifyStep(`Patient: "No, that one is worse. Two was better."`),
		flipStep(text("Flip to Position 2 once more so the patient can confirm."), nil),
		notifyStep(`Patient: "Yes, two is definitely clearer."`),
		// 8: follow the red
		{
			Instruction: text("Follow the red: in the preferred %s the red line sits at %s. Rotate the trial "+
				"lens axis from %s toward it by 5°, to %s.", position, redLine, lensAxis,
				func(State) any { return RefinedAxis }),
			Controls: []Control{ControlLensRotation},
			Advance: Rule{On: ControlLensRotation, When: func(st State) bool {
				return st.Lens.Axis == RefinedAxis
			}},
			Expect: rotate(ControlLensRotation, func(State) optics.Axis { return RefinedAxis }),
		},
		// 9: straddle the new axis
		{
			Instruction: text("The trial lens axis is now %s. Rotate the JCC handle back onto the new axis "+
				"at %s.", lensAxis, func(State) any { return RefinedAxis }),
			Controls: []Control{ControlJCCRotation},
			Advance: Rule{On: ControlJCCRotation, When: func(st State) bool {
				return st.JCC.Handle == RefinedAxis
			}},
			Expect: rotate(ControlJCCRotation, func(State) optics.Axis { return RefinedAxis }),
		},
		// 10-15: re-check the axis
		flipStep(text("%s: red line at %s, green line at %s. Flip the paddle and ask again.",
			position, redLine, greenLine), positionOne),
		notifyStep(`Patient: "They look about the same."`),
		flipStep(text("Flip back to Position 1 to check again."), nil),
		notifyStep(`Patient: "Still the same to me."`),
		flipStep(text("Flip one more time."), nil),
		notifyStep(`Patient: "Both are equally blurry."`),
		// 16
		{
			Instruction: text("Both positions look equal, so the cylinder axis is at %s. Press Confirm Axis.",
				lensAxis),
			Controls: []Control{ControlConfirmAxis},
			Advance: Rule{On: ControlConfirmAxis, When: func(st State) bool {
				return st.Lens.Axis == RefinedAxis
			}},
			Expect: press(ControlConfirmAxis),
		},
		// 17: power check
		{
			Instruction: text("Power check: rotate the JCC handle to %s so the red line of Position 1 lies "+
				"along the cylinder axis at %s.", func(st State) any { return powerHandle(st) }, lensAxis),
			Controls: []Control{ControlJCCRotation},
			Enter:    positionOne,
			Advance: Rule{On: ControlJCCRotation, When: func(st State) bool {
				return st.JCC.Handle == powerHandle(st)
			}},
			Expect: rotate(ControlJCCRotation, powerHandle),
		},
		// 18-23: red or green on the axis
		flipStep(text("%s puts the red (minus) line on the axis at %s. Flip to put the green line there.",
			position, redLine), positionOne),
		notifyStep(`Patient: "One was clearer."`),
		flipStep(text("Flip back to Position 1."), nil),
		notifyStep(`Patient: "Yes, this one is better."`),
		flipStep(text("Flip to Position 2 once more."), nil),
		notifyStep(`Patient: "One is still clearer."`),
		// 24
		{
			Instruction: text("Red on the axis is preferred, so the eye wants more minus cylinder. "+
				"Add -0.25 DC to the current %s DC.", cylinder),
			Controls: []Control{ControlIncreasePower},
			Advance:  Rule{On: ControlIncreasePower},
			Expect:   press(ControlIncreasePower),
		},
		// 25-30
		flipStep(text("The cylinder is now %s DC. Show %s again, then flip.", cylinder, position), positionOne),
		notifyStep(`Patient: "One is a little better."`),
		flipStep(text("Flip back to Position 1."), nil),
		notifyStep(`Patient: "Yes, one."`),
		flipStep(text("Flip to Position 2."), nil),
		notifyStep(`Patient: "One is still slightly clearer."`),
		// 31
		{
			Instruction: text("Red on the axis is still preferred. Add another -0.25 DC to the current %s DC.",
				cylinder),
			Controls: []Control{ControlIncreasePower},
			Advance:  Rule{On: ControlIncreasePower},
			Expect:   press(ControlIncreasePower),
		},
		// 32-37: find the endpoint
		flipStep(text("The cylinder is now %s DC. Compare the two positions again, starting from %s.",
			cylinder, position), positionOne),
		notifyStep(`Patient: "They look the same now."`),
		flipStep(text("Flip back to Position 1."), nil),
		notifyStep(`Patient: "No difference."`),
		flipStep(text("Flip to Position 2."), nil),
		notifyStep(`Patient: "Both are equally clear."`),
		// 38
		{
			Instruction: text("Both positions are equal: the power endpoint is %s DC. Press Confirm Power.",
				cylinder),
			Controls: []Control{ControlConfirmPower},
			Advance: Rule{On: ControlConfirmPower, When: func(st State) bool {
				return st.Lens.Cylinder == EndpointCylinder
			}},
			Expect: press(ControlConfirmPower),
		},
		// 39
		{
			Instruction: text("Refraction complete. Final prescription: %s.", rx),
		},
	}
}
