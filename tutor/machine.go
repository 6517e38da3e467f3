package tutor

import (
	"log"

	"JCCTrainer/optics"
	"github.com/google/uuid"
)

// Session is one run through the JCC script. It is not safe for concurrent
// use; callers serialise access.
type Session struct {
	ID string

	state       State
	step        int
	gate        *ControlGate
	awaitingAck bool
	thumbs      map[Slider]int

	view Presenter
	log  *log.Logger
}

// NewSession starts at step 0 with the initial prescription and renders it.
// p may be nil; logger nil means log.Default().
func NewSession(p Presenter, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	st := InitialState()
	s := &Session{
		ID:    uuid.NewString(),
		state: st,
		gate:  NewControlGate(),
		thumbs: map[Slider]int{
			SliderLens: int(st.Lens.Axis),
			SliderJCC:  int(st.JCC.Handle),
		},
		view: p,
		log:  logger,
	}
	s.log.Printf("TUTOR: session %s started at %s", s.ID, st.Prescription())
	s.enter(0)
	return s
}

func (s *Session) Step() int    { return s.step }
func (s *Session) State() State { return s.state }

// Done reports whether the final prescription has been reached.
func (s *Session) Done() bool { return s.step >= LastStep }

// AwaitingAcknowledgement is true while a patient-feedback prompt is open.
func (s *Session) AwaitingAcknowledgement() bool { return s.awaitingAck }

func (s *Session) Enabled(c Control) bool { return s.gate.Enabled(c) }

// Advance moves to the next step without checking any control or
// predicate. Past the last step it is a no-op.
func (s *Session) Advance() {
	if s.step > LastStep {
		return
	}
	s.enter(s.step + 1)
}

func (s *Session) enter(n int) {
	s.gate.DisableAll()
	s.awaitingAck = false
	prev := s.step
	s.step = n

	step := StepAt(n)
	if step.Enter != nil {
		step.Enter(&s.state)
	}
	if err := s.gate.Enable(step.Controls...); err != nil {
		s.log.Printf("TUTOR: step %d has a bad control list: %v", n, err)
	}
	if step.Notify {
		s.awaitingAck = true
	}
	if n != prev {
		s.log.Printf("TUTOR: session %s step %d -> %d", s.ID, prev, n)
	}
	s.Render()
}

// Render pushes the committed state to the presenter. Repeated calls
// without input produce the same output.
func (s *Session) Render() {
	Render(s.view, s.View())
}

// allow is the disabled-control guard shared by every input.
func (s *Session) allow(c Control) bool {
	if s.gate.Enabled(c) {
		return true
	}
	s.log.Printf("TUTOR: ignored %s at step %d, control disabled", c, s.step)
	return false
}

// commit evaluates the current step's advance rule after a committed input.
func (s *Session) commit(c Control) bool {
	if !StepAt(s.step).Advance.Accepts(c, s.state) {
		s.Render()
		return false
	}
	s.Advance()
	return true
}

func (s *Session) Start() bool {
	if !s.allow(ControlStart) {
		return false
	}
	return s.commit(ControlStart)
}

// Preview shows an in-progress drag. Committed state and the step are
// never touched.
func (s *Session) Preview(sl Slider, raw float64) {
	if !s.gate.Enabled(sl.Control()) {
		return
	}
	renderPreview(s.view, sl, raw)
}

// SubmitAngle commits a released drag: the raw angle is snapped and folded
// into the clinical axis, stored, and checked against the step's rule.
func (s *Session) SubmitAngle(sl Slider, raw float64) bool {
	c := sl.Control()
	if !s.allow(c) {
		return false
	}
	axis := optics.ToAxis(raw)
	switch sl {
	case SliderLens:
		s.state.Lens.Axis = axis
	case SliderJCC:
		s.state.JCC.Handle = axis
	}
	s.thumbs[sl] = optics.ThumbAngle(raw)
	s.log.Printf("TUTOR: %s released at %.1f°, committed %s", sl, raw, axis)
	return s.commit(c)
}

// ToggleFlip flips the paddle between Position 1 and 2.
func (s *Session) ToggleFlip() bool {
	if !s.allow(ControlFlip) {
		return false
	}
	s.state.JCC.Flipped = !s.state.JCC.Flipped
	return s.commit(ControlFlip)
}

// IncreasePower adds -0.25 DC.
func (s *Session) IncreasePower() bool {
	if !s.allow(ControlIncreasePower) {
		return false
	}
	s.state.Lens.Cylinder -= optics.Quarter
	return s.commit(ControlIncreasePower)
}

// DecreasePower removes -0.25 DC, never going above plano.
func (s *Session) DecreasePower() bool {
	if !s.allow(ControlDecreasePower) {
		return false
	}
	if s.state.Lens.Cylinder < 0 {
		s.state.Lens.Cylinder += optics.Quarter
	}
	return s.commit(ControlDecreasePower)
}

func (s *Session) ConfirmAxis() bool {
	if !s.allow(ControlConfirmAxis) {
		return false
	}
	return s.commit(ControlConfirmAxis)
}

func (s *Session) ConfirmPower() bool {
	if !s.allow(ControlConfirmPower) {
		return false
	}
	return s.commit(ControlConfirmPower)
}

// Acknowledge closes the patient-feedback prompt and moves on.
func (s *Session) Acknowledge() bool {
	if !s.awaitingAck || !s.allow(ControlAcknowledge) {
		return false
	}
	return s.commit(ControlAcknowledge)
}

// Hint is the action the script expects at the current step.
func (s *Session) Hint() (Action, bool) {
	step := StepAt(s.step)
	if step.Expect == nil {
		return Action{}, false
	}
	return step.Expect(s.state), true
}

// Apply dispatches a committed action to the matching operation.
func (s *Session) Apply(a Action) bool {
	switch a.Control {
	case ControlStart:
		return s.Start()
	case ControlJCCRotation:
		return s.SubmitAngle(SliderJCC, float64(a.Angle))
	case ControlLensRotation:
		return s.SubmitAngle(SliderLens, float64(a.Angle))
	case ControlFlip:
		return s.ToggleFlip()
	case ControlIncreasePower:
		return s.IncreasePower()
	case ControlDecreasePower:
		return s.DecreasePower()
	case ControlConfirmAxis:
		return s.ConfirmAxis()
	case ControlConfirmPower:
		return s.ConfirmPower()
	case ControlAcknowledge:
		return s.Acknowledge()
	}
	s.log.Printf("TUTOR: ignored unknown action %q", a.Control)
	return false
}
