package tutor

import "JCCTrainer/optics"

// Presenter is the rendering side of the trainer. The session pushes text
// and control states into it; it never calls back into the session.
type Presenter interface {
	RenderLensAxis(text string)
	RenderJCCAxis(text string)
	RenderCylinderPower(text string)
	RenderInstruction(text string)
	RenderPatientFeedback(text string)
	RenderFinalPrescription(text string)
	SetControlEnabled(c Control, enabled bool)
	// ShowNotification opens a blocking prompt. The acknowledgement comes
	// back as an ordinary Acknowledge call on the session.
	ShowNotification(message string)
	RenderThumbAngle(s Slider, angle360 int)
}

// View is a snapshot of everything the presenter shows for the committed
// state. It is a pure function of the session.
type View struct {
	SessionID    string           `json:"sessionId"`
	Step         int              `json:"step"`
	Done         bool             `json:"done"`
	LensAxis     string           `json:"lensAxis"`
	JCCAxis      string           `json:"jccAxis"`
	RedLine      string           `json:"redLine"`
	GreenLine    string           `json:"greenLine"`
	Position     string           `json:"position"`
	Cylinder     string           `json:"cylinder"`
	Instruction  string           `json:"instruction"`
	Feedback     string           `json:"feedback"`
	Notification string           `json:"notification,omitempty"`
	Final        string           `json:"final,omitempty"`
	Controls     map[Control]bool `json:"controls"`
	LensThumb    int              `json:"lensThumb"`
	JCCThumb     int              `json:"jccThumb"`
}

func (s *Session) View() View {
	step := StepAt(s.step)
	m := s.state.JCC.Meridians()
	v := View{
		SessionID:   s.ID,
		Step:        s.step,
		Done:        s.Done(),
		LensAxis:    s.state.Lens.Axis.String(),
		JCCAxis:     s.state.JCC.Handle.String(),
		RedLine:     m.Red.String(),
		GreenLine:   m.Green.String(),
		Position:    s.state.JCC.Position(),
		Cylinder:    s.state.Lens.Cylinder.String(),
		Instruction: step.Instruction(s.state),
		Feedback:    step.Feedback,
		Controls:    make(map[Control]bool, len(Controls)),
		LensThumb:   s.thumbs[SliderLens],
		JCCThumb:    s.thumbs[SliderJCC],
	}
	if s.awaitingAck {
		v.Notification = step.Feedback
	}
	if s.step >= LastStep {
		v.Final = s.state.Prescription()
	}
	for _, c := range Controls {
		v.Controls[c] = s.gate.Enabled(c)
	}
	return v
}

// Render pushes a view into p.
func Render(p Presenter, v View) {
	if p == nil {
		return
	}
	p.RenderLensAxis(v.LensAxis)
	p.RenderJCCAxis(v.JCCAxis)
	p.RenderCylinderPower(v.Cylinder)
	p.RenderInstruction(v.Instruction)
	p.RenderPatientFeedback(v.Feedback)
	p.RenderFinalPrescription(v.Final)
	p.RenderThumbAngle(SliderLens, v.LensThumb)
	p.RenderThumbAngle(SliderJCC, v.JCCThumb)
	for _, c := range Controls {
		p.SetControlEnabled(c, v.Controls[c])
	}
	if v.Notification != "" {
		p.ShowNotification(v.Notification)
	}
}

// renderPreview shows a drag in progress without touching committed state.
func renderPreview(p Presenter, s Slider, raw float64) {
	if p == nil {
		return
	}
	p.RenderThumbAngle(s, optics.ThumbAngle(raw))
	text := optics.ToAxis(raw).String()
	if s == SliderLens {
		p.RenderLensAxis(text)
	} else {
		p.RenderJCCAxis(text)
	}
}
