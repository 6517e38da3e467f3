package tutor

import (
	"fmt"
	"io"
	"log"
)

// recorder is a Presenter that keeps every call in order.
type recorder struct {
	calls []string
	last  map[string]string
	notes []string
}

func newRecorder() *recorder {
	return &recorder{last: make(map[string]string)}
}

func (r *recorder) record(kind, text string) {
	r.calls = append(r.calls, kind+"="+text)
	r.last[kind] = text
}

func (r *recorder) RenderLensAxis(text string)          { r.record("lens", text) }
func (r *recorder) RenderJCCAxis(text string)           { r.record("jcc", text) }
func (r *recorder) RenderCylinderPower(text string)     { r.record("cyl", text) }
func (r *recorder) RenderInstruction(text string)       { r.record("instruction", text) }
func (r *recorder) RenderPatientFeedback(text string)   { r.record("feedback", text) }
func (r *recorder) RenderFinalPrescription(text string) { r.record("final", text) }
func (r *recorder) SetControlEnabled(c Control, enabled bool) {
	r.record("control:"+string(c), fmt.Sprint(enabled))
}
func (r *recorder) ShowNotification(message string) {
	r.notes = append(r.notes, message)
	r.record("notify", message)
}
func (r *recorder) RenderThumbAngle(s Slider, angle360 int) {
	r.record("thumb:"+string(s), fmt.Sprint(angle360))
}

func (r *recorder) reset() {
	r.calls = nil
	r.notes = nil
	r.last = make(map[string]string)
}

var quiet = log.New(io.Discard, "", 0)
