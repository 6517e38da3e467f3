package main

import (
	"context"

	"JCCTrainer/tutor"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend.
const (
	evLensAxis     = "jcc:lens-axis"
	evJCCAxis      = "jcc:jcc-axis"
	evCylinder     = "jcc:cylinder"
	evInstruction  = "jcc:instruction"
	evFeedback     = "jcc:feedback"
	evFinal        = "jcc:final"
	evControl      = "jcc:control"
	evNotification = "jcc:notification"
	evThumb        = "jcc:thumb"
)

type emitFunc func(ctx context.Context, name string, data ...interface{})

// eventPresenter forwards every render call to the webview as a Wails event.
type eventPresenter struct {
	ctx  context.Context
	emit emitFunc
}

func newEventPresenter(ctx context.Context) *eventPresenter {
	return &eventPresenter{ctx: ctx, emit: runtime.EventsEmit}
}

func (p *eventPresenter) RenderLensAxis(text string)          { p.emit(p.ctx, evLensAxis, text) }
func (p *eventPresenter) RenderJCCAxis(text string)           { p.emit(p.ctx, evJCCAxis, text) }
func (p *eventPresenter) RenderCylinderPower(text string)     { p.emit(p.ctx, evCylinder, text) }
func (p *eventPresenter) RenderInstruction(text string)       { p.emit(p.ctx, evInstruction, text) }
func (p *eventPresenter) RenderPatientFeedback(text string)   { p.emit(p.ctx, evFeedback, text) }
func (p *eventPresenter) RenderFinalPrescription(text string) { p.emit(p.ctx, evFinal, text) }
func (p *eventPresenter) ShowNotification(message string)     { p.emit(p.ctx, evNotification, message) }

func (p *eventPresenter) SetControlEnabled(c tutor.Control, enabled bool) {
	p.emit(p.ctx, evControl, string(c), enabled)
}

func (p *eventPresenter) RenderThumbAngle(s tutor.Slider, angle360 int) {
	p.emit(p.ctx, evThumb, string(s), angle360)
}
