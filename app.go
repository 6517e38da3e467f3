package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"JCCTrainer/dial"
	"JCCTrainer/optics"
	"JCCTrainer/tutor"
)

// Drag coordinates arrive in a local 0-100 frame centred on the dial.
const (
	dragCentreX = 50.0
	dragCentreY = 50.0
)

// Demo mode delays
const (
	DEMO_STEP_DELAY   = 1500 * time.Millisecond
	DEMO_NOTIFY_DELAY = 2500 * time.Millisecond
)

// --- Data Structures ---
type App struct {
	ctx       context.Context
	stateMux  sync.Mutex
	session   *tutor.Session
	presenter tutor.Presenter

	dial *dial.Device

	demoMode    bool
	cancelDemo  context.CancelFunc
	stepDelay   time.Duration
	notifyDelay time.Duration
}

func NewApp() *App {
	return &App{
		stepDelay:   DEMO_STEP_DELAY,
		notifyDelay: DEMO_NOTIFY_DELAY,
	}
}

func (a *App) wailsStartup(ctx context.Context) {
	a.ctx = ctx
	a.startSession(newEventPresenter(ctx))
}

func (a *App) wailsShutdown(ctx context.Context) {
	a.SetDemoMode(false)
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.dial != nil {
		a.dial.Close()
		a.dial = nil
	}
}

func (a *App) startSession(p tutor.Presenter) {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	a.presenter = p
	a.session = tutor.NewSession(p, nil)
}

// withSession runs fn under the state lock. Calls arriving before startup
// are dropped.
func (a *App) withSession(fn func(s *tutor.Session) bool) bool {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.session == nil {
		log.Printf("TUTOR: input before session start ignored")
		return false
	}
	advanced := fn(a.session)
	if advanced && a.dial != nil {
		go a.sendDialStatus(a.dial, a.session.Step())
	}
	return advanced
}

func (a *App) sendDialStatus(d *dial.Device, step int) {
	if err := d.Send(fmt.Sprintf("STEP %d", step)); err != nil {
		log.Printf("DIAL: %v", err)
	}
}

// --- Wails Bindable Functions ---

func (a *App) GetView() (tutor.View, error) {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.session == nil {
		return tutor.View{}, fmt.Errorf("session not started")
	}
	return a.session.View(), nil
}

func (a *App) Start() bool {
	return a.withSession((*tutor.Session).Start)
}

func (a *App) Flip() bool {
	return a.withSession((*tutor.Session).ToggleFlip)
}

func (a *App) IncreasePower() bool {
	return a.withSession((*tutor.Session).IncreasePower)
}

func (a *App) DecreasePower() bool {
	return a.withSession((*tutor.Session).DecreasePower)
}

func (a *App) ConfirmAxis() bool {
	return a.withSession((*tutor.Session).ConfirmAxis)
}

func (a *App) ConfirmPower() bool {
	return a.withSession((*tutor.Session).ConfirmPower)
}

func (a *App) Acknowledge() bool {
	return a.withSession((*tutor.Session).Acknowledge)
}

// Press relays a named button click.
func (a *App) Press(name string) (bool, error) {
	c, err := tutor.ParseControl(name)
	if err != nil {
		return false, err
	}
	if c == tutor.ControlLensRotation || c == tutor.ControlJCCRotation {
		return false, fmt.Errorf("%s is a dial, use ReleaseDrag", c)
	}
	return a.withSession(func(s *tutor.Session) bool {
		return s.Apply(tutor.Action{Control: c})
	}), nil
}

// PreviewDrag follows the pointer during a drag. Nothing is committed.
func (a *App) PreviewDrag(slider string, x, y float64) error {
	sl, err := tutor.ParseSlider(slider)
	if err != nil {
		return err
	}
	raw := optics.DragAngle(x, y, dragCentreX, dragCentreY)
	a.withSession(func(s *tutor.Session) bool {
		s.Preview(sl, raw)
		return false
	})
	return nil
}

// ReleaseDrag commits the last pointer position of a drag.
func (a *App) ReleaseDrag(slider string, x, y float64) (bool, error) {
	sl, err := tutor.ParseSlider(slider)
	if err != nil {
		return false, err
	}
	raw := optics.DragAngle(x, y, dragCentreX, dragCentreY)
	return a.withSession(func(s *tutor.Session) bool {
		return s.SubmitAngle(sl, raw)
	}), nil
}

// Hint describes the action the current step is waiting for.
func (a *App) Hint() string {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.session == nil {
		return ""
	}
	if act, ok := a.session.Hint(); ok {
		return act.String()
	}
	return ""
}

// Restart throws the session away and starts again from the initial
// prescription.
func (a *App) Restart() (tutor.View, error) {
	a.SetDemoMode(false)
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.session == nil {
		return tutor.View{}, fmt.Errorf("session not started")
	}
	log.Printf("TUTOR: restarting session %s", a.session.ID)
	a.session = tutor.NewSession(a.presenter, nil)
	return a.session.View(), nil
}

// --- Demo Mode ---

func (a *App) SetDemoMode(enabled bool) {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if enabled == a.demoMode {
		return
	}
	a.demoMode = enabled
	if !enabled {
		if a.cancelDemo != nil {
			a.cancelDemo()
			a.cancelDemo = nil
		}
		log.Printf("DEMO: stopped")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelDemo = cancel
	log.Printf("DEMO: started")
	go a.runDemo(ctx)
}

// runDemo plays the scripted answer for each step until the session is
// done or the demo is cancelled.
func (a *App) runDemo(ctx context.Context) {
	for {
		a.stateMux.Lock()
		if a.session == nil || a.session.Done() {
			a.stateMux.Unlock()
			a.SetDemoMode(false)
			return
		}
		delay := a.stepDelay
		if a.session.AwaitingAcknowledgement() {
			delay = a.notifyDelay
		}
		a.stateMux.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		a.withSession(func(s *tutor.Session) bool {
			if ctx.Err() != nil {
				return false
			}
			act, ok := s.Hint()
			if !ok {
				return false
			}
			log.Printf("DEMO: step %d, %s", s.Step(), act)
			return s.Apply(act)
		})
	}
}

// --- Dial Functions ---

func (a *App) ListSerialPorts() ([]string, error) {
	return dial.ListPorts()
}

func (a *App) ConnectSerialDial(portName string) (string, error) {
	d, err := dial.OpenSerial(portName)
	if err != nil {
		return "", err
	}
	a.attachDial(d)
	return fmt.Sprintf("Connected to dial on %s", portName), nil
}

func (a *App) ConnectNetworkDial(ipAddress string, port int) (string, error) {
	d, err := dial.OpenNetwork(ipAddress, port)
	if err != nil {
		return "", err
	}
	a.attachDial(d)
	return fmt.Sprintf("Connected to dial at %s", d.Address), nil
}

func (a *App) DisconnectDial() (string, error) {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.dial == nil {
		return "", fmt.Errorf("dial not connected")
	}
	addr := a.dial.Address
	a.dial.Close()
	a.dial = nil
	log.Printf("DIAL: disconnected %s", addr)
	return fmt.Sprintf("Disconnected dial at %s", addr), nil
}

func (a *App) attachDial(d *dial.Device) {
	a.stateMux.Lock()
	defer a.stateMux.Unlock()
	if a.dial != nil {
		a.dial.Close()
	}
	d.Start(a.handleDialCommand)
	a.dial = d
	log.Printf("DIAL: connected over %s to %s", d.ConnectionType, d.Address)
}

func (a *App) handleDialCommand(cmd dial.Command) {
	a.withSession(func(s *tutor.Session) bool {
		switch {
		case cmd.Preview:
			s.Preview(cmd.Slider, cmd.Angle)
			return false
		case cmd.Slider != "":
			return s.SubmitAngle(cmd.Slider, cmd.Angle)
		default:
			return s.Apply(tutor.Action{Control: cmd.Control})
		}
	})
}
