package main

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"JCCTrainer/dial"
	"JCCTrainer/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPresenter keeps the last instruction and counts notifications.
type stubPresenter struct {
	mu            sync.Mutex
	instruction   string
	notifications int
}

func (p *stubPresenter) RenderLensAxis(string)                 {}
func (p *stubPresenter) RenderJCCAxis(string)                  {}
func (p *stubPresenter) RenderCylinderPower(string)            {}
func (p *stubPresenter) RenderPatientFeedback(string)          {}
func (p *stubPresenter) RenderFinalPrescription(string)        {}
func (p *stubPresenter) SetControlEnabled(tutor.Control, bool) {}
func (p *stubPresenter) RenderThumbAngle(tutor.Slider, int)    {}

func (p *stubPresenter) RenderInstruction(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instruction = text
}

func (p *stubPresenter) ShowNotification(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications++
}

func startedApp(t *testing.T) (*App, *stubPresenter) {
	t.Helper()
	a := NewApp()
	p := &stubPresenter{}
	a.startSession(p)
	t.Cleanup(func() { a.wailsShutdown(context.Background()) })
	return a, p
}

func step(t *testing.T, a *App) int {
	t.Helper()
	v, err := a.GetView()
	require.NoError(t, err)
	return v.Step
}

func TestInputBeforeStartupIsIgnored(t *testing.T) {
	a := NewApp()
	assert.False(t, a.Start())
	_, err := a.GetView()
	assert.Error(t, err)
	_, err = a.Restart()
	assert.Error(t, err)
	assert.Empty(t, a.Hint())
}

func TestPressAndDrag(t *testing.T) {
	a, p := startedApp(t)

	ok, err := a.Press("start")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, step(t, a))
	assert.Contains(t, p.instruction, "180°")
	assert.Equal(t, "jcc-rotation to 180°", a.Hint())

	_, err = a.Press("eject")
	assert.ErrorIs(t, err, tutor.ErrUnknownControl)
	_, err = a.Press("jcc-rotation")
	assert.Error(t, err)

	require.NoError(t, a.PreviewDrag("jcc", 0, 50))
	assert.Equal(t, 1, step(t, a), "preview never advances")

	// Straight down on screen is 270°, which folds to 90°.
	ok, err = a.ReleaseDrag("jcc", 50, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	// Straight left is 180°.
	ok, err = a.ReleaseDrag("jcc", 0, 50)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, step(t, a))

	_, err = a.ReleaseDrag("sphere", 0, 0)
	assert.Error(t, err)

	assert.True(t, a.Flip())
	assert.Equal(t, 1, p.notifications)
	assert.True(t, a.Acknowledge())
	assert.Equal(t, 4, step(t, a))
	assert.False(t, a.ConfirmPower())
	assert.False(t, a.IncreasePower())
}

func TestRestart(t *testing.T) {
	a, _ := startedApp(t)
	require.True(t, a.Start())
	before, err := a.GetView()
	require.NoError(t, err)

	v, err := a.Restart()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Step)
	assert.NotEqual(t, before.SessionID, v.SessionID)
}

func TestDemoModePlaysToTheEnd(t *testing.T) {
	a, _ := startedApp(t)
	a.stepDelay = time.Millisecond
	a.notifyDelay = time.Millisecond

	a.SetDemoMode(true)
	require.Eventually(t, func() bool {
		v, err := a.GetView()
		return err == nil && v.Done
	}, 5*time.Second, 5*time.Millisecond)

	v, err := a.GetView()
	require.NoError(t, err)
	assert.Equal(t, "0.00 DS / -2.50 DC x 5°", v.Final)

	require.Eventually(t, func() bool {
		a.stateMux.Lock()
		defer a.stateMux.Unlock()
		return !a.demoMode
	}, time.Second, 5*time.Millisecond, "demo switches itself off when done")
}

func TestDemoModeCanBeStopped(t *testing.T) {
	a, _ := startedApp(t)
	a.stepDelay = time.Hour
	a.notifyDelay = time.Hour

	a.SetDemoMode(true)
	a.SetDemoMode(false)
	assert.Equal(t, 0, step(t, a))
}

func TestDialDrivesSession(t *testing.T) {
	a, _ := startedApp(t)
	client, server := net.Pipe()
	defer client.Close()

	a.attachDial(&dial.Device{Conn: server, ConnectionType: "network", Address: "pipe"})
	r := bufio.NewReader(client)

	_, err := client.Write([]byte("START\n"))
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "STEP 1\r\n", line)

	_, err = client.Write([]byte("PREVIEW JCC 180\nJCC 181\n"))
	require.NoError(t, err)
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "STEP 2\r\n", line)

	msg, err := a.DisconnectDial()
	require.NoError(t, err)
	assert.Contains(t, msg, "pipe")
	_, err = a.DisconnectDial()
	assert.Error(t, err)
}

func TestEventPresenterNames(t *testing.T) {
	var got []string
	p := &eventPresenter{
		ctx: context.Background(),
		emit: func(_ context.Context, name string, data ...interface{}) {
			got = append(got, name)
		},
	}
	s := tutor.NewSession(p, nil)
	require.True(t, s.Start())

	assert.Contains(t, got, evInstruction)
	assert.Contains(t, got, evControl)
	assert.Contains(t, got, evThumb)
	assert.Contains(t, got, evFinal)
	assert.NotContains(t, got, evNotification)
}
