package dial

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"JCCTrainer/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"LENS 35", Command{Control: tutor.ControlLensRotation, Slider: tutor.SliderLens, Angle: 35}},
		{"jcc 182.5", Command{Control: tutor.ControlJCCRotation, Slider: tutor.SliderJCC, Angle: 182.5}},
		{"  Preview lens 40\r", Command{Control: tutor.ControlLensRotation, Slider: tutor.SliderLens, Angle: 40, Preview: true}},
		{"FLIP", Command{Control: tutor.ControlFlip}},
		{"plus", Command{Control: tutor.ControlIncreasePower}},
		{"MINUS", Command{Control: tutor.ControlDecreasePower}},
		{"AXIS", Command{Control: tutor.ControlConfirmAxis}},
		{"POWER", Command{Control: tutor.ControlConfirmPower}},
		{"START", Command{Control: tutor.ControlStart}},
		{"ack", Command{Control: tutor.ControlAcknowledge}},
	}
	for _, c := range cases {
		got, err := ParseCommand(c.line)
		require.NoError(t, err, c.line)
		assert.Equal(t, c.want, got, c.line)
	}
}

func TestParseCommandMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"LENS",
		"LENS abc",
		"JCC 10 20",
		"PREVIEW",
		"PREVIEW FLIP 10",
		"PREVIEW LENS",
		"FLIP NOW",
		"EJECT",
	} {
		_, err := ParseCommand(line)
		assert.ErrorIs(t, err, ErrMalformed, "%q", line)
	}
}

func TestListenSkipsBadLines(t *testing.T) {
	client, server := net.Pipe()
	d := &Device{Conn: server, ConnectionType: "network", Address: "pipe"}

	got := make(chan Command, 8)
	done := make(chan struct{})
	go func() {
		d.Listen(context.Background(), func(c Command) { got <- c })
		close(done)
	}()

	_, err := client.Write([]byte("START\r\n\r\nbogus\nJCC 180\n"))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop when the connection closed")
	}
	close(got)

	var cmds []Command
	for c := range got {
		cmds = append(cmds, c)
	}
	require.Len(t, cmds, 2)
	assert.Equal(t, tutor.ControlStart, cmds[0].Control)
	assert.Equal(t, tutor.SliderJCC, cmds[1].Slider)
	assert.Equal(t, 180.0, cmds[1].Angle)
}

func TestSend(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	d := &Device{Conn: server, ConnectionType: "network", Address: "pipe"}

	line := make(chan string, 1)
	go func() {
		s, _ := bufio.NewReader(client).ReadString('\n')
		line <- s
	}()

	require.NoError(t, d.Send("STEP 1"))
	assert.Equal(t, "STEP 1\r\n", <-line)
	require.NoError(t, d.Close())

	assert.Error(t, (&Device{}).Send("x"))
}
