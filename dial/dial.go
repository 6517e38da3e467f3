// Package dial reads a hardware control box (two rotary encoders and a few
// push buttons) over a serial port or TCP and turns its line protocol into
// trainer commands.
//
// One command per line, fields separated by spaces, case-insensitive:
//
//	LENS 35          commit the trial lens dial at 35°
//	JCC 120          commit the JCC dial at 120°
//	PREVIEW LENS 40  dial is turning, nothing is committed
//	FLIP | PLUS | MINUS | AXIS | POWER | START | ACK
package dial

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"JCCTrainer/tutor"
	"go.bug.st/serial"
)

const (
	BaudRate       = 9600
	networkTimeout = 5 * time.Second
	writeTimeout   = 2 * time.Second
)

var ErrMalformed = errors.New("malformed dial command")

// Command is one parsed line from the control box.
type Command struct {
	Control tutor.Control
	// Slider and Angle are set for rotation commands.
	Slider  tutor.Slider
	Angle   float64
	Preview bool
}

var buttons = map[string]tutor.Control{
	"FLIP":  tutor.ControlFlip,
	"PLUS":  tutor.ControlIncreasePower,
	"MINUS": tutor.ControlDecreasePower,
	"AXIS":  tutor.ControlConfirmAxis,
	"POWER": tutor.ControlConfirmPower,
	"START": tutor.ControlStart,
	"ACK":   tutor.ControlAcknowledge,
}

func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(strings.ToUpper(strings.TrimSpace(line)))
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	var cmd Command
	if parts[0] == "PREVIEW" {
		cmd.Preview = true
		parts = parts[1:]
		if len(parts) != 2 {
			return Command{}, fmt.Errorf("%w: preview needs a dial and an angle in '%s'", ErrMalformed, line)
		}
	}

	switch parts[0] {
	case "LENS", "JCC":
		if len(parts) != 2 {
			return Command{}, fmt.Errorf("%w: expected '%s <degrees>', got '%s'", ErrMalformed, parts[0], line)
		}
		angle, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad angle '%s': %v", ErrMalformed, parts[1], err)
		}
		cmd.Slider = tutor.SliderLens
		if parts[0] == "JCC" {
			cmd.Slider = tutor.SliderJCC
		}
		cmd.Control = cmd.Slider.Control()
		cmd.Angle = angle
		return cmd, nil
	}

	if cmd.Preview {
		return Command{}, fmt.Errorf("%w: only dials can preview, got '%s'", ErrMalformed, line)
	}
	c, ok := buttons[parts[0]]
	if !ok || len(parts) != 1 {
		return Command{}, fmt.Errorf("%w: unknown command '%s'", ErrMalformed, line)
	}
	cmd.Control = c
	return cmd, nil
}

// Device is a connected control box.
type Device struct {
	Conn           io.ReadWriteCloser
	ConnectionType string
	Address        string
	cancelListener context.CancelFunc
}

func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

func OpenSerial(portName string) (*Device, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	return &Device{Conn: port, ConnectionType: "serial", Address: portName}, nil
}

func OpenNetwork(ipAddress string, port int) (*Device, error) {
	address := net.JoinHostPort(ipAddress, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", address, networkTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return &Device{Conn: conn, ConnectionType: "network", Address: address}, nil
}

// Start runs Listen in the background until Close.
func (d *Device) Start(handle func(Command)) {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancelListener = cancel
	go d.Listen(ctx, handle)
}

// Listen reads commands until ctx is cancelled or the connection ends.
// Malformed lines are logged and skipped.
func (d *Device) Listen(ctx context.Context, handle func(Command)) {
	scanner := bufio.NewScanner(d.Conn)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			log.Printf("DIAL: Stopping listener for %s", d.Address)
			return
		default:
			text := scanner.Text()
			if strings.TrimSpace(text) == "" {
				continue
			}
			cmd, err := ParseCommand(text)
			if err != nil {
				log.Printf("DIAL: %v", err)
				continue
			}
			handle(cmd)
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		log.Printf("DIAL: listener for %s ended: %v", d.Address, err)
	}
}

// Send writes one status line back to the box display.
func (d *Device) Send(value string) error {
	if d.Conn == nil {
		return fmt.Errorf("dial not connected")
	}
	if conn, ok := d.Conn.(net.Conn); ok {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		defer conn.SetWriteDeadline(time.Time{})
	}
	if _, err := d.Conn.Write([]byte(value + "\r\n")); err != nil {
		return fmt.Errorf("failed to write to dial: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	if d.cancelListener != nil {
		d.cancelListener()
	}
	if d.Conn == nil {
		return nil
	}
	return d.Conn.Close()
}
