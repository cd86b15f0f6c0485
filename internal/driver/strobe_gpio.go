//go:build linux

package driver

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOStrobe drives a single output pin high for the duration of each
// sample callback, so a logic analyzer can measure ISR timing the way the
// original firmware's debug strobe does on a spare port pin.
type GPIOStrobe struct {
	pin gpio.PinIO
}

// NewGPIOStrobe opens name (e.g. "GPIO17") as a low, push-pull output.
// host.Init must succeed exactly once per process; periph.io tolerates
// repeated calls.
func NewGPIOStrobe(name string) (*GPIOStrobe, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio strobe: host init: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio strobe: no such pin %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("gpio strobe: %w", err)
	}
	return &GPIOStrobe{pin: pin}, nil
}

// Set drives the pin high (on) or low (off).
func (s *GPIOStrobe) Set(on bool) {
	if on {
		s.pin.Out(gpio.High)
		return
	}
	s.pin.Out(gpio.Low)
}
