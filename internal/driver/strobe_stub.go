//go:build !linux

package driver

import "fmt"

// GPIOStrobe is unavailable off Linux; NewGPIOStrobe always fails so callers
// fall back to running without a debug strobe instead of silently no-oping.
type GPIOStrobe struct{}

func NewGPIOStrobe(name string) (*GPIOStrobe, error) {
	return nil, fmt.Errorf("gpio strobe: not supported on this platform")
}

func (s *GPIOStrobe) Set(on bool) {}
