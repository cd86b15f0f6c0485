// Package driver holds the external collaborators kept out of the modem
// core's scope: board bring-up, ADC/DAC peripheral configuration,
// interrupt vector wiring, and the debug strobe. internal/modem never
// imports this package; it only exposes the sample callbacks and hook
// fields these collaborators drive.
package driver

import "afsk1200/internal/modem"

// SampleSource is an ADC/DAC peripheral - real hardware or a software
// stand-in - that pumps a *modem.Modem at its fixed sample rate. Start
// begins calling ProcessSample/NextSample; Stop tears the pump down. It is
// a swappable hardware boundary the application wires in, never something
// the core itself constructs.
type SampleSource interface {
	Start(m *modem.Modem) error
	Stop() error
}

// Strobe toggles a hardware probe line around each sample callback, wired
// into modem.Options.DebugStrobe. A nil *modem.Options.DebugStrobe is
// already a valid no-op, so Strobe implementations only need to exist on
// platforms that actually have a spare GPIO line.
type Strobe interface {
	Set(on bool)
}
