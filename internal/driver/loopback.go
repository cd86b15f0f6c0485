package driver

import (
	"context"
	"sync"
	"time"

	"afsk1200/internal/modem"
)

// Loopback is an in-process, hardware-free SampleSource: it feeds each
// NextSample DAC byte straight back into ProcessSample. It exists so the
// modem's round trip can be exercised - in tests and in the cmd/afsk1200
// loopback subcommand - without a sound card.
type Loopback struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoopback returns an idle Loopback ready to Start.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Start begins ticking m at modem.SampleRate on a background goroutine.
// Calling Start on an already-running Loopback is a no-op.
func (l *Loopback) Start(m *modem.Modem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	period := time.Second / time.Duration(modem.SampleRate)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				step(m)
			}
		}
	}()
	return nil
}

// Stop halts the pump and waits for it to exit.
func (l *Loopback) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel == nil {
		return nil
	}
	l.cancel()
	l.wg.Wait()
	l.cancel = nil
	return nil
}

// step runs one DAC-to-ADC loopback tick: NextSample's unsigned DDS output
// is recentered to a signed ADC sample before ProcessSample sees it, the
// same conversion a codec does crossing the analog gap in hardware.
func step(m *modem.Modem) {
	out := m.NextSample()
	m.ProcessSample(int8(int(out) - 128))
}

// Pump drives n loopback ticks synchronously, with no goroutine or wall
// clock involved. Tests use this instead of Start/Stop: deterministic and
// fast, at the cost of not exercising the real-time pump.
func Pump(m *modem.Modem, n int) {
	for i := 0; i < n; i++ {
		step(m)
	}
}
