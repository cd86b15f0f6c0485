//go:build portaudio

// Package driver's portaudio-backed SampleSource turns a sound card into the
// modem's ADC/DAC: open a device, configure it for the modem's fixed sample
// rate, and pump samples through a callback until the caller cancels.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"afsk1200/internal/modem"
)

// SoundCard is a SampleSource backed by the default system audio device. A
// single full-duplex stream feeds ProcessSample from the input channel and
// drains NextSample into the output channel every callback, so RX and TX
// share one sample clock exactly as the ISR pair shares one timer in the
// original firmware.
type SoundCard struct {
	logger   *logrus.Logger
	stream   *portaudio.Stream
	cancelFn context.CancelFunc
}

// NewSoundCard initializes PortAudio. Terminate must be called once the
// returned SoundCard and any others sharing the process are done.
func NewSoundCard(logger *logrus.Logger) (*SoundCard, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	return &SoundCard{logger: logger}, nil
}

// Terminate releases PortAudio's global resources.
func (s *SoundCard) Terminate() error {
	return portaudio.Terminate()
}

// Start opens a full-duplex mono stream at modem.SampleRate and begins
// pumping it. Start returns once the stream is running; the callback keeps
// running on PortAudio's own audio thread until Stop is called.
func (s *SoundCard) Start(m *modem.Modem) error {
	if s.stream != nil {
		return errors.New("portaudio: already started")
	}

	_, cancel := context.WithCancel(context.Background())
	s.cancelFn = cancel

	callback := func(in, out []int32) {
		for i := range out {
			m.ProcessSample(int8(in[i] >> 24))
			out[i] = int32(m.NextSample()-128) << 24
		}
	}

	stream, err := portaudio.OpenDefaultStream(1, 1, float64(modem.SampleRate), 0, callback)
	if err != nil {
		cancel()
		return fmt.Errorf("portaudio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		cancel()
		return fmt.Errorf("portaudio: start stream: %w", err)
	}
	s.stream = stream
	s.logger.WithField("sample_rate", modem.SampleRate).Info("sound card stream started")
	return nil
}

// Stop halts and closes the stream.
func (s *SoundCard) Stop() error {
	if s.cancelFn != nil {
		s.cancelFn()
		s.cancelFn = nil
	}
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop stream: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("portaudio: close stream: %w", err)
	}
	s.stream = nil
	s.logger.Info("sound card stream stopped")
	return nil
}
