package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"afsk1200/internal/config"
	"afsk1200/internal/driver"
	"afsk1200/internal/metrics"
	"afsk1200/internal/modem"
)

// Application wires the modem core to a sample source, the metrics server,
// and the process lifecycle: construction, start, graceful shutdown on
// signal, and the small amount of frame-boundary accounting exposed to
// metrics.
type Application struct {
	cfg    *config.Config
	logger *logrus.Logger

	modem  *modem.Modem
	source driver.SampleSource
	strobe driver.Strobe

	metrics       *metrics.Modem
	metricsServer *metrics.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplication builds an Application from a resolved configuration. It
// does not start anything yet; call Start to bring the pipeline up.
func NewApplication(cfg *config.Config) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	app := &Application{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.initializeComponents(); err != nil {
		cancel()
		return nil, fmt.Errorf("initialize components: %w", err)
	}
	return app, nil
}

func (app *Application) initializeComponents() error {
	app.metrics = metrics.NewModem()

	if app.cfg.Audio.DebugStrobe != "" {
		strobe, err := driver.NewGPIOStrobe(app.cfg.Audio.DebugStrobe)
		if err != nil {
			app.logger.WithError(err).Warn("debug strobe unavailable, continuing without it")
		} else {
			app.strobe = strobe
		}
	}

	opts := modem.Options{
		Filter:      app.cfg.Modem.FilterKind(),
		PreambleMS:  app.cfg.Modem.PreambleMS,
		TrailerMS:   app.cfg.Modem.TrailerMS,
		RXTimeoutMS: app.cfg.Modem.RXTimeoutMS,
		RXQueueSize: app.cfg.Modem.RXQueueSize,
		TXQueueSize: app.cfg.Modem.TXQueueSize,
		OnBitStuff:  app.metrics.BitStuffEvents.Inc,
	}
	if app.strobe != nil {
		opts.DebugStrobe = app.strobe.Set
	}
	app.modem = modem.NewModem(opts)

	switch app.cfg.Audio.Driver {
	case "soundcard":
		return fmt.Errorf("audio.driver: soundcard is not wired into the application; only loopback is available")
	default:
		app.source = driver.NewLoopback()
	}

	if app.cfg.Metrics.Enabled {
		app.metricsServer = metrics.NewServer(app.logger, app.cfg.Metrics.Addr, app.cfg.Metrics.Path, app.metrics.Registry())
	}
	return nil
}

// Start brings the pipeline up and blocks until SIGINT/SIGTERM.
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version": Version,
	}).Info("starting afsk1200 modem")

	if err := app.source.Start(app.modem); err != nil {
		return fmt.Errorf("start sample source: %w", err)
	}
	if app.metricsServer != nil {
		app.metricsServer.Start()
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.scanFrames()
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatus()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	app.logger.Info("received shutdown signal")
	app.Shutdown()
	return nil
}

// scanFrames pulls bytes off the modem's RX queue and counts flag-delimited
// frames and escaped reserved bytes for the metrics exporter. It does not
// interpret frame contents - AX.25 address/control parsing is out of scope.
func (app *Application) scanFrames() {
	buf := make([]byte, 256)
	inFrame := false
	escaped := false
	hasData := false

	for {
		select {
		case <-app.ctx.Done():
			return
		default:
		}

		n, _ := app.modem.Read(buf)
		if n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}

		for _, b := range buf[:n] {
			switch {
			case escaped:
				escaped = false
				hasData = true
			case b == modem.AX25Esc:
				escaped = true
				app.metrics.EscapedBytesRX.Inc()
			case b == modem.HDLCFlag:
				// Back-to-back flags (preamble, trailer) delimit no frame.
				if inFrame && hasData {
					app.metrics.FramesReceived.Inc()
				}
				inFrame = true
				hasData = false
			default:
				hasData = true
			}
		}

		if app.modem.Error()&modem.StatusRXFIFOOverrun != 0 {
			app.metrics.RXFIFOOverruns.Inc()
			app.modem.ClearError()
		}
	}
}

// reportStatus periodically logs and exports coarse liveness state.
func (app *Application) reportStatus() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			sending := app.modem.Sending()
			if sending {
				app.metrics.CurrentlySending.Set(1)
			} else {
				app.metrics.CurrentlySending.Set(0)
			}
			app.logger.WithField("sending", sending).Debug("modem status")
		}
	}
}

// SendFrame queues data for transmission, bracketed by a leading flag byte
// the modulator's preamble already supplies; callers pass raw frame bytes
// with reserved values pre-escaped by the caller if needed.
func (app *Application) SendFrame(data []byte) error {
	_, err := app.modem.Write(data)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	app.metrics.FramesSent.Inc()
	return nil
}

// Shutdown gracefully stops every component, waiting up to 5 seconds for
// background goroutines before forcing the issue.
func (app *Application) Shutdown() {
	app.logger.Info("shutting down")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("all goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("shutdown timeout, forcing exit")
	}

	app.modem.Flush()
	if err := app.source.Stop(); err != nil {
		app.logger.WithError(err).Error("error stopping sample source")
	}
	if app.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			app.logger.WithError(err).Error("error stopping metrics server")
		}
	}
	app.logger.Info("shutdown complete")
}
