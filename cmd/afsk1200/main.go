package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"afsk1200/internal/app"
	"afsk1200/internal/config"
	"afsk1200/internal/driver"
	"afsk1200/internal/modem"
)

func main() {
	var (
		configFile  string
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "afsk1200",
		Short: "Software AFSK1200/AX.25 modem",
		Long: `afsk1200 runs a software Bell 202 AFSK modem: frequency-discriminator
demodulation and phase-locked bit recovery on receive, HDLC framing on both
directions, and a DDS tone generator on transmit.

Example usage:
  afsk1200 --audio-driver loopback --filter butterworth`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				app.ShowVersion()
				return nil
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			application, err := app.NewApplication(cfg)
			if err != nil {
				return fmt.Errorf("create application: %w", err)
			}
			return application.Start()
		},
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.Flags().String("filter", "butterworth", "Discriminator low-pass filter: butterworth or chebyshev")
	rootCmd.Flags().Int("preamble-ms", 100, "Preamble flag stream duration, milliseconds")
	rootCmd.Flags().Int("trailer-ms", 50, "Trailer flag stream duration, milliseconds")
	rootCmd.Flags().Int("rx-timeout-ms", 0, "RX read timeout per byte; 0 non-blocking, -1 infinite")
	rootCmd.Flags().String("audio-driver", "loopback", "Sample source: loopback or soundcard")
	rootCmd.Flags().String("debug-strobe", "", "GPIO pin name for the sample-callback debug strobe")
	rootCmd.Flags().String("log-level", "info", "Log level")
	rootCmd.Flags().String("metrics-addr", ":9100", "Prometheus metrics listen address")

	bindFlag("modem.filter", rootCmd.Flags().Lookup("filter"))
	bindFlag("modem.preamble_ms", rootCmd.Flags().Lookup("preamble-ms"))
	bindFlag("modem.trailer_ms", rootCmd.Flags().Lookup("trailer-ms"))
	bindFlag("modem.rx_timeout_ms", rootCmd.Flags().Lookup("rx-timeout-ms"))
	bindFlag("audio.driver", rootCmd.Flags().Lookup("audio-driver"))
	bindFlag("audio.debug_strobe", rootCmd.Flags().Lookup("debug-strobe"))
	bindFlag("logging.level", rootCmd.Flags().Lookup("log-level"))
	bindFlag("metrics.addr", rootCmd.Flags().Lookup("metrics-addr"))

	rootCmd.AddCommand(newLoopbackCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func bindFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	_ = viper.BindPFlag(key, flag)
}

// newLoopbackCmd exercises a full send/receive round trip entirely in
// memory, no sound card required: it writes a frame into the modem, lets
// the in-process Loopback sample source carry it from DAC back to ADC, and
// reports what came out the RX queue.
func newLoopbackCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "loopback",
		Short: "Send a frame through an in-process DAC/ADC loopback and print what comes back",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A non-zero preamble/trailer is required so at least one
			// HDLC_FLAG is actually transmitted; without it hdlcParse
			// never synchronizes and Read always comes back empty.
			m := modem.NewModem(modem.Options{PreambleMS: 100, TrailerMS: 50})
			lb := driver.NewLoopback()
			if err := lb.Start(m); err != nil {
				return fmt.Errorf("start loopback: %w", err)
			}
			defer lb.Stop()

			if _, err := m.Write([]byte(message)); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
			m.Flush()

			buf := make([]byte, 4096)
			n, _ := m.Read(buf)
			fmt.Printf("received %d bytes: %q\n", n, buf[:n])
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "hello", "Payload to send through the loopback")
	return cmd
}
