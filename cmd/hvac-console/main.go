// Package main is the entry point of the heat pump Modbus console.
// It wires the transaction layer, the monitor and the command registry to an
// interactive or line-oriented front-end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexus-edge/hvac-console/internal/adapter/config"
	"github.com/nexus-edge/hvac-console/internal/adapter/journal"
	"github.com/nexus-edge/hvac-console/internal/adapter/modbus"
	"github.com/nexus-edge/hvac-console/internal/console"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/health"
	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/nexus-edge/hvac-console/internal/service"
	"github.com/nexus-edge/hvac-console/internal/store"
	"github.com/nexus-edge/hvac-console/internal/tui"
	"github.com/nexus-edge/hvac-console/pkg/logging"
	"github.com/rs/zerolog"
)

const serviceName = "hvac-console"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run starts the console. Operator output goes to stdout; usage and startup
// errors go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	// Bootstrap logger until the configuration names the real destination
	logger, logCloser := logging.New(serviceName, version)

	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("c", "", "configuration file")
	ip := fs.String("i", "", "controller IP address (Modbus TCP)")
	serialDev := fs.String("d", "", "serial device, e.g. /dev/ttyUSB0 (Modbus RTU)")
	port := fs.Int("p", 0, "TCP port (default from configuration, 502)")
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		_ = logCloser.Close()
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *cfgPath != "" {
		cfg, err = config.LoadFile(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		logger.Error().Err(err).Msg("Failed to load configuration")
		_ = logCloser.Close()
		return 1
	}

	_ = logCloser.Close()
	logger, logCloser = logging.NewWithConfig(serviceName, version, cfg.Logging)
	defer logCloser.Close()
	logger.Info().Msg("Starting HVAC console")

	dev, err := cfg.Device(config.Flags{IP: *ip, SerialDevice: *serialDev, Port: *port})
	if err != nil {
		if errors.Is(err, config.ErrTransportChoice) {
			fmt.Fprintln(stderr, "Pick only one of variants, RTU (-d), or TCP (-i)")
		} else {
			fmt.Fprintln(stderr, err)
		}
		usage(stderr)
		return 1
	}
	logger = logging.WithDevice(logger, dev)

	if dev.Protocol == domain.ProtocolModbusTCP {
		fmt.Fprintf(stdout, "IP Address: %s port : %d\n", dev.Host, dev.Port)
	} else {
		fmt.Fprintf(stdout, "Serial device : %s\n", dev.SerialPort)
		if ok, err := modbus.SerialPortPresent(dev.SerialPort); err != nil {
			logger.Warn().Err(err).Msg("Could not enumerate serial ports")
		} else if !ok {
			logger.Warn().Msg("Serial device is not among the enumerated ports")
		}
	}

	// Create root context cancelled on SIGINT and SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsRegistry := metrics.NewRegistry(nil)

	// =============================================================
	// Transaction layer and initial read
	// =============================================================

	dialer, err := modbus.NewDialer(dev)
	if err != nil {
		fmt.Fprintln(stderr, console.Diagnostic(err))
		logger.Error().Err(err).Msg("Failed to create dialer")
		return 1
	}

	st := store.New()
	client := modbus.NewClient(dialer, st, logger, metricsRegistry)

	if err := client.ReadAll(ctx); err != nil {
		fmt.Fprintln(stderr, console.Diagnostic(err))
		logger.Error().Err(err).Msg("Initial read failed")
		return 1
	}
	logger.Info().Str("endpoint", client.Endpoint()).Msg("Initial register read complete")

	// =============================================================
	// Journal and monitor
	// =============================================================

	var writeJournal *journal.Journal
	j, err := journal.Open(journal.Config{Path: cfg.Journal.Path, QueueSize: cfg.Journal.QueueSize}, logger, metricsRegistry)
	switch {
	case errors.Is(err, domain.ErrJournalDisabled):
		logger.Debug().Msg("Write journal disabled")
	case err != nil:
		fmt.Fprintf(stderr, "Failed to open write journal: %v\n", err)
		logger.Error().Err(err).Msg("Failed to open write journal")
		return 1
	default:
		if err := j.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to start write journal")
			return 1
		}
		writeJournal = j
	}

	monitor := service.NewMonitor(service.MonitorConfig{
		Interval:        cfg.Monitor.Interval,
		BreakerFailures: cfg.Monitor.BreakerFailures,
		BreakerTimeout:  cfg.Monitor.BreakerTimeout,
	}, client, st, nil, logger, metricsRegistry)
	if err := monitor.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start monitor")
		return 1
	}

	// =============================================================
	// Health and metrics endpoint
	// =============================================================

	var httpServer *http.Server
	if cfg.Metrics.ListenAddr != "" {
		healthChecker := health.NewChecker(health.Config{
			ServiceName:    serviceName,
			ServiceVersion: version,
		})
		healthChecker.AddCheck("modbus", client)
		if writeJournal != nil {
			healthChecker.AddCheck("journal", writeJournal)
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/health", healthChecker.HealthHandler)
		mux.HandleFunc("/health/live", healthChecker.LivenessHandler)
		mux.Handle("/metrics", metricsRegistry.Handler())

		httpServer = &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("Starting HTTP server")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("HTTP server error")
			}
		}()
	}

	// =============================================================
	// Console
	// =============================================================

	env := &console.Env{
		Store:   st,
		Modbus:  client,
		Monitor: monitor,
		Info: console.Info{
			Device:   dev,
			Endpoint: client.Endpoint(),
			Version:  version,
		},
		Ports:  modbus.ListSerialPorts,
		Stats:  client.TransportStats,
		Logger: logger,
		Out:    stdout,
	}
	if writeJournal != nil {
		env.Journal = writeJournal
	}
	registry := console.NewDefaultRegistry(logger, metricsRegistry)

	logger.Info().Str("mode", cfg.Console.Mode).Int("commands", len(registry.Paths())).Msg("HVAC console started")

	var consoleErr error
	if cfg.Console.Mode == config.ModeTUI && isTerminal(os.Stdin) {
		consoleErr = tui.Run(ctx, registry, env)
	} else {
		consoleErr = tui.RunLine(ctx, os.Stdin, registry, env)
	}
	if consoleErr != nil {
		logger.Error().Err(consoleErr).Msg("Console error")
	}

	// =============================================================
	// Shutdown
	// =============================================================

	shutdown(logger, monitor, writeJournal, httpServer)
	if consoleErr != nil {
		return 1
	}
	return 0
}

func shutdown(logger zerolog.Logger, monitor *service.Monitor, j *journal.Journal, srv *http.Server) {
	logger.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := monitor.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("Error stopping monitor")
	}
	if j != nil {
		if err := j.Stop(ctx); err != nil {
			logger.Error().Err(err).Msg("Error stopping write journal")
		}
	}
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
		}
	}

	logger.Info().Msg("HVAC console stopped")
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s -i ip_address\n", os.Args[0])
	fmt.Fprintf(w, "Usage: %s -d /dev/ttyUSB<N>\n", os.Args[0])
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
