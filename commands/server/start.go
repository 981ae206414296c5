package server

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/crypto-guardian/custody/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagMetrics  = "metrics"
	flagLogLevel = "log-level"
	flagConfig   = "config"
)

// AppGenerator lets us lazily initialize app, using home dir and logger
// potentially initialized with other flags.
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// parseStartArgs loads the configuration file and applies the command line
// flags on top of it. Only flags given explicitly override the file.
func parseStartArgs(home string, args []string) (Config, error) {
	fs := pflag.NewFlagSet("start", pflag.ContinueOnError)
	confPath := fs.String(flagConfig, DefaultConfigPath(home), "path to the TOML configuration file")
	bind := fs.String(flagBind, "", "address server listens on")
	debug := fs.Bool(flagDebug, false, "call stack returned on error")
	metrics := fs.String(flagMetrics, "", "address serving prometheus metrics, empty to disable")
	level := fs.String(flagLogLevel, "", "log level: debug, info, error or none")
	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(errors.ErrInput, err.Error())
	}

	conf, err := LoadConfig(*confPath)
	if err != nil {
		return conf, err
	}
	if fs.Changed(flagBind) {
		conf.Bind = *bind
	}
	if fs.Changed(flagDebug) {
		conf.Debug = *debug
	}
	if fs.Changed(flagMetrics) {
		conf.MetricsAddr = *metrics
	}
	if fs.Changed(flagLogLevel) {
		conf.LogLevel = *level
	}
	return conf, nil
}

// FilterLogger returns the logger limited to the configured level.
func FilterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// StartCmd initializes the application and serves it over an ABCI socket
// until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := parseStartArgs(home, args)
	if err != nil {
		return err
	}
	logger, err = FilterLogger(logger, conf.LogLevel)
	if err != nil {
		return err
	}

	app, err := gen(home, logger, conf.Debug)
	if err != nil {
		return err
	}

	if conf.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("Serving metrics", "addr", conf.MetricsAddr)
			if err := http.ListenAndServe(conf.MetricsAddr, mux); err != nil {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Shutting down", "signal", s.String())
	return svr.Stop()
}
