package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rpgo/lifeplan-simulator/internal/calculation"
	"github.com/rpgo/lifeplan-simulator/internal/config"
	"github.com/rpgo/lifeplan-simulator/internal/session"
	"github.com/spf13/cobra"
)

// app carries the process configuration shared by every command.
type app struct {
	cfg    config.AppConfig
	logger calculation.Logger
	stdout io.Writer
	stderr io.Writer
	dbPath string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	var logLevel string

	root := &cobra.Command{
		Use:           "lifeplan",
		Short:         "Multi-decade household and corporate cash-flow projection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAppConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if !cmd.Flags().Changed("db") {
				a.dbPath = cfg.DBPath
			}
			lvl, err := calculation.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = calculation.NewStdLogger(stderr, lvl)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database recording runs (default $LIFEPLAN_DB_PATH)")

	root.AddCommand(
		newProjectCmd(a),
		newValidateCmd(a),
		newExampleCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// openStore returns the SQLite store when a database is configured.
func (a *app) openStore() (session.Store, error) {
	if a.dbPath == "" {
		return session.NewNoopStore(), nil
	}
	store, err := session.NewSQLiteStore(a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return store, nil
}

func (a *app) engine() *calculation.CalculationEngine {
	ce := calculation.NewCalculationEngine()
	ce.SetLogger(a.logger)
	return ce
}

// writeOutput writes data to path, or to stdout when path is empty.
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.logger.Infof("wrote %s", path)
	return nil
}
