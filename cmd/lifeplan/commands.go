package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifeplan-simulator/internal/config"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/internal/output"
	"github.com/rpgo/lifeplan-simulator/internal/server"
	"github.com/rpgo/lifeplan-simulator/internal/session"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	var format, out, query string
	cmd := &cobra.Command{
		Use:   "project <bundle>",
		Short: "Run a projection and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", args[0], err)
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sess := session.New(a.engine(), store)
			sess.SetLogger(a.logger)
			doc, err := sess.Import(cmd.Context(), data, config.DetectFormat(args[0]))
			if err != nil {
				return err
			}

			if query != "" {
				v, err := output.Query(cmd.Context(), doc, query)
				if err != nil {
					return err
				}
				b, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				return a.writeOutput(out, append(b, '\n'))
			}

			if format == "" {
				format = a.cfg.DefaultFormat
			}
			rendered, err := output.Render(doc, format)
			if err != nil {
				return err
			}
			return a.writeOutput(out, rendered)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format (default $LIFEPLAN_DEFAULT_FORMAT or console)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&query, "query", "q", "", "print the JSONPath selection of the export document")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <bundle>",
		Short: "Check a bundle without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s: valid (%d-%d)\n", args[0], b.Profile.StartYear, b.Profile.LastYear())
			return nil
		},
	}
}

func newExampleCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print a complete example bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.FormatYAML
			if out != "" {
				format = config.DetectFormat(out)
			}
			data, err := config.MarshalDocument(&domain.Document{Bundle: *config.CreateExampleBundle()}, format)
			if err != nil {
				return err
			}
			return a.writeOutput(out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file (.yaml or .json) instead of stdout")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			engine := a.engine()
			sess := session.New(engine, store)
			sess.SetLogger(a.logger)
			if _, err := sess.Restore(cmd.Context()); err != nil && !errors.Is(err, session.ErrNoSession) {
				a.logger.Warnf("could not restore last session: %v", err)
			}

			srv := server.New(engine, sess, a.logger)
			srv.MaxBodyBytes = a.cfg.MaxBodyBytes

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe(addr) }()
			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				a.logger.Infof("shutting down")
				return srv.Shutdown()
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $LIFEPLAN_ADDR or :8080)")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded projection runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.dbPath == "" {
				return errors.New("history needs --db or LIFEPLAN_DB_PATH")
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRECORDED\tHORIZON\tFINAL NET ASSETS")
			for _, r := range runs {
				fmt.Fprintf(w, "%d\t%s\t%d-%d\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.FirstYear, r.LastYear, output.FormatManYen(r.FinalNetAssets))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum runs to list (0 for all)")
	return cmd
}
