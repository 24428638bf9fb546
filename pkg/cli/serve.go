package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/queuestub/pkg/config"
	"github.com/getmockd/queuestub/pkg/server"
)

// ErrUnconsumed is returned by serve --strict when expectations were left
// over or unexpected requests arrived.
var ErrUnconsumed = errors.New("not every expectation was consumed exactly once")

type serveFlags struct {
	script string
	port   int
	strict bool
}

var serveFlagVals serveFlags

// ServeSummary is printed when the server stops.
type ServeSummary struct {
	URL        string `json:"url"`
	Port       int    `json:"port"`
	Dispatched uint64 `json:"dispatched"`
	Underruns  uint64 `json:"underruns"`
	Recovered  uint64 `json:"recovered"`
	Pending    int    `json:"pending"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a stub server that replays a handler script until interrupted",
	Long: `Start a stub server on 127.0.0.1 and queue the handlers from --script.
The port comes from --port, QUEUESTUB_HTTP_PORT, or the port pool.
The server runs until SIGINT or SIGTERM, then shuts down gracefully and
prints a summary.`,
	Example: `  queuestub serve --script handlers.yaml
  QUEUESTUB_HTTP_PORT=54321 queuestub serve -s handlers.yaml --strict`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cmd.OutOrStdout(), cfg, log, serveFlagVals)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlagVals.script, "script", "s", "", "Handler script (YAML or JSON)")
	serveCmd.Flags().IntVarP(&serveFlagVals.port, "port", "p", 0, "Fixed port to bind (overrides config and environment)")
	serveCmd.Flags().BoolVar(&serveFlagVals.strict, "strict", false, "Exit non-zero unless every handler was consumed and no extra request arrived")
	rootCmd.AddCommand(serveCmd)
}

// runServe starts the server, waits for ctx to end and tears it down.
func runServe(ctx context.Context, w io.Writer, cfg *config.Config, log *slog.Logger, f serveFlags) error {
	pool, err := cfg.Pool()
	if err != nil {
		return err
	}
	opts := []server.Option{server.WithPool(pool), server.WithLogger(log)}
	if f.port != 0 {
		opts = append(opts, server.WithPort(f.port))
	} else if port, ok, err := cfg.FixedPort(); err != nil {
		return err
	} else if ok {
		opts = append(opts, server.WithPort(port))
	}

	var script *config.Script
	if f.script != "" {
		if script, err = config.LoadScript(f.script); err != nil {
			return err
		}
	}

	inst, err := server.Setup(ctx, opts...)
	if err != nil {
		return err
	}

	if script != nil {
		specs, err := script.Build()
		if err != nil {
			_ = inst.Teardown()
			return err
		}
		for _, spec := range specs {
			if err := inst.Add(spec); err != nil {
				_ = inst.Teardown()
				return err
			}
		}
	}

	fmt.Fprintf(w, "queuestub listening on %s (%d handlers queued)\n", inst.URI("/"), inst.Pending())

	select {
	case <-ctx.Done():
	case <-inst.Done():
	}

	summary := ServeSummary{
		URL:     inst.URI("/"),
		Port:    inst.Port(),
		Pending: inst.Pending(),
	}
	if err := inst.Teardown(); err != nil {
		return err
	}
	stats := inst.Stats()
	summary.Dispatched = stats.Dispatched
	summary.Underruns = stats.Underruns
	summary.Recovered = stats.Recovered

	if err := printSummary(w, summary, jsonOutput); err != nil {
		return err
	}
	if f.strict && (summary.Pending > 0 || summary.Underruns > 0) {
		return fmt.Errorf("%w: %d pending, %d unexpected", ErrUnconsumed, summary.Pending, summary.Underruns)
	}
	return nil
}

func printSummary(w io.Writer, s ServeSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	_, err := fmt.Fprintf(w, "stopped: %d dispatched, %d unexpected, %d pending, %d recovered\n",
		s.Dispatched, s.Underruns, s.Pending, s.Recovered)
	return err
}
