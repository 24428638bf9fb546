package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getmockd/queuestub/pkg/cli/internal/ports"
	"github.com/getmockd/queuestub/pkg/config"
)

// PortsOutput describes the configured pool and which of its ports can be bound.
type PortsOutput struct {
	RangeStart int   `json:"rangeStart"`
	RangeEnd   int   `json:"rangeEnd"`
	Total      int   `json:"total"`
	Bindable   int   `json:"bindable"`
	Busy       []int `json:"busy"`
	FixedPort  int   `json:"fixedPort,omitempty"`
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Show the port pool and which of its ports are free on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := inspectPorts(cfg)
		if err != nil {
			return err
		}
		return printPorts(cmd.OutOrStdout(), out, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

// inspectPorts probes every port in the configured pool range.
func inspectPorts(cfg *config.Config) (PortsOutput, error) {
	pool, err := cfg.Pool()
	if err != nil {
		return PortsOutput{}, err
	}
	start, end := pool.Range()

	candidates := pool.Available()
	free := make(map[int]bool, len(candidates))
	for _, port := range ports.Scan(candidates) {
		free[port] = true
	}

	out := PortsOutput{
		RangeStart: start,
		RangeEnd:   end,
		Total:      pool.Cap(),
		Bindable:   len(free),
		Busy:       []int{},
	}
	for port := start; port <= end; port++ {
		if !free[port] {
			out.Busy = append(out.Busy, port)
		}
	}

	if port, ok, err := cfg.FixedPort(); err != nil {
		return PortsOutput{}, err
	} else if ok {
		out.FixedPort = port
	}
	return out, nil
}

func printPorts(w io.Writer, out PortsOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "POOL      %d-%d\n", out.RangeStart, out.RangeEnd)
	fmt.Fprintf(w, "BINDABLE  %d/%d\n", out.Bindable, out.Total)
	if len(out.Busy) > 0 {
		fmt.Fprintf(w, "BUSY      %v\n", out.Busy)
	}
	if out.FixedPort != 0 {
		fmt.Fprintf(w, "FIXED     %d (%s)\n", out.FixedPort, config.EnvHTTPPort)
	}
	return nil
}
