package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionOutput represents JSON output format
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show queuestub version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := VersionOutput{
			Version: Version,
			Commit:  Commit,
			Date:    BuildDate,
			Go:      runtime.Version(),
		}
		if info, ok := debug.ReadBuildInfo(); ok && out.Version == "dev" && info.Main.Version != "" {
			out.Version = info.Main.Version
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		_, err := fmt.Fprintf(w, "queuestub %s (commit %s, built %s, %s)\n", out.Version, out.Commit, out.Date, out.Go)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
