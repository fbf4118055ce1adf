package tui

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/opacctl/internal/util"
)

// ShouldUseTUI reports whether cmd should run interactively: stdout is a
// terminal that can draw, and neither --no-interactive nor --json is set.
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() || os.Getenv("TERM") == "dumb" {
		return false
	}

	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return false
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return false
	}

	return true
}
