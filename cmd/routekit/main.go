package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	rkerrors "github.com/vango-dev/routekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		rkerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configDir string
		noColor   bool
	)

	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Serve and inspect a routekit application",
		Long: `routekit serves a single-page application whose routes are
declared in an ordered table.

Deep links are resolved on the server with the same table the
client uses, so every path under the history base renders the
matching view or the not-found page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				colorEnabled = false
				rkerrors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing routekit.json or routekit.toml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		initCmd(&configDir),
		serveCmd(&configDir),
		routesCmd(&configDir),
		resolveCmd(&configDir),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

var colorEnabled = true

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + "\033[0m"
}
