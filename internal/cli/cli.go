// Package cli implements the bipartgen command-line interface.
//
// This package wires the instance generators, the CNF encoder and the
// diagram renderer into a single cobra command. Options can come from flags
// or from a TOML manifest, with flags taking precedence. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Example
//
//	import "github.com/hardcnf/bipartgen/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hardcnf/bipartgen/pkg/buildinfo"
)

// appName is the application name used for display.
const appName = "bipartgen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command. Generation runs directly on
// the root: bipartgen -g pigeon -n 10 -f out.
func (c *CLI) RootCommand() *cobra.Command {
	cfg := defaultConfig()
	var manifestPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "bipartgen generates hard CNF benchmarks from bipartite graphs",
		Long: `bipartgen builds bipartite perfect-matching problems (pigeonhole,
mutilated chessboard, random bipartite graphs) and encodes them as DIMACS
CNF formulas, optionally blocking redundant perfect matchings and emitting
BDD variable-order side files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.BlockProbSet = cmd.Flags().Changed("block-prob")
			if manifestPath != "" {
				if err := applyManifest(manifestPath, cmd.Flags(), cfg); err != nil {
					return err
				}
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			return c.generate(cmd.Context(), cfg)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	cfg.registerFlags(root.Flags())
	root.Flags().StringVarP(&manifestPath, "manifest", "m", "", "TOML manifest with generation options (flags override)")

	return root
}
