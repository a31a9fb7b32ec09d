package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tuidrive/internal/script"
	"tuidrive/internal/session"
)

var (
	flagRows int
	flagCols int
)

var rootCmd = &cobra.Command{
	Use:   "tuidrive <script.lua>",
	Short: "Drive TUI programs from Lua scripts",
	Long: "tuidrive runs a program inside an off-screen terminal and executes a Lua\n" +
		"script against it: send keys and mouse events, wait for text, assert on\n" +
		"cells, capture text or PNG screenshots.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return script.Run(args[0], session.Config{
			Rows: flagRows,
			Cols: flagCols,
		})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().IntVar(&flagRows, "rows", session.DefaultRows, "default terminal rows for started sessions")
	rootCmd.Flags().IntVar(&flagCols, "cols", session.DefaultCols, "default terminal columns for started sessions")
}

// Execute runs the CLI. Any unrecovered script or session failure exits
// non-zero: that is the signal an automated scenario failed.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
