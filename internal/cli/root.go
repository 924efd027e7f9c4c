package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe with move history, undo and redo",
		Long: `tictactoe plays a two-player game of tic-tac-toe on one board.

Every move is kept in a history that can be stepped through with undo and
redo. Play in the terminal with "play", or serve the browser UI with "serve".`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
