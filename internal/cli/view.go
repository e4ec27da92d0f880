package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gocube/concurrentcube"
	"github.com/gocube/concurrentcube/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view <size> <algorithm>",
	Short: "Apply an algorithm and view the result as colored swatches",
	Args:  cobra.ExactArgs(2),
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}

	c := concurrentcube.New(size)
	if err := c.ApplyNotation(context.Background(), args[1]); err != nil {
		return fmt.Errorf("apply algorithm: %w", err)
	}

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	p := tea.NewProgram(tui.NewModel(size, snap))
	_, err = p.Run()
	return err
}
