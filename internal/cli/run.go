package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gocube/concurrentcube"
	"github.com/gocube/concurrentcube/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run <size> <algorithm>",
	Short: "Apply an algorithm to a fresh cube and print the result",
	Long:  `Build a solved cube of the given size, apply a whitespace-separated algorithm string, and print the resulting snapshot.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}

	var opts []concurrentcube.Option
	db, err := openAuditDB()
	if err != nil {
		if verbose {
			fmt.Printf("audit log unavailable: %v\n", err)
		}
	} else {
		defer db.Close()
		opts = append(opts, concurrentcube.WithAuditLog(storage.NewAuditLog(db)))
	}

	c := concurrentcube.New(size, opts...)
	if err := c.ApplyNotation(context.Background(), args[1]); err != nil {
		return fmt.Errorf("apply algorithm: %w", err)
	}

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if verbose {
		fmt.Printf("size=%d algorithm=%q\n", size, args[1])
	}
	fmt.Println(snap)
	return nil
}
