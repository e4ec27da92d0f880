package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gocube/concurrentcube/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently admitted operations from the audit log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openAuditDB()
	if err != nil {
		return err
	}
	defer db.Close()

	log := storage.NewAuditLog(db)
	ops, err := log.List(historyLimit)
	if err != nil {
		return err
	}

	if len(ops) == 0 {
		fmt.Println("no operations recorded")
		return nil
	}

	for _, op := range ops {
		switch op.Kind {
		case "rotate":
			fmt.Printf("%s  rotate  face=%d layer=%d plane=%d\n", op.RequestedAt.Format("2006-01-02T15:04:05Z07:00"), *op.Face, *op.Layer, *op.Plane)
		default:
			fmt.Printf("%s  %s\n", op.RequestedAt.Format("2006-01-02T15:04:05Z07:00"), op.Kind)
		}
	}
	return nil
}

func openAuditDB() (*storage.DB, error) {
	if path := getDBPath(); path != "" {
		return storage.Open(path)
	}
	return storage.OpenDefault()
}
