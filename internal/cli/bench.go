package cli

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gocube/concurrentcube"
	"github.com/gocube/concurrentcube/internal/geom"
	"github.com/gocube/concurrentcube/internal/metrics"
)

var benchRounds int

var benchCmd = &cobra.Command{
	Use:   "bench <size> <workers>",
	Short: "Hammer a cube with concurrent rotations and report peak concurrency",
	Long:  `Spawn <workers> goroutines rotating random planes and taking snapshots concurrently, and report the highest number of admitted operations observed at once per conflict group and per plane.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchRounds, "rounds", 200, "operations performed by each worker")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}
	workers, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid worker count %q: %w", args[1], err)
	}

	inFlightByGroup := make([]atomic.Int64, 4)
	peakByGroup := make([]atomic.Int64, 4)
	inFlightByPlane := make([]atomic.Int64, size)
	peakByPlane := make([]atomic.Int64, size)

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	c := concurrentcube.New(size,
		concurrentcube.WithMetrics(rec),
		concurrentcube.WithBeforeRotate(func(face, layer int) error {
			d := geom.Direction(face)
			p := geom.Plane(face, d, layer, size)
			bumpPeak(&inFlightByGroup[d], &peakByGroup[d], 1)
			bumpPeak(&inFlightByPlane[p], &peakByPlane[p], 1)
			return nil
		}),
		concurrentcube.WithAfterRotate(func(face, layer int) error {
			d := geom.Direction(face)
			p := geom.Plane(face, d, layer, size)
			inFlightByGroup[d].Add(-1)
			inFlightByPlane[p].Add(-1)
			return nil
		}),
		concurrentcube.WithBeforeShow(func() error {
			bumpPeak(&inFlightByGroup[concurrentcubeSnapshotGroup], &peakByGroup[concurrentcubeSnapshotGroup], 1)
			return nil
		}),
		concurrentcube.WithAfterShow(func() error {
			inFlightByGroup[concurrentcubeSnapshotGroup].Add(-1)
			return nil
		}),
	)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w) + 1))
			for i := 0; i < benchRounds; i++ {
				if rng.Intn(5) == 0 {
					if _, err := c.Snapshot(context.Background()); err != nil {
						return err
					}
					continue
				}
				face := rng.Intn(6)
				layer := rng.Intn(size)
				if err := c.Rotate(context.Background(), face, layer); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("bench worker failed: %w", err)
	}

	fmt.Printf("size=%d workers=%d rounds/worker=%d\n", size, workers, benchRounds)
	fmt.Println("peak concurrency by direction group (0,1,2) and snapshot group (3):")
	for i := range peakByGroup {
		fmt.Printf("  group %d: %d\n", i, peakByGroup[i].Load())
	}
	fmt.Println("peak concurrency by plane:")
	for i := range peakByPlane {
		fmt.Printf("  plane %d: %d\n", i, peakByPlane[i].Load())
	}
	printAdmissionCounters(reg)
	return nil
}

// printAdmissionCounters gathers the registered admission counters and
// prints their per-label totals, the way an operator would read them off
// a /metrics endpoint without needing to scrape one for a one-shot run.
func printAdmissionCounters(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		fmt.Println("metrics: gather failed:", err)
		return
	}
	fmt.Println("admission counters:")
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			var group string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "group" {
					group = lp.GetValue()
				}
			}
			fmt.Printf("  %s{group=%s} %.0f\n", fam.GetName(), group, m.GetCounter().GetValue())
		}
	}
}

// concurrentcubeSnapshotGroup mirrors controller.SnapshotGroup without
// importing the internal controller package from the CLI layer.
const concurrentcubeSnapshotGroup = 3

func bumpPeak(inFlight, peak *atomic.Int64, delta int64) {
	n := inFlight.Add(delta)
	for {
		cur := peak.Load()
		if n <= cur || peak.CompareAndSwap(cur, n) {
			return
		}
	}
}
