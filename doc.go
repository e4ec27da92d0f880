// Package concurrentcube provides a concurrency-safe N×N×N Rubik's cube.
//
// # Features
//
//   - Arbitrary cube size N, not just 3×3×3
//   - Many goroutines may rotate independent planes or take snapshots at
//     once; the package handles all synchronization internally
//   - Bounded-bypass fair admission: no caller waits forever behind a
//     stream of others, and compatible work is batched together rather
//     than serialized one request at a time
//   - context.Context cancellation of a caller still waiting to be admitted
//   - Optional hooks for instrumentation, auditing, and metrics
//
// # Quick Start
//
//	c := concurrentcube.New(3)
//	if err := c.Rotate(context.Background(), 0, 0); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(c.Snapshot(context.Background()))
//
// # Concurrent Use
//
// Any number of goroutines may call Rotate and Snapshot on the same Cube
// concurrently. Two rotations around the same physical plane always
// exclude each other; rotations on independent planes, and any number of
// concurrent snapshots, do not.
package concurrentcube
