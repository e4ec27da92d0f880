package concurrentcube

import (
	"context"

	"github.com/gocube/concurrentcube/internal/controller"
	"github.com/gocube/concurrentcube/internal/geom"
	"github.com/gocube/concurrentcube/internal/notation"
)

// Cube is a concurrency-safe N×N×N Rubik's cube. All exported methods may
// be called from any number of goroutines concurrently; the admission
// controller inside serializes and batches access as needed. The zero
// value is not usable; construct with New.
type Cube struct {
	size int
	geo  *geom.Cube
	ctrl *controller.Controller
	cfg  *config
}

// New returns a solved Cube of the given size.
func New(size int, opts ...Option) *Cube {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Cube{
		size: size,
		geo:  geom.New(size),
		ctrl: controller.New(size),
		cfg:  cfg,
	}
	c.ctrl.SetObserver(cfg.metrics)
	return c
}

// Size returns the cube's edge length.
func (c *Cube) Size() int {
	return c.size
}

// Rotate turns the slab of depth `layer` as viewed from `face` one
// quarter turn clockwise. It blocks until admitted by the controller,
// returning early with ctx's error if ctx is done first. face must be in
// [0,6) and layer in [0, Size()); out-of-range values return an
// *InvalidArgumentError without blocking.
func (c *Cube) Rotate(ctx context.Context, face, layer int) error {
	if face < 0 || face >= 6 {
		return invalidFace(face, c.size)
	}
	if layer < 0 || layer >= c.size {
		return invalidLayer(layer, c.size)
	}

	direction := geom.Direction(face)
	plane := geom.Plane(face, direction, layer, c.size)

	if err := c.ctrl.EnterRotate(ctx, direction, plane); err != nil {
		return err
	}
	defer c.ctrl.ExitRotate(direction, plane)

	if err := c.cfg.beforeRotate(face, layer); err != nil {
		return err
	}
	c.geo.RotateLayer(face, layer)
	if err := c.cfg.afterRotate(face, layer); err != nil {
		return err
	}
	c.cfg.audit.LogRotation(face, layer, plane)
	return nil
}

// Snapshot returns a string with one digit 0-5 per facelet, in face order
// 0..5 and row-major order within each face. It blocks until admitted by
// the controller, returning early with ctx's error if ctx is done first.
func (c *Cube) Snapshot(ctx context.Context) (string, error) {
	if err := c.ctrl.EnterSnapshot(ctx); err != nil {
		return "", err
	}
	defer c.ctrl.ExitSnapshot()

	if err := c.cfg.beforeShow(); err != nil {
		return "", err
	}
	s := c.geo.Snapshot()
	if err := c.cfg.afterShow(); err != nil {
		return "", err
	}
	c.cfg.audit.LogSnapshot()
	return s, nil
}

// ApplyNotation parses and applies a whitespace-separated algorithm string
// such as "R U R' F2 3Rw" against the cube, rotating sequentially and
// stopping at the first parse or admission error.
func (c *Cube) ApplyNotation(ctx context.Context, algorithm string) error {
	moves, err := notation.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}
	for _, m := range moves {
		for _, layer := range m.Layers(c.size) {
			for t := 0; t < m.Turns; t++ {
				if err := c.Rotate(ctx, m.Face, layer); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
