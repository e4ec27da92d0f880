package concurrentcube

import "fmt"

// InvalidArgumentError reports a face or layer outside the valid range for
// a given cube. It is distinct from cancellation: callers can use
// errors.As to recognize it as a contract violation rather than a
// transient condition worth retrying.
type InvalidArgumentError struct {
	Arg   string
	Value int
	Size  int
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("concurrentcube: invalid %s %d for cube of size %d", e.Arg, e.Value, e.Size)
}

func invalidFace(face, size int) error {
	return &InvalidArgumentError{Arg: "face", Value: face, Size: size}
}

func invalidLayer(layer, size int) error {
	return &InvalidArgumentError{Arg: "layer", Value: layer, Size: size}
}
