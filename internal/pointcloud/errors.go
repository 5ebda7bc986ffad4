package pointcloud

import (
	"errors"
	"fmt"
)

// ErrMissingAttribute matches any MissingAttributeError via errors.Is.
var ErrMissingAttribute = errors.New("attribute not found")

// MissingAttributeError reports a requested color or plot column that the
// current point cloud does not carry.
type MissingAttributeError struct {
	Name string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("no %q attribute found", e.Name)
}

func (e *MissingAttributeError) Is(target error) bool { return target == ErrMissingAttribute }

// Require is Scalar with a typed error for absent columns.
func (pc *PointCloud) Require(name string) ([]float32, error) {
	if pc == nil {
		return nil, &MissingAttributeError{Name: name}
	}
	c, ok := pc.Scalar(name)
	if !ok {
		return nil, &MissingAttributeError{Name: name}
	}
	return c, nil
}
