package railgun

import "railgun/pkg/value"

// Resource is something that can be asked to push all of its direct
// children onto a marker. Manager implements it so a garbage collector
// can treat the whole call stack as a single root.
type Resource interface {
	MarkChildren(marker value.Marker)
}

var _ Resource = (*Manager)(nil)
