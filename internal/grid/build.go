package grid

import (
	"fmt"
	"strings"
)

// New creates a 2D or 3D grid from a size list of two or three extents.
// loop lists the looping axes as letters, e.g. "x" or "xy".
func New(size []int, loop string) (*Grid, error) {
	var lx, ly, lz bool
	for _, r := range strings.ToLower(loop) {
		switch r {
		case 'x':
			lx = true
		case 'y':
			ly = true
		case 'z':
			lz = true
		default:
			return nil, fmt.Errorf("invalid looping axis %q", r)
		}
	}

	switch len(size) {
	case 2:
		if lz {
			return nil, fmt.Errorf("2D grid cannot loop on z")
		}
		return NewCartesian2D(size[0], size[1], lx, ly)
	case 3:
		return NewCartesian3D(size[0], size[1], size[2], lx, ly, lz)
	}
	return nil, fmt.Errorf("grid size needs 2 or 3 extents, got %d", len(size))
}
