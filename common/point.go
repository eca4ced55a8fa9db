package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
)

// ParsePoint parses "x,y" and the braced "{x, y}" form written by shape
// editors.
func ParsePoint(s string) (cp.Vector, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return cp.Vector{}, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return cp.Vector{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return cp.Vector{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return cp.Vector{X: x, Y: y}, nil
}
