package raster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

var ErrBadColor = errors.New("unrecognized color")

// ParseColor understands #rgb, #rgba, #rrggbb, #rrggbbaa, rgb()/rgba()
// and the SVG color keywords. "none" and "" are reported as not ok.
func ParseColor(s string) (gg.RGBA, bool, error) {
	s = strings.TrimSpace(s)
	low := strings.ToLower(s)
	switch {
	case low == "" || low == "none":
		return gg.RGBA{}, false, nil
	case low == "transparent":
		return gg.RGBA{}, true, nil
	case strings.HasPrefix(low, "#"):
		switch len(low) {
		case 4, 5, 7, 9:
			if _, err := strconv.ParseUint(low[1:], 16, 32); err != nil {
				return gg.RGBA{}, false, fmt.Errorf("%q: %w", s, ErrBadColor)
			}
			return gg.Hex(low), true, nil
		}
		return gg.RGBA{}, false, fmt.Errorf("%q: %w", s, ErrBadColor)
	case strings.HasPrefix(low, "rgb"):
		return parseFunctional(s, low)
	}

	c, ok := colornames.Map[low]
	if !ok {
		return gg.RGBA{}, false, fmt.Errorf("%q: %w", s, ErrBadColor)
	}
	return gg.RGBA{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: float64(c.A) / 255}, true, nil
}

func parseFunctional(s, low string) (gg.RGBA, bool, error) {
	open, end := strings.IndexByte(low, '('), strings.LastIndexByte(low, ')')
	if open < 0 || end < open {
		return gg.RGBA{}, false, fmt.Errorf("%q: %w", s, ErrBadColor)
	}
	parts := strings.FieldsFunc(low[open+1:end], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) != 3 && len(parts) != 4 {
		return gg.RGBA{}, false, fmt.Errorf("%q: %w", s, ErrBadColor)
	}

	ch := make([]float64, 4)
	ch[3] = 1
	for i, p := range parts {
		pct := strings.HasSuffix(p, "%")
		v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return gg.RGBA{}, false, fmt.Errorf("%q: %w", s, ErrBadColor)
		}
		switch {
		case pct:
			v /= 100
		case i < 3:
			v /= 255
		}
		ch[i] = min(max(v, 0), 1)
	}
	return gg.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true, nil
}
