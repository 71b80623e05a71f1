// Package glyph lays out text as vector outlines so labels render as ordinary
// path meshes in the scene.
package glyph

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

var ErrInvalidSize = errors.New("glyph size must be positive")

// Glyph is one laid-out character. Path is in layout space: Y up, the first
// line's baseline at y = 0, the text starting at x = 0.
type Glyph struct {
	Rune    rune
	Origin  geom.Vec2
	Advance float64
	Path    scene.Path
}

// Layout is the geometry of a piece of text at a given size (em height, in
// the caller's units).
type Layout struct {
	Text    string
	Size    float64
	Glyphs  []Glyph
	Width   float64
	Ascent  float64
	Descent float64
	Lines   int
	// LineHeight is the baseline-to-baseline distance.
	LineHeight float64
}

// Height is the full extent from the first line's ascent to the last line's
// descent.
func (l *Layout) Height() float64 {
	if l.Lines == 0 {
		return 0
	}
	return l.Ascent + l.Descent + float64(l.Lines-1)*l.LineHeight
}

// Bounds returns the layout box in layout space.
func (l *Layout) Bounds() geom.Rect {
	return geom.R(geom.V2(0, l.Ascent-l.Height()), geom.V2(l.Width, l.Ascent))
}

// Path merges all glyph outlines into one path, translated by offset.
func (l *Layout) Path(offset geom.Vec2) scene.Path {
	var out scene.Path
	m := geom.Translate(offset.X, offset.Y)
	for _, g := range l.Glyphs {
		out = append(out, g.Path.Transform(m)...)
	}
	return out
}

// CenteredPath is Path with the layout box centered on the origin.
func (l *Layout) CenteredPath() scene.Path {
	return l.Path(l.Bounds().Center().Neg())
}

// Service lays out text. Implementations must be safe for concurrent use.
type Service interface {
	Layout(text string, size float64) (*Layout, error)
}

// Poster schedules fn to run on the scene goroutine.
type Poster interface {
	Post(fn func())
}

// Request lays out text on a separate goroutine and delivers the result
// through post, so done always runs on the scene goroutine.
func Request(ctx context.Context, svc Service, text string, size float64, post Poster, done func(*Layout, error)) {
	go func() {
		l, err := svc.Layout(text, size)
		if ctx.Err() != nil {
			return
		}
		post.Post(func() { done(l, err) })
	}()
}

// DefaultCacheSize is the number of layouts a Shaper keeps.
const DefaultCacheSize = 1024

type cacheKey struct {
	text string
	size float64
}

type cacheEntry struct {
	key    cacheKey
	layout *Layout
}

// Shaper lays out text with a single sfnt font and keeps the most recently
// used layouts.
type Shaper struct {
	font       *sfnt.Font
	unitsPerEm float64

	mu         sync.Mutex
	buf        sfnt.Buffer
	cache      map[cacheKey]*list.Element
	lru        *list.List // front = most recent
	maxEntries int
}

// NewShaper parses a TrueType or OpenType font.
func NewShaper(ttf []byte) (*Shaper, error) {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Shaper{
		font:       f,
		unitsPerEm: float64(f.UnitsPerEm()),
		cache:      make(map[cacheKey]*list.Element),
		lru:        list.New(),
		maxEntries: DefaultCacheSize,
	}, nil
}

// NewShaperFromFile loads the font at path, falling back to Go Regular when
// path is empty.
func NewShaperFromFile(path string) (*Shaper, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewShaper(data)
}

var (
	defaultMu     sync.RWMutex
	defaultShaper *Shaper
)

// Default returns the shared shaper used by text that names no service.
// Unless SetDefault was called it uses the Go Regular font.
func Default() *Shaper {
	defaultMu.RLock()
	s := defaultShaper
	defaultMu.RUnlock()
	if s != nil {
		return s
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultShaper == nil {
		s, err := NewShaper(goregular.TTF)
		if err != nil {
			panic(fmt.Sprintf("glyph: embedded font: %v", err))
		}
		defaultShaper = s
	}
	return defaultShaper
}

// SetDefault replaces the shared shaper. Text created earlier keeps its
// shaper.
func SetDefault(s *Shaper) {
	defaultMu.Lock()
	defaultShaper = s
	defaultMu.Unlock()
}

// UseFontFile installs the font at path as the default. An empty path keeps
// the current default.
func UseFontFile(path string) error {
	if path == "" {
		return nil
	}
	s, err := NewShaperFromFile(path)
	if err != nil {
		return err
	}
	SetDefault(s)
	return nil
}

// Layout implements Service.
func (s *Shaper) Layout(text string, size float64) (*Layout, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey{text, size}
	if el, ok := s.cache[key]; ok {
		s.lru.MoveToFront(el)
		return el.Value.(*cacheEntry).layout, nil
	}

	l, err := s.layout(text, size)
	if err != nil {
		return nil, err
	}
	s.cache[key] = s.lru.PushFront(&cacheEntry{key: key, layout: l})
	s.evict()
	return l, nil
}

// SetCacheSize bounds the number of cached layouts, evicting the least
// recently used ones. n < 1 restores DefaultCacheSize.
func (s *Shaper) SetCacheSize(n int) {
	if n < 1 {
		n = DefaultCacheSize
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxEntries = n
	s.evict()
}

// CacheLen returns the number of cached layouts.
func (s *Shaper) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *Shaper) evict() {
	for s.lru.Len() > s.maxEntries {
		el := s.lru.Back()
		s.lru.Remove(el)
		delete(s.cache, el.Value.(*cacheEntry).key)
	}
}

// layout loads outlines in font units and scales them to size.
func (s *Shaper) layout(text string, size float64) (*Layout, error) {
	ppem := fixed.Int26_6(s.unitsPerEm * 64)
	scale := size / s.unitsPerEm

	metrics, err := s.font.Metrics(&s.buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font metrics: %w", err)
	}

	l := &Layout{
		Text:       text,
		Size:       size,
		Ascent:     fromFixed(metrics.Ascent) * scale,
		Descent:    fromFixed(metrics.Descent) * scale,
		LineHeight: fromFixed(metrics.Height) * scale,
	}

	for lineNo, line := range strings.Split(text, "\n") {
		l.Lines++
		baseline := -float64(lineNo) * l.LineHeight
		x := 0.0
		var prev sfnt.GlyphIndex
		for i, r := range line {
			idx, err := s.font.GlyphIndex(&s.buf, r)
			if err != nil {
				return nil, fmt.Errorf("glyph index %q: %w", r, err)
			}
			if idx == 0 {
				slog.Debug("glyph missing from font", "rune", string(r))
			}

			if i > 0 {
				if k, err := s.font.Kern(&s.buf, prev, idx, ppem, font.HintingNone); err == nil {
					x += fromFixed(k) * scale
				}
			}

			adv, err := s.font.GlyphAdvance(&s.buf, idx, ppem, font.HintingNone)
			if err != nil {
				return nil, fmt.Errorf("glyph advance %q: %w", r, err)
			}

			origin := geom.V2(x, baseline)
			path, err := s.outline(idx, ppem, scale, origin)
			if err != nil {
				return nil, fmt.Errorf("glyph outline %q: %w", r, err)
			}

			advance := fromFixed(adv) * scale
			l.Glyphs = append(l.Glyphs, Glyph{Rune: r, Origin: origin, Advance: advance, Path: path})
			x += advance
			prev = idx
		}
		l.Width = max(l.Width, x)
	}
	return l, nil
}

// outline converts sfnt segments (Y down) into a Y-up path at origin.
func (s *Shaper) outline(idx sfnt.GlyphIndex, ppem fixed.Int26_6, scale float64, origin geom.Vec2) (scene.Path, error) {
	segments, err := s.font.LoadGlyph(&s.buf, idx, ppem, nil)
	if err != nil {
		return nil, err
	}

	pt := func(p fixed.Point26_6) geom.Vec2 {
		return geom.V2(origin.X+fromFixed(p.X)*scale, origin.Y-fromFixed(p.Y)*scale)
	}

	var path scene.Path
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				path.Close()
			}
			path.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			path.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			path.QuadTo(pt(seg.Args[0]), pt(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			path.CubicTo(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	if open {
		path.Close()
	}
	return path, nil
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
