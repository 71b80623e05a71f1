package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixNode     = "node"
	PrefixPoint    = "pt"
	PrefixLine     = "line"
	PrefixPolygon  = "poly"
	PrefixText     = "text"
	PrefixArc      = "arc"
	PrefixBracket  = "brkt"
	PrefixGrid     = "grid"
	PrefixPlot     = "plot"
	PrefixFraction = "frac"
	PrefixBar      = "bar"
	PrefixVertex   = "vtx"
	PrefixEdge     = "edge"
	PrefixSVG      = "svg"
	PrefixWidget   = "gui"
	PrefixAsset    = "asset"
	PrefixExport   = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewNodeID() string   { return New(PrefixNode) }
func NewWidgetID() string { return New(PrefixWidget) }
func NewAssetID() string  { return New(PrefixAsset) }
func NewExportID() string { return New(PrefixExport) }

// Prefix returns the type prefix of id.
func Prefix(id string) (string, error) {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	return parsed.Prefix(), nil
}

func Validate(id, expectedPrefix string) error {
	prefix, err := Prefix(id)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, prefix, id)
	}
	return nil
}
