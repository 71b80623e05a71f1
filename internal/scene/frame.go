package scene

import (
	"encoding/json"

	"github.com/graphica/graphica/internal/geom"
)

// DrawCommand is a single drawing operation for a host to execute. Paths are
// already in screen pixels, so hosts draw them with an identity transform.
type DrawCommand struct {
	Op          string    `json:"op"`                    // "path"
	ObjectID    string    `json:"objectId,omitempty"`    // For hit correlation
	Path        Path      `json:"path,omitempty"`        // Screen-space geometry
	Fill        string    `json:"fill,omitempty"`        // Fill color
	Stroke      string    `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64   `json:"strokeWidth,omitempty"` // Stroke width in pixels
	Opacity     float64   `json:"opacity"`               // Global alpha, 0 draws nothing
	Dash        []float64 `json:"dash,omitempty"`        // Line dash in pixels
}

// CompileDrawCommands walks the scene graph in painter's order (back to
// front) and emits a draw command for every visible mesh.
func CompileDrawCommands(root *Node, cam *Camera) []DrawCommand {
	if root == nil {
		return nil
	}

	var commands []DrawCommand
	compileNode(root, cam.ViewMatrix(), geom.Identity(), &commands)
	return commands
}

func compileNode(node *Node, view, parentWorld geom.Matrix2D, commands *[]DrawCommand) {
	if node == nil || !node.Visible {
		return
	}

	world := parentWorld.Multiply(node.LocalMatrix())

	if m := node.Mesh; m != nil && len(m.Path) > 0 && (m.Fill != "" || m.Stroke != "") {
		*commands = append(*commands, DrawCommand{
			Op:          "path",
			ObjectID:    node.ID,
			Path:        m.Path.Transform(view.Multiply(world)),
			Fill:        m.Fill,
			Stroke:      m.Stroke,
			StrokeWidth: m.StrokeWidth,
			Opacity:     m.Opacity,
			Dash:        m.Dash,
		})
	}

	for _, child := range node.drawOrder() {
		compileNode(child, view, world, commands)
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
