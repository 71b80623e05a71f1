package scene

// Mesh is the renderable payload of a node: path geometry in the node's
// local space plus its paint. StrokeWidth and Dash are in screen pixels.
type Mesh struct {
	Path        Path
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Dash        []float64
}

// NewMesh returns an opaque mesh with the given geometry.
func NewMesh(path Path) *Mesh {
	return &Mesh{Path: path, Opacity: 1}
}

// Filled sets the fill color and returns the mesh.
func (m *Mesh) Filled(color string) *Mesh {
	m.Fill = color
	return m
}

// Stroked sets the stroke color and width and returns the mesh.
func (m *Mesh) Stroked(color string, width float64) *Mesh {
	m.Stroke = color
	m.StrokeWidth = width
	return m
}
