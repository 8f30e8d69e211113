package scene

// Color is an 8-bit RGBA display color. Advisory only; the mesh core
// attaches no meaning to it.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Material describes how a renderer should shade an object.
type Material struct {
	Name         string  `json:"name"`
	Diffuse      Color   `json:"diffuse"`
	Specular     Color   `json:"specular"`
	Shininess    float32 `json:"shininess"`
	Transparency float32 `json:"transparency"`
}

// DefaultMaterial returns the neutral gray every new object starts
// with.
func DefaultMaterial() Material {
	return Material{
		Name:      "Default",
		Diffuse:   Color{R: 128, G: 128, B: 128, A: 255},
		Specular:  Color{R: 255, G: 255, B: 255, A: 255},
		Shininess: 32,
	}
}
