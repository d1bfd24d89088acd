// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Video  VideoConfig  `yaml:"video"`
	Raster RasterConfig `yaml:"raster"`
	Log    LogConfig    `yaml:"log"`
}

// VideoConfig holds presentation settings.
type VideoConfig struct {
	Width      int     `yaml:"width"`      // Terminal columns, 0 = autodetect
	Height     int     `yaml:"height"`     // Terminal rows, 0 = autodetect
	FOV        float64 `yaml:"fov"`        // Vertical field of view in degrees
	FPS        int     `yaml:"fps"`        // Target frame rate
	Background string  `yaml:"background"` // Clear color as "R,G,B"
}

// RasterConfig mirrors the render pipeline's settings surface so every
// toggle can be set from the config file. It stays plain data here; the
// viewer converts it into render.RasterSettings.
type RasterConfig struct {
	AffineTextures bool       `yaml:"affine_textures"`
	VertexSnap     bool       `yaml:"vertex_snap"`
	ZBuffer        bool       `yaml:"zbuffer"`
	Shading        string     `yaml:"shading"` // none, flat, gouraud
	BackfaceCull   bool       `yaml:"backface_cull"`
	Dithering      bool       `yaml:"dithering"`
	LightDir       [3]float64 `yaml:"light_dir"` // Normalized at conversion
	Ambient        float64    `yaml:"ambient"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Video: VideoConfig{
			Width:      0,
			Height:     0,
			FOV:        60,
			FPS:        60,
			Background: "30,30,40",
		},
		Raster: RasterConfig{
			AffineTextures: true,
			VertexSnap:     true,
			ZBuffer:        true,
			Shading:        "gouraud",
			BackfaceCull:   true,
			Dithering:      true,
			LightDir:       [3]float64{-1, -1, -1},
			Ambient:        0.3,
		},
		Log: LogConfig{
			Level: "info",
			File:  "bonnie.log",
		},
	}
}
