package ansimark

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	palette Palette
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{palette: DefaultPalette()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithPalette sets the palette used to resolve "+name" colors. A nil palette
// makes every named color fall back to a reset.
func WithPalette(p Palette) RenderOption {
	return func(cfg *renderConfig) {
		cfg.palette = p
	}
}
