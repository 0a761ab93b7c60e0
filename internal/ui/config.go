package ui

// Config contains window settings for the debug view.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
	// FramesPerUpdate is how many LCD frames run per Update while not paused.
	FramesPerUpdate int
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.FramesPerUpdate <= 0 {
		c.FramesPerUpdate = 1
	}
}
