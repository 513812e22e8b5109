package carousel

import "time"

// Config holds the controller's fixed timings.
type Config struct {
	Name           string
	PageSize       int
	ExitDuration   time.Duration // Delay before the new page is swapped in
	EnterDuration  time.Duration // Entrance animation length
	AutoPlay       bool          // Auto-play state applied by Start
	AutoPlayPeriod time.Duration
	AutoPlayGrace  time.Duration // Delay before auto-play restarts after manual paging
	RenderTimeout  time.Duration
}

// DefaultConfig returns the timings used by the marketing site.
func DefaultConfig() Config {
	return Config{
		Name:           "testimonials",
		PageSize:       1,
		ExitDuration:   400 * time.Millisecond,
		EnterDuration:  400 * time.Millisecond,
		AutoPlay:       true,
		AutoPlayPeriod: 8 * time.Second,
		AutoPlayGrace:  time.Second,
		RenderTimeout:  2 * time.Second,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.PageSize <= 0 {
		c.PageSize = 1
	}
	if c.ExitDuration < 0 {
		c.ExitDuration = 0
	}
	if c.EnterDuration < 0 {
		c.EnterDuration = 0
	}
	if c.AutoPlayPeriod <= 0 {
		c.AutoPlayPeriod = d.AutoPlayPeriod
	}
	if c.AutoPlayGrace < 0 {
		c.AutoPlayGrace = 0
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = d.RenderTimeout
	}
	return c
}
