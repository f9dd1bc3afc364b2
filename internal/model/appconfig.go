package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packing settings applied to new projects
	DefaultPadding       float64   `json:"default_padding"`
	DefaultMargin        float64   `json:"default_margin"`
	DefaultAllowRotation bool      `json:"default_allow_rotation"`
	DefaultObjective     Objective `json:"default_objective"`
	DefaultWorkers       int       `json:"default_workers"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPadding:       defaults.Padding,
		DefaultMargin:        defaults.Margin,
		DefaultAllowRotation: defaults.AllowRotation,
		DefaultObjective:     defaults.BestFitBy,
		DefaultWorkers:       defaults.Workers,
		RecentProjects:       []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// PackSettings struct. New projects inherit the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.Padding = c.DefaultPadding
	s.Margin = c.DefaultMargin
	s.AllowRotation = c.DefaultAllowRotation
	s.BestFitBy = c.DefaultObjective
	s.Workers = c.DefaultWorkers
}
