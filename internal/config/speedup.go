package config

// SpeedUpConfig raises the frame rate as the score grows.
type SpeedUpConfig struct {
	Every  int `yaml:"every"`   // points per step, 0 disables
	Step   int `yaml:"step"`    // fps added per step
	MaxFPS int `yaml:"max_fps"` // upper bound, 0 means no bound
}

// Enabled reports whether the rate changes with the score.
func (s SpeedUpConfig) Enabled() bool {
	return s.Every > 0 && s.Step > 0
}

// Rate returns the frame rate for the given score.
func (s SpeedUpConfig) Rate(baseFPS, score int) int {
	if !s.Enabled() || score <= 0 {
		return baseFPS
	}
	fps := baseFPS + (score/s.Every)*s.Step
	if s.MaxFPS > 0 && fps > s.MaxFPS {
		fps = max(s.MaxFPS, baseFPS)
	}
	return fps
}
