package game

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tuning holds the game constants shared by the relay and its peers.
// Distances are in world units, speeds in units per second and times in
// milliseconds.
type Tuning struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	PaddleWidth  float64 `yaml:"paddle_width"`
	PaddleHeight float64 `yaml:"paddle_height"`
	PaddleInset  float64 `yaml:"paddle_inset"`
	PaddleSpeed  float64 `yaml:"paddle_speed"`
	PaddleAccel  float64 `yaml:"paddle_accel"`
	MaxPaddleVel float64 `yaml:"max_paddle_vel"`

	BallSize  float64 `yaml:"ball_size"`
	BallSpeed float64 `yaml:"ball_speed"`

	Friction             float64 `yaml:"friction"`
	LowFrictionPaddleVel float64 `yaml:"low_friction_paddle_vel"`
	PowerPaddleBallVel   float64 `yaml:"power_paddle_ball_vel"`
	MinEffectMs          float64 `yaml:"min_effect_ms"`
	MaxEffectMs          float64 `yaml:"max_effect_ms"`
	MinEffectIntervalMs  float64 `yaml:"min_effect_interval_ms"`
	MaxEffectIntervalMs  float64 `yaml:"max_effect_interval_ms"`
	EffectAlertMs        float64 `yaml:"effect_alert_ms"`
	AIIntervalMs         float64 `yaml:"ai_interval_ms"`
	MotionIntervalMs     float64 `yaml:"motion_interval_ms"`
	CountdownMs          float64 `yaml:"countdown_ms"`
	RoundPauseMs         float64 `yaml:"round_pause_ms"`
	CollisionWaitMs      float64 `yaml:"collision_wait_ms"`
	WinningScore         int     `yaml:"winning_score"`
	TickRate             int     `yaml:"tick_rate"`
}

// DefaultTuning returns the stock game constants
func DefaultTuning() Tuning {
	return Tuning{
		Width:  960,
		Height: 850,

		PaddleWidth:  25,
		PaddleHeight: 150,
		PaddleInset:  75,
		PaddleSpeed:  450,
		PaddleAccel:  2400,
		MaxPaddleVel: 450,

		BallSize:  50,
		BallSpeed: 420,

		Friction:             0.96,
		LowFrictionPaddleVel: 700,
		PowerPaddleBallVel:   900,
		MinEffectMs:          5000,
		MaxEffectMs:          10000,
		MinEffectIntervalMs:  3000,
		MaxEffectIntervalMs:  8000,
		EffectAlertMs:        1300,
		AIIntervalMs:         250,
		MotionIntervalMs:     50,
		CountdownMs:          3000,
		RoundPauseMs:         1000,
		CollisionWaitMs:      250,
		WinningScore:         5,
		TickRate:             60,
	}
}

// Validate rejects values the simulation cannot run with
func (t Tuning) Validate() error {
	switch {
	case t.Width <= 0 || t.Height <= 0:
		return eris.Errorf("tuning: field %gx%g must be positive", t.Width, t.Height)
	case t.Width > 32767 || t.Height > 32767:
		return eris.Errorf("tuning: field %gx%g does not fit the wire format", t.Width, t.Height)
	case t.PaddleWidth <= 0 || t.PaddleHeight <= 0 || t.BallSize <= 0:
		return eris.New("tuning: paddle and ball sizes must be positive")
	case t.Friction <= 0 || t.Friction >= 1:
		return eris.Errorf("tuning: friction %g must be in (0, 1)", t.Friction)
	case t.MinEffectMs > t.MaxEffectMs || t.MinEffectIntervalMs > t.MaxEffectIntervalMs:
		return eris.New("tuning: effect ranges are inverted")
	case t.WinningScore <= 0 || t.WinningScore > 255:
		return eris.Errorf("tuning: winning score %d must be in [1, 255]", t.WinningScore)
	case t.TickRate <= 0:
		return eris.Errorf("tuning: tick rate %d must be positive", t.TickRate)
	}
	return nil
}

// LoadTuning reads a YAML tuning file. Keys missing from the file keep
// their default value.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, eris.Wrapf(err, "read tuning %s", path)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, eris.Wrapf(err, "parse tuning %s", path)
	}
	if err := t.Validate(); err != nil {
		return t, eris.Wrap(err, path)
	}
	return t, nil
}
