// Package config loads detector settings from the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/pattern"
	"example.com/level-pattern-monitor/internal/tolerance"
)

// ErrNoLevel is returned when no finite level was configured.
var ErrNoLevel = errors.New("config: LEVEL is required")

// Config holds all settings for a scan.
type Config struct {
	Symbol string
	Level  float64 // NaN when unset

	Bounce      pattern.BounceConfig
	Retest      pattern.RetestConfig
	Participant pattern.LimitParticipantConfig
	Pressure    pattern.PressureBuildupConfig
	SmallBar    pattern.SmallBarConfig
	AtrSpike    pattern.AtrSpikeConfig
	Trend       pattern.TrendConfig

	KlineCount int
	LogLevel   zerolog.Level
}

// Load reads an optional .env file, then the environment. Unset or
// unparsable values fall back to the detector defaults.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("config: no .env file, using environment variables")
	}

	participant := pattern.DefaultLimitParticipantConfig()
	participant.Digits = int32(getEnvInt("LPD_DIGITS", int(participant.Digits)))
	participant.WindowSize = getEnvInt("LPD_WINDOW", participant.WindowSize)
	if points := getEnvInt("LPD_POINTS", 0); points > 0 {
		participant.Tolerance = tolerance.Points(participant.Digits, int64(points))
	} else {
		participant.Tolerance = tolerance.Percent(getEnvPercent("LPD_TOLERANCE_PCT", participant.Tolerance.Fraction))
	}

	retest := pattern.DefaultRetestConfig()
	retest.Tolerance = getEnvPercent("RETEST_TOLERANCE_PCT", retest.Tolerance)
	retest.NearPeriod = getEnvInt("RETEST_NEAR_PERIOD", retest.NearPeriod)
	retest.FarPeriod = getEnvInt("RETEST_FAR_PERIOD", retest.FarPeriod)

	pressure := pattern.DefaultPressureBuildupConfig()
	pressure.Tolerance = getEnvPercent("PRESSURE_TOLERANCE_PCT", pressure.Tolerance)
	pressure.Period = getEnvInt("PRESSURE_PERIOD", pressure.Period)

	bounce := pattern.DefaultBounceConfig()
	bounce.Tolerance = getEnvFloat("BOUNCE_TOLERANCE", bounce.Tolerance)

	smallBar := pattern.DefaultSmallBarConfig()
	smallBar.Period = getEnvInt("SMALLBAR_PERIOD", smallBar.Period)
	smallBar.TuningFactor = getEnvFloat("SMALLBAR_TUNING", smallBar.TuningFactor)

	atrSpike := pattern.DefaultAtrSpikeConfig()
	atrSpike.Period = getEnvInt("ATR_PERIOD", atrSpike.Period)
	atrSpike.Multiplier = getEnvFloat("ATR_MULTIPLIER", atrSpike.Multiplier)

	trend := pattern.DefaultTrendConfig()
	trend.MinConfirmationRatio = getEnvFloat("TREND_MIN_RATIO", trend.MinConfirmationRatio)

	logLevel, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Symbol:      getEnv("SYMBOL", "UNKNOWN"),
		Level:       getEnvFloat("LEVEL", math.NaN()),
		Bounce:      bounce,
		Retest:      retest,
		Participant: participant,
		Pressure:    pressure,
		SmallBar:    smallBar,
		AtrSpike:    atrSpike,
		Trend:       trend,
		KlineCount:  getEnvInt("KLINE_COUNT", kline.DefaultKlineCount),
		LogLevel:    logLevel,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("symbol", cfg.Symbol).
		Float64("level", cfg.Level).
		Int("kline_count", cfg.KlineCount).
		Str("lpd_tolerance", cfg.Participant.Tolerance.String()).
		Msg("config: loaded")

	return cfg, nil
}

// Validate checks every detector configuration. The level is checked
// separately by RequireLevel since the CLI may still override it.
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		c.Bounce, c.Retest, c.Participant, c.Pressure, c.SmallBar, c.AtrSpike, c.Trend,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.KlineCount <= 0 {
		return fmt.Errorf("config: KLINE_COUNT must be positive, got %d", c.KlineCount)
	}
	return nil
}

// RequireLevel fails unless a finite level is set.
func (c *Config) RequireLevel() error {
	if math.IsNaN(c.Level) || math.IsInf(c.Level, 0) {
		return ErrNoLevel
	}
	return nil
}

// Patterns builds every detector in evaluation order: the level window
// detectors first, then the supporting ones.
func (c *Config) Patterns() []pattern.Pattern {
	return []pattern.Pattern{
		pattern.NewBounceFinder(c.Bounce),
		pattern.NewRetestDetector(c.Retest),
		pattern.NewLimitParticipantDetector(c.Participant),
		pattern.NewPressureBuildupDetector(c.Pressure),
		pattern.NewHammerDetector(),
		pattern.NewSmallBarDetector(c.SmallBar),
		pattern.NewAtrSpikeDetector(c.AtrSpike),
		pattern.NewTrendDetector(c.Trend),
		pattern.NewShapeDetector(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if d, ok := getEnvDecimal(key); ok {
		return d.InexactFloat64()
	}
	return defaultValue
}

// getEnvPercent reads a percentage ("2" = 2%) and returns it as a fraction.
func getEnvPercent(key string, defaultFraction float64) float64 {
	if d, ok := getEnvDecimal(key); ok {
		return d.Div(decimal.NewFromInt(100)).InexactFloat64()
	}
	return defaultFraction
}

func getEnvDecimal(key string) (decimal.Decimal, bool) {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}
