package main

import (
	"encoding/json"
	"flag"
	"os"
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"example.com/level-pattern-monitor/internal/config"
	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/metrics"
	"example.com/level-pattern-monitor/internal/pattern"
	"example.com/level-pattern-monitor/internal/session"
	"example.com/level-pattern-monitor/internal/stoploss"
)

func main() {
	file := flag.String("file", "", "CSV with time,open,high,low,close")
	levelFlag := flag.String("level", "", "price level; overrides LEVEL")
	symbolFlag := flag.String("symbol", "", "symbol; overrides SYMBOL")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("config: load failed")
	}
	logger = logger.Level(cfg.LogLevel)

	if *levelFlag != "" {
		v, err := strconv.ParseFloat(*levelFlag, 64)
		if err != nil {
			logger.Fatal().Err(err).Str("level", *levelFlag).Msg("config: invalid -level")
		}
		cfg.Level = v
	}
	if *symbolFlag != "" {
		cfg.Symbol = *symbolFlag
	}
	if err := cfg.RequireLevel(); err != nil {
		logger.Fatal().Err(err).Msg("config: no level")
	}
	if *file == "" {
		logger.Fatal().Msg("levelscan: -file is required")
	}

	series, err := loadSeries(*file, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("levelscan: load candles failed")
	}

	reg := prometheus.NewRegistry()
	analyzer := pattern.NewAnalyzer(logger, metrics.NewMetrics(reg))
	analyzer.Register(cfg.Patterns()...)

	report := analyzer.Analyze(cfg.Symbol, series, cfg.Level)

	enc := json.NewEncoder(os.Stdout)
	for _, sig := range report.Signals {
		if err := enc.Encode(sig); err != nil {
			logger.Fatal().Err(err).Msg("levelscan: write signal failed")
		}
	}

	logger.Info().
		Str("report", report.ID).
		Str("symbol", cfg.Symbol).
		Float64("level", cfg.Level).
		Int("candles", series.Len()).
		Int("evaluated", report.Evaluated).
		Int("signals", len(report.Signals)).
		Str("moment", session.MomentAt(report.KlineTime).String()).
		Msg("levelscan: analysis complete")

	if atr, err := stoploss.DayATR(series, cfg.AtrSpike.Period); err != nil {
		logger.Debug().Err(err).Msg("stoploss: skipped")
	} else {
		stop := stoploss.FromDayATR(atr)
		logger.Info().
			Float64("atr", atr.Value()).
			Float64("tech_stop", stop.Value()).
			Float64("luft", stop.Luft().Value()).
			Msg("stoploss: derived from ATR")
	}

	logSummary(reg, logger)
}

// loadSeries reads the CSV into a rolling store and returns its snapshot.
// Rows that break time order are skipped.
func loadSeries(path string, cfg *config.Config, logger zerolog.Logger) (kline.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	klines, err := kline.ReadCSV(f, cfg.Symbol)
	if err != nil {
		return nil, err
	}

	return buildSeries(klines, cfg.Symbol, cfg.KlineCount, logger), nil
}

// buildSeries appends klines to a store holding at most count candles and
// returns its snapshot. Out-of-order rows are skipped and a warning is
// logged when older rows fall out of the window.
func buildSeries(klines []kline.Kline, symbol string, count int, logger zerolog.Logger) kline.Series {
	store := kline.NewStore(count, logger)
	accepted := 0
	for _, k := range klines {
		if err := store.Append(k); err != nil {
			logger.Warn().Err(err).Time("open_time", k.OpenTime).Msg("kline: row skipped")
			continue
		}
		accepted++
	}

	if kept := store.KlineCount(symbol); kept < accepted {
		logger.Warn().
			Int("rows", accepted).
			Int("kept", kept).
			Msg("kline: csv truncated to newest rows")
	}

	stats := store.Stats()
	for _, ss := range stats.Symbols {
		logger.Info().
			Str("symbol", ss.Symbol).
			Int("klines", ss.KlineCount).
			Int("max_count", stats.MaxCount).
			Float64("last_close", ss.LastClose).
			Msg("kline: loaded")
	}

	series, ok := store.Snapshot(symbol)
	if !ok {
		return &kline.SliceSeries{}
	}
	return series
}

func logSummary(reg prometheus.Gatherer, logger zerolog.Logger) {
	summary, err := metrics.Summary(reg)
	if err != nil {
		logger.Warn().Err(err).Msg("metrics: gather failed")
		return
	}
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	event := logger.Debug()
	for _, k := range keys {
		event = event.Float64(k, summary[k])
	}
	event.Msg("metrics: summary")
}
