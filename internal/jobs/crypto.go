package jobs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/analysis"
	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/llm"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/store"
)

// ChartCaption is the caption of the indicator chart image.
const ChartCaption = "Crypto Indicators Chart"

// CryptoJob produces the daily trading report from the stored price series.
type CryptoJob struct {
	SeriesPath      string
	OHLCPath        string
	ChartPath       string
	History         *store.HistoryStore
	Indicators      calculator.Settings
	Narration       analysis.Settings
	LastNDays       int
	DominancePeriod int
	RangeDays       int
	ADXPeriod       int
	LLM             llm.Client
	MaxRetries      int
	Recorder        recorder.Recorder
	Delivery        Delivery
	Logger          logrus.FieldLogger
	Now             func() time.Time
}

func (j *CryptoJob) Name() string { return config.JobCrypto }

func (j *CryptoJob) Run(ctx context.Context) error {
	points, err := store.ReadPriceSeries(j.SeriesPath)
	if err != nil {
		return fmt.Errorf("load price series: %w", err)
	}
	if len(points) == 0 {
		return fmt.Errorf("load price series: %s is empty", j.SeriesPath)
	}
	bars, err := store.ReadOHLC(j.OHLCPath)
	if err != nil {
		return fmt.Errorf("load OHLC data: %w", err)
	}

	rows := calculator.Compute(points, j.Indicators)
	regime := calculator.DetectRegime(bars, j.ADXPeriod)
	lines := analysis.Narrate(rows, regime, j.Narration)
	summary := analysis.Summary(lines)
	j.Logger.WithField("regime", regime.Kind).Info("technical analysis done")

	last := points[len(points)-1]
	snap := j.latestSnapshot(last)

	prompt := analysis.TradingPrompt(rows, snap, summary, j.LastNDays)
	advice, usage, err := j.LLM.Converse(ctx, prompt, j.MaxRetries)
	if err != nil {
		return fmt.Errorf("trading advice: %w", err)
	}

	meanDom, err := calculator.MeanDominance(model.Dominances(points), j.DominancePeriod)
	if err != nil {
		return fmt.Errorf("mean dominance: %w", err)
	}
	purchase, err := calculator.PurchaseAmount(rows[len(rows)-1].MALong, last.Price, meanDom, snap.Dominance)
	if err != nil {
		return fmt.Errorf("purchase amount: %w", err)
	}

	report := notifier.TradingReport{
		Advice:       advice,
		CurrentPrice: last.Price,
		Purchase:     purchase,
		Summary:      summary,
		Dominance:    snap.Dominance,
		Model:        j.LLM.ModelID(),
		Usage:        usage,
	}
	if high, low, err := calculator.PriceRange(model.Prices(points), j.RangeDays); err == nil {
		pos, _ := calculator.RangePosition(last.Price, high, low)
		report.RangeDays, report.RangeHigh, report.RangeLow, report.RangePosition = j.RangeDays, high, low, pos
	}
	text := notifier.FormatTradingReport(report)

	if err := j.Recorder.RecordReport(&model.Report{
		Job:         j.Name(),
		Text:        text,
		Model:       report.Model,
		Usage:       usage,
		GeneratedAt: j.now(),
	}); err != nil {
		j.Logger.WithError(err).Error("record report")
	}

	j.Delivery.text(ctx, text)
	if _, err := os.Stat(j.ChartPath); err == nil {
		j.Delivery.image(ctx, j.ChartPath, ChartCaption)
	} else {
		j.Logger.WithField("path", j.ChartPath).Warn("chart not found, skipping image")
	}
	j.Logger.WithField("purchase", purchase).Info("crypto report sent")
	return nil
}

// latestSnapshot prefers the last stored market snapshot and falls back to
// the last price series sample.
func (j *CryptoJob) latestSnapshot(last model.PricePoint) *model.Snapshot {
	snap := &model.Snapshot{Date: last.Date, CurrentPrice: last.Price, Dominance: last.Dominance}
	if j.History == nil {
		return snap
	}
	history, err := j.History.ReadAll()
	if err != nil || len(history) == 0 {
		j.Logger.WithError(err).Warn("no stored snapshot, using price series")
		return snap
	}
	latest := history[len(history)-1]
	latest.CurrentPrice = last.Price
	if last.Dominance > 0 {
		latest.Dominance = last.Dominance
	}
	return &latest
}

func (j *CryptoJob) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}
