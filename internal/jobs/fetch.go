package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/chart"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/store"
)

// FetchJob refreshes every market data file and the indicator chart.
type FetchJob struct {
	Collector   *collector.Collector
	History     *store.HistoryStore
	SeriesPath  string
	OHLCPath    string
	ChartPath   string
	HistoryDays int
	OHLCDays    int
	ChartDays   int
	Indicators  calculator.Settings
	Delivery    Delivery
	Logger      logrus.FieldLogger
}

func (j *FetchJob) Name() string { return config.JobFetch }

func (j *FetchJob) Run(ctx context.Context) error {
	if err := j.run(ctx); err != nil {
		j.Delivery.text(ctx, notifier.FormatFailure(j.Name(), err))
		return err
	}
	return nil
}

func (j *FetchJob) run(ctx context.Context) error {
	bundle, err := j.Collector.Collect(ctx, j.HistoryDays, j.OHLCDays)
	if err != nil {
		return err
	}

	if err := j.History.Append(*bundle.Snapshot); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if err := store.WriteOHLC(j.OHLCPath, bundle.OHLC); err != nil {
		return err
	}

	snapshots, err := j.History.ReadAll()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	series, err := collector.Merge(snapshots, bundle.History)
	if err != nil {
		return fmt.Errorf("merge data: %w", err)
	}
	if err := store.WritePriceSeries(j.SeriesPath, series); err != nil {
		return err
	}
	j.Logger.WithFields(logrus.Fields{
		"points": len(series),
		"path":   j.SeriesPath,
	}).Info("price series written")

	if j.ChartPath != "" {
		rows := calculator.Compute(series, j.Indicators)
		if err := chart.Render(rows, j.ChartDays, j.ChartPath); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		j.Logger.WithField("path", j.ChartPath).Info("chart rendered")
	}
	return nil
}
