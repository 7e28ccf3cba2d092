package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/analysis"
	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/llm"
	"CryptoSentinel/internal/logging"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/store"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testIndicators() calculator.Settings {
	s := calculator.DefaultSettings()
	s.ShortWindow, s.LongWindow = 5, 20
	return s
}

type marketFiles struct {
	dir, history, series, ohlc, chart string
}

func newMarketFiles(t *testing.T) marketFiles {
	dir := t.TempDir()
	return marketFiles{
		dir:     dir,
		history: filepath.Join(dir, "data", "btc_data.csv"),
		series:  filepath.Join(dir, "data", "historical_data.csv"),
		ohlc:    filepath.Join(dir, "data", "ohlc_data.csv"),
		chart:   filepath.Join(dir, "data", "crypto_indicators.png"),
	}
}

func newFetchJob(f marketFiles, fetcher collector.Fetcher, n *fakeNotifier) *FetchJob {
	logger := logging.Discard()
	return &FetchJob{
		Collector:   collector.NewCollector(fetcher, nil, logger),
		History:     store.NewHistoryStore(f.history),
		SeriesPath:  f.series,
		OHLCPath:    f.ohlc,
		ChartPath:   f.chart,
		HistoryDays: 60,
		OHLCDays:    40,
		ChartDays:   45,
		Indicators:  testIndicators(),
		Delivery:    Delivery{Notifier: n, ChatID: 42},
		Logger:      logger,
	}
}

func TestFetchJob_WritesAllFiles(t *testing.T) {
	f := newMarketFiles(t)
	n := &fakeNotifier{}
	fetcher := &collector.MockFetcher{Price: 60000, Dominance: 55, Now: func() time.Time { return fixedNow }}

	require.NoError(t, newFetchJob(f, fetcher, n).Run(context.Background()))

	history, err := store.NewHistoryStore(f.history).ReadAll()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 55.0, history[0].Dominance)

	series, err := store.ReadPriceSeries(f.series)
	require.NoError(t, err)
	require.Len(t, series, 60)
	assert.Equal(t, 60000.0, series[59].Price)
	assert.Equal(t, 55.0, series[59].Dominance)
	assert.Zero(t, series[0].Dominance)

	bars, err := store.ReadOHLC(f.ohlc)
	require.NoError(t, err)
	assert.Len(t, bars, 40)

	_, err = os.Stat(f.chart)
	assert.NoError(t, err)
	assert.Empty(t, n.texts)
}

func TestFetchJob_FailureNotifiesAndAborts(t *testing.T) {
	f := newMarketFiles(t)
	n := &fakeNotifier{}

	err := newFetchJob(f, failingFetcher{}, n).Run(context.Background())
	require.Error(t, err)

	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "⚠️ fetch job failed: fetch historical price data")
	_, statErr := os.Stat(f.history)
	assert.True(t, os.IsNotExist(statErr))
}

func newCryptoJob(t *testing.T, f marketFiles, client llm.Client, n *fakeNotifier) *CryptoJob {
	logger := logging.Discard()
	rec, err := recorder.NewFileRecorder(filepath.Join(f.dir, "reports"), logger)
	require.NoError(t, err)
	return &CryptoJob{
		SeriesPath:      f.series,
		OHLCPath:        f.ohlc,
		ChartPath:       f.chart,
		History:         store.NewHistoryStore(f.history),
		Indicators:      testIndicators(),
		Narration:       analysis.DefaultSettings(),
		LastNDays:       10,
		DominancePeriod: 30,
		RangeDays:       30,
		ADXPeriod:       14,
		LLM:             client,
		MaxRetries:      3,
		Recorder:        rec,
		Delivery:        Delivery{Notifier: n, ChatID: 42},
		Logger:          logger,
		Now:             func() time.Time { return fixedNow },
	}
}

func TestCryptoJob_SendsReportAndChart(t *testing.T) {
	f := newMarketFiles(t)
	n := &fakeNotifier{}
	fetcher := &collector.MockFetcher{Price: 60000, Dominance: 55, Now: func() time.Time { return fixedNow }}
	require.NoError(t, newFetchJob(f, fetcher, &fakeNotifier{}).Run(context.Background()))

	client := &fakeLLM{
		response: "Hold and accumulate slowly.",
		usage:    &model.TokenUsage{InputTokens: 900, OutputTokens: 100, TotalTokens: 1000},
	}
	require.NoError(t, newCryptoJob(t, f, client, n).Run(context.Background()))

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "HISTORICAL_DATA:")
	assert.Contains(t, client.prompts[0], "BTC_DATA:")
	assert.Contains(t, client.prompts[0], "Technical Analysis Summary:")
	assert.Contains(t, client.prompts[0], "Market regime:")

	require.Len(t, n.texts, 1)
	text := n.texts[0]
	assert.Contains(t, text, "Hold and accumulate slowly.")
	assert.Contains(t, text, "Current Price: $60,000")
	assert.Contains(t, text, "Suggested Purchase: $")
	assert.Contains(t, text, "BTC Dominance: 55.00%")
	assert.Contains(t, text, "LLM: fake-model")

	require.Len(t, n.images, 1)
	assert.Equal(t, sentImage{f.chart, ChartCaption}, n.images[0])

	archived, err := os.ReadFile(filepath.Join(f.dir, "reports", "report_2024-06-01.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(archived), "Hold and accumulate slowly.")
}

func TestCryptoJob_MissingSeriesIsFatal(t *testing.T) {
	f := newMarketFiles(t)
	n := &fakeNotifier{}
	client := &fakeLLM{response: "unused"}

	err := newCryptoJob(t, f, client, n).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, client.prompts)
	assert.Empty(t, n.texts)
}

func TestCryptoJob_LLMFailureAborts(t *testing.T) {
	f := newMarketFiles(t)
	n := &fakeNotifier{}
	fetcher := &collector.MockFetcher{Price: 60000, Dominance: 55, Now: func() time.Time { return fixedNow }}
	require.NoError(t, newFetchJob(f, fetcher, &fakeNotifier{}).Run(context.Background()))

	client := &fakeLLM{err: llm.ErrRetriesExhausted}
	err := newCryptoJob(t, f, client, n).Run(context.Background())
	assert.ErrorIs(t, err, llm.ErrRetriesExhausted)
	assert.Empty(t, n.texts)
	assert.Empty(t, n.images)
}
