package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/analysis"
	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/jobs"
	"CryptoSentinel/internal/llm"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/store"
)

// wiring builds jobs from the config, sharing one notifier per bot token.
type wiring struct {
	cfg       *config.Config
	logger    logrus.FieldLogger
	chatID    int64
	notifiers map[string]*notifier.TelegramNotifier
	recorder  recorder.Recorder
}

func newWiring(cfg *config.Config, logger logrus.FieldLogger) (*wiring, error) {
	chatID, err := cfg.ChatID()
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder
	fr, err := recorder.NewFileRecorder(cfg.Paths.ReportDir, logger)
	if err != nil {
		logger.WithError(err).Warn("init report recorder failed, using noop")
		rec = recorder.NewNoopRecorder()
	} else {
		rec = fr
	}

	return &wiring{
		cfg:       cfg,
		logger:    logger,
		chatID:    chatID,
		notifiers: make(map[string]*notifier.TelegramNotifier),
		recorder:  rec,
	}, nil
}

func (w *wiring) Close() error {
	return w.recorder.Close()
}

func (w *wiring) notifier(job string) (*notifier.TelegramNotifier, error) {
	token := w.cfg.BotToken(job)
	if tn, ok := w.notifiers[token]; ok {
		return tn, nil
	}
	tn, err := notifier.NewTelegramNotifier(token, w.cfg.Telegram.APIBase, w.cfg.Proxy, w.logger)
	if err != nil {
		return nil, err
	}
	w.notifiers[token] = tn
	return tn, nil
}

func (w *wiring) llm(job string) (llm.Client, int, error) {
	s := w.cfg.LLMFor(job)
	if s == nil {
		return nil, 0, fmt.Errorf("%s has no llm settings", job)
	}
	c, err := llm.New(w.cfg, *s, w.logger.WithField("job", job))
	return c, s.MaxRetries, err
}

func (w *wiring) job(name string) (jobs.Job, error) {
	tn, err := w.notifier(name)
	if err != nil {
		return nil, err
	}
	delivery := jobs.Delivery{Notifier: tn, ChatID: w.chatID}
	logger := w.logger.WithField("job", name)
	cfg := w.cfg

	switch name {
	case config.JobFetch:
		col, err := w.collector(logger)
		if err != nil {
			return nil, err
		}
		return &jobs.FetchJob{
			Collector:   col,
			History:     store.NewHistoryStore(cfg.Paths.HistoryCSV),
			SeriesPath:  cfg.Paths.PriceSeriesCSV,
			OHLCPath:    cfg.Paths.OHLCCSV,
			ChartPath:   cfg.Paths.ChartPNG,
			HistoryDays: cfg.DataSource.HistoryDays,
			OHLCDays:    cfg.DataSource.OHLCDays,
			ChartDays:   cfg.Fetch.ChartDays,
			Indicators:  calculator.DefaultSettings(),
			Delivery:    delivery,
			Logger:      logger,
		}, nil
	}

	client, retries, err := w.llm(name)
	if err != nil {
		return nil, err
	}
	switch name {
	case config.JobCrypto:
		narration := analysis.DefaultSettings()
		narration.Window = cfg.Crypto.Window
		return &jobs.CryptoJob{
			SeriesPath:      cfg.Paths.PriceSeriesCSV,
			OHLCPath:        cfg.Paths.OHLCCSV,
			ChartPath:       cfg.Paths.ChartPNG,
			History:         store.NewHistoryStore(cfg.Paths.HistoryCSV),
			Indicators:      calculator.DefaultSettings(),
			Narration:       narration,
			LastNDays:       cfg.Crypto.LastNDays,
			DominancePeriod: cfg.Crypto.DominancePeriod,
			RangeDays:       cfg.Crypto.RangeDays,
			ADXPeriod:       cfg.Crypto.ADXPeriod,
			LLM:             client,
			MaxRetries:      retries,
			Recorder:        w.recorder,
			Delivery:        delivery,
			Logger:          logger,
		}, nil
	case config.JobQuote:
		return &jobs.QuoteJob{
			Topics:     cfg.Quote.Topics,
			LLM:        client,
			MaxRetries: retries,
			Words:      store.NewWordLog(cfg.Paths.WordLog),
			Delivery:   delivery,
			Logger:     logger,
		}, nil
	case config.JobBusiness:
		return &jobs.BusinessJob{
			Scenarios:     cfg.Business.Scenarios,
			ContextTwists: cfg.Business.ContextTwists,
			LLM:           client,
			MaxRetries:    retries,
			Delivery:      delivery,
			Logger:        logger,
		}, nil
	case config.JobQuiz:
		return &jobs.QuizJob{
			Words:        store.NewWordLog(cfg.Paths.WordLog),
			NWords:       cfg.Quiz.NWords,
			LLM:          client,
			MaxRetries:   retries,
			Replies:      tn,
			WaitForReply: time.Duration(cfg.Quiz.WaitForReplySeconds) * time.Second,
			PollInterval: time.Duration(cfg.Quiz.PollIntervalSeconds) * time.Second,
			Delivery:     delivery,
			Logger:       logger,
		}, nil
	}
	return nil, fmt.Errorf("unknown job %q", name)
}

func (w *wiring) collector(logger logrus.FieldLogger) (*collector.Collector, error) {
	ds := w.cfg.DataSource

	var fetcher collector.Fetcher
	switch ds.Provider {
	case "coingecko":
		fetcher = collector.NewCoinGeckoFetcher(ds.BaseURL, ds.APIKey, ds.CoinID, ds.Symbol, w.cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 60000, Dominance: 55}
	default:
		return nil, fmt.Errorf("unknown data source %q", ds.Provider)
	}
	logger.Infof("data source: %s", fetcher.Name())

	var ohlc collector.OHLCSource
	switch ds.OHLCProvider {
	case "", "coingecko":
	case "yahoo":
		ohlc = collector.NewYahooFetcher(ds.YahooBaseURL, ds.YahooSymbol, w.cfg.Proxy)
		logger.Info("OHLC source: yahoo")
	default:
		return nil, fmt.Errorf("unknown OHLC source %q", ds.OHLCProvider)
	}
	return collector.NewCollector(fetcher, ohlc, logger), nil
}
