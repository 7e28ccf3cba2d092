package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Job names.
const (
	JobFetch    = "fetch"
	JobCrypto   = "crypto"
	JobQuote    = "quote"
	JobBusiness = "business"
	JobQuiz     = "quiz"
)

// Jobs lists every job in registration order.
var Jobs = []string{JobFetch, JobCrypto, JobQuote, JobBusiness, JobQuiz}

// Provider selects an LLM backend.
type Provider string

const (
	ProviderAzure      Provider = "AZURE"
	ProviderOpenRouter Provider = "OPEN_ROUTER"
)

// LLMSettings are the per-job generation parameters.
type LLMSettings struct {
	Provider        Provider `yaml:"provider"`
	AzureModel      string   `yaml:"azure_model"`
	OpenRouterModel string   `yaml:"open_router_model"`
	SystemMessage   string   `yaml:"system_message"`
	Temperature     *float64 `yaml:"temperature"`
	TopP            *float64 `yaml:"top_p"`
	MaxTokens       int      `yaml:"max_tokens"`
	MaxRetries      int      `yaml:"max_retries"`
}

// ModelID returns the model identifier for the selected provider.
func (s LLMSettings) ModelID() string {
	if s.Provider == ProviderAzure {
		return s.AzureModel
	}
	return s.OpenRouterModel
}

// Sampling returns temperature and top_p. Unset values read as zero.
func (s LLMSettings) Sampling() (temperature, topP float64) {
	if s.Temperature != nil {
		temperature = *s.Temperature
	}
	if s.TopP != nil {
		topP = *s.TopP
	}
	return temperature, topP
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		APIBase  string `yaml:"api_base"`
	} `yaml:"telegram"`
	LLM struct {
		Azure struct {
			Endpoint   string `yaml:"endpoint"`
			APIKey     string `yaml:"api_key"`
			APIVersion string `yaml:"api_version"`
		} `yaml:"azure"`
		OpenRouter struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"open_router"`
		RetryBaseDelayMS int `yaml:"retry_base_delay_ms"`
		TimeoutSeconds   int `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	DataSource struct {
		Provider     string `yaml:"provider"`
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		CoinID       string `yaml:"coin_id"`
		Symbol       string `yaml:"symbol"`
		OHLCProvider string `yaml:"ohlc_provider"`
		YahooBaseURL string `yaml:"yahoo_base_url"`
		YahooSymbol  string `yaml:"yahoo_symbol"`
		HistoryDays  int    `yaml:"history_days"`
		OHLCDays     int    `yaml:"ohlc_days"`
	} `yaml:"data_source"`
	Paths struct {
		HistoryCSV     string `yaml:"history_csv"`
		PriceSeriesCSV string `yaml:"price_series_csv"`
		OHLCCSV        string `yaml:"ohlc_csv"`
		ChartPNG       string `yaml:"chart_png"`
		WordLog        string `yaml:"word_log"`
		ReportDir      string `yaml:"report_dir"`
	} `yaml:"paths"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Fetch struct {
		Cron      string `yaml:"cron"`
		BotToken  string `yaml:"bot_token"`
		ChartDays int    `yaml:"chart_days"`
	} `yaml:"fetch"`
	Crypto struct {
		Cron            string      `yaml:"cron"`
		BotToken        string      `yaml:"bot_token"`
		LLM             LLMSettings `yaml:"llm"`
		LastNDays       int         `yaml:"last_n_days"`
		Window          int         `yaml:"window"`
		DominancePeriod int         `yaml:"dominance_period"`
		RangeDays       int         `yaml:"range_days"`
		ADXPeriod       int         `yaml:"adx_period"`
	} `yaml:"crypto"`
	Quote struct {
		Cron     string      `yaml:"cron"`
		BotToken string      `yaml:"bot_token"`
		LLM      LLMSettings `yaml:"llm"`
		Topics   []string    `yaml:"topics"`
	} `yaml:"quote"`
	Business struct {
		Cron          string      `yaml:"cron"`
		BotToken      string      `yaml:"bot_token"`
		LLM           LLMSettings `yaml:"llm"`
		Scenarios     []string    `yaml:"scenarios"`
		ContextTwists []string    `yaml:"context_twists"`
	} `yaml:"business"`
	Quiz struct {
		Cron                string      `yaml:"cron"`
		BotToken            string      `yaml:"bot_token"`
		LLM                 LLMSettings `yaml:"llm"`
		NWords              int         `yaml:"n_words"`
		WaitForReplySeconds int         `yaml:"wait_for_reply_seconds"`
		PollIntervalSeconds int         `yaml:"poll_interval_seconds"`
	} `yaml:"quiz"`
	Proxy      string `yaml:"proxy"`
	RunOnStart bool   `yaml:"run_on_start"`
}

// Load reads config from a YAML file, loads the optional .env file, then
// applies environment variable overrides and defaults.
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_USER_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("BTC_BOT_TOKEN"); v != "" {
		c.Crypto.BotToken = v
		c.Fetch.BotToken = v
	}
	if v := os.Getenv("QOTD_BOT_TOKEN"); v != "" {
		c.Quote.BotToken = v
		c.Quiz.BotToken = v
	}
	if v := os.Getenv("BUSINESS_BOT_TOKEN"); v != "" {
		c.Business.BotToken = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		c.LLM.Azure.APIKey = v
	}
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		c.LLM.Azure.Endpoint = v
	}
	if v := os.Getenv("OPEN_ROUTER_API_KEY"); v != "" {
		c.LLM.OpenRouter.APIKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RunOnStart = b
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.LLM.Azure.APIVersion == "" {
		c.LLM.Azure.APIVersion = "2024-02-01"
	}
	if c.LLM.OpenRouter.BaseURL == "" {
		c.LLM.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.LLM.RetryBaseDelayMS == 0 {
		c.LLM.RetryBaseDelayMS = 1000
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 120
	}

	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "coingecko"
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.DataSource.CoinID == "" {
		c.DataSource.CoinID = "bitcoin"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "btc"
	}
	if c.DataSource.OHLCProvider == "" {
		c.DataSource.OHLCProvider = "coingecko"
	}
	if c.DataSource.YahooBaseURL == "" {
		c.DataSource.YahooBaseURL = "https://query1.finance.yahoo.com"
	}
	if c.DataSource.YahooSymbol == "" {
		c.DataSource.YahooSymbol = "BTC-USD"
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 365
	}
	if c.DataSource.OHLCDays == 0 {
		c.DataSource.OHLCDays = 30
	}

	if c.Paths.HistoryCSV == "" {
		c.Paths.HistoryCSV = "data/btc_data.csv"
	}
	if c.Paths.PriceSeriesCSV == "" {
		c.Paths.PriceSeriesCSV = "data/historical_data.csv"
	}
	if c.Paths.OHLCCSV == "" {
		c.Paths.OHLCCSV = "data/ohlc_data.csv"
	}
	if c.Paths.ChartPNG == "" {
		c.Paths.ChartPNG = "data/crypto_indicators.png"
	}
	if c.Paths.WordLog == "" {
		c.Paths.WordLog = "data/words_of_the_day.txt"
	}
	if c.Paths.ReportDir == "" {
		c.Paths.ReportDir = "reports"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Fetch.Cron == "" {
		c.Fetch.Cron = "0 0 7 * * *"
	}
	if c.Fetch.ChartDays == 0 {
		c.Fetch.ChartDays = 180
	}

	if c.Crypto.Cron == "" {
		c.Crypto.Cron = "0 15 7 * * *"
	}
	if c.Crypto.LastNDays == 0 {
		c.Crypto.LastNDays = 50
	}
	if c.Crypto.Window == 0 {
		c.Crypto.Window = 3
	}
	if c.Crypto.DominancePeriod == 0 {
		c.Crypto.DominancePeriod = 30
	}
	if c.Crypto.RangeDays == 0 {
		c.Crypto.RangeDays = 30
	}
	if c.Crypto.ADXPeriod == 0 {
		c.Crypto.ADXPeriod = 14
	}
	c.Crypto.LLM.applyDefaults(ProviderAzure, 0.3, 0.7, cryptoSystemMessage)

	if c.Quote.Cron == "" {
		c.Quote.Cron = "0 0 8 * * *"
	}
	if len(c.Quote.Topics) == 0 {
		c.Quote.Topics = append([]string(nil), defaultTopics...)
	}
	c.Quote.LLM.applyDefaults(ProviderOpenRouter, 0.4, 1.0, quoteSystemMessage)

	if c.Business.Cron == "" {
		c.Business.Cron = "0 0 9 * * 1-5"
	}
	if len(c.Business.Scenarios) == 0 {
		c.Business.Scenarios = append([]string(nil), defaultScenarios...)
	}
	if len(c.Business.ContextTwists) == 0 {
		c.Business.ContextTwists = append([]string(nil), defaultContextTwists...)
	}
	c.Business.LLM.applyDefaults(ProviderOpenRouter, 0.4, 1.0, businessSystemMessage)

	if c.Quiz.Cron == "" {
		c.Quiz.Cron = "0 0 19 * * 0"
	}
	if c.Quiz.NWords == 0 {
		c.Quiz.NWords = 4
	}
	if c.Quiz.WaitForReplySeconds == 0 {
		c.Quiz.WaitForReplySeconds = 3600
	}
	if c.Quiz.PollIntervalSeconds == 0 {
		c.Quiz.PollIntervalSeconds = 10
	}
	c.Quiz.LLM.applyDefaults(ProviderOpenRouter, 0.4, 1.0, quizSystemMessage)
}

func (s *LLMSettings) applyDefaults(provider Provider, temperature, topP float64, system string) {
	s.Provider = Provider(strings.ToUpper(strings.TrimSpace(string(s.Provider))))
	if s.Provider == "" {
		s.Provider = provider
	}
	if s.AzureModel == "" {
		s.AzureModel = "gpt-4o"
	}
	if s.OpenRouterModel == "" {
		s.OpenRouterModel = "deepseek/deepseek-chat-v3-0324:free"
	}
	if s.SystemMessage == "" {
		s.SystemMessage = system
	}
	if s.Temperature == nil {
		s.Temperature = &temperature
	}
	if s.TopP == nil {
		s.TopP = &topP
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 4096
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = 3
	}
}

// BotToken returns the Telegram bot token a job sends with, falling back to
// the shared telegram.bot_token.
func (c *Config) BotToken(job string) string {
	var token string
	switch job {
	case JobFetch:
		token = c.Fetch.BotToken
	case JobCrypto:
		token = c.Crypto.BotToken
	case JobQuote:
		token = c.Quote.BotToken
	case JobBusiness:
		token = c.Business.BotToken
	case JobQuiz:
		token = c.Quiz.BotToken
	}
	if token == "" {
		return c.Telegram.BotToken
	}
	return token
}

// LLMFor returns the LLM settings of a job, or nil for jobs without one.
func (c *Config) LLMFor(job string) *LLMSettings {
	switch job {
	case JobCrypto:
		return &c.Crypto.LLM
	case JobQuote:
		return &c.Quote.LLM
	case JobBusiness:
		return &c.Business.LLM
	case JobQuiz:
		return &c.Quiz.LLM
	}
	return nil
}

// Cron returns the schedule of a job.
func (c *Config) Cron(job string) string {
	switch job {
	case JobFetch:
		return c.Fetch.Cron
	case JobCrypto:
		return c.Crypto.Cron
	case JobQuote:
		return c.Quote.Cron
	case JobBusiness:
		return c.Business.Cron
	case JobQuiz:
		return c.Quiz.Cron
	}
	return ""
}

// Validate checks that everything a job needs is set.
func (c *Config) Validate(job string) error {
	known := false
	for _, j := range Jobs {
		if j == job {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown job %q", job)
	}

	if c.BotToken(job) == "" {
		return fmt.Errorf("%s: telegram bot token is required", job)
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
		return fmt.Errorf("telegram.chat_id must be numeric: %w", err)
	}

	if s := c.LLMFor(job); s != nil {
		if err := c.validateLLM(job, s); err != nil {
			return err
		}
	}

	switch job {
	case JobBusiness:
		if len(c.Business.Scenarios) == 0 || len(c.Business.ContextTwists) == 0 {
			return errors.New("business: scenarios and context_twists are required")
		}
	case JobQuote:
		if len(c.Quote.Topics) == 0 {
			return errors.New("quote: topics are required")
		}
	case JobQuiz:
		if c.Quiz.NWords <= 0 {
			return errors.New("quiz.n_words must be positive")
		}
		if c.Quiz.PollIntervalSeconds <= 0 || c.Quiz.WaitForReplySeconds <= 0 {
			return errors.New("quiz: wait_for_reply_seconds and poll_interval_seconds must be positive")
		}
	}
	return nil
}

func (c *Config) validateLLM(job string, s *LLMSettings) error {
	switch s.Provider {
	case ProviderAzure:
		if c.LLM.Azure.APIKey == "" || c.LLM.Azure.Endpoint == "" {
			return fmt.Errorf("%s: AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT must be set", job)
		}
	case ProviderOpenRouter:
		if c.LLM.OpenRouter.APIKey == "" {
			return fmt.Errorf("%s: OPEN_ROUTER_API_KEY must be set", job)
		}
	default:
		return fmt.Errorf("%s: unknown llm provider %q", job, s.Provider)
	}
	if s.ModelID() == "" {
		return fmt.Errorf("%s: llm model id is required", job)
	}
	return nil
}

// ChatID returns the numeric Telegram chat identifier.
func (c *Config) ChatID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Telegram.ChatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram.chat_id must be numeric: %w", err)
	}
	return id, nil
}
