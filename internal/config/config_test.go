package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_USER_ID", "BTC_BOT_TOKEN", "QOTD_BOT_TOKEN", "BUSINESS_BOT_TOKEN",
	"AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT", "OPEN_ROUTER_API_KEY", "COINGECKO_API_KEY",
	"HTTPS_PROXY", "LOG_LEVEL", "RUN_ON_START",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.DataSource.BaseURL)
	assert.Equal(t, "bitcoin", cfg.DataSource.CoinID)
	assert.Equal(t, 50, cfg.Crypto.LastNDays)
	assert.Equal(t, 3, cfg.Crypto.Window)
	assert.Equal(t, ProviderAzure, cfg.Crypto.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.Crypto.LLM.ModelID())
	temperature, topP := cfg.Crypto.LLM.Sampling()
	assert.Equal(t, 0.3, temperature)
	assert.Equal(t, 0.7, topP)
	assert.Equal(t, ProviderOpenRouter, cfg.Quote.LLM.Provider)
	assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", cfg.Quote.LLM.ModelID())
	assert.Equal(t, 3, cfg.Quiz.LLM.MaxRetries)
	assert.Equal(t, 4, cfg.Quiz.NWords)
	assert.Len(t, cfg.Quote.Topics, 15)
	assert.NotEmpty(t, cfg.Business.ContextTwists)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.RunOnStart)
}

func TestLoad_YAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
telegram:
  bot_token: yaml-token
  chat_id: "42"
crypto:
  last_n_days: 20
  llm:
    provider: open_router
    open_router_model: test/model
quiz:
  n_words: 6
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("QOTD_BOT_TOKEN", "qotd-token")
	t.Setenv("RUN_ON_START", "true")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, 20, cfg.Crypto.LastNDays)
	assert.Equal(t, ProviderOpenRouter, cfg.Crypto.LLM.Provider)
	assert.Equal(t, "test/model", cfg.Crypto.LLM.ModelID())
	assert.Equal(t, 6, cfg.Quiz.NWords)
	assert.Equal(t, "qotd-token", cfg.BotToken(JobQuote))
	assert.Equal(t, "qotd-token", cfg.BotToken(JobQuiz))
	assert.Equal(t, "env-token", cfg.BotToken(JobBusiness))
	assert.True(t, cfg.RunOnStart)
}

func TestLoad_ExplicitZeroSamplingIsKept(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
crypto:
  llm:
    temperature: 0
quote:
  llm:
    top_p: 0
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	temperature, topP := cfg.Crypto.LLM.Sampling()
	assert.Equal(t, 0.0, temperature)
	assert.Equal(t, 0.7, topP)

	temperature, topP = cfg.Quote.LLM.Sampling()
	assert.Equal(t, 0.4, temperature)
	assert.Equal(t, 0.0, topP)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "OPEN_ROUTER_API_KEY=from-dotenv\nTELEGRAM_USER_ID=7\n")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.OpenRouter.APIKey)
	assert.Equal(t, "7", cfg.Telegram.ChatID)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "bad.yaml", "telegram: [unclosed")
	_, err := Load(path, "")
	assert.Error(t, err)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	clearEnv(t)
	cfg, err := Load("", "")
	require.NoError(t, err)
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "12345"
	cfg.LLM.Azure.APIKey = "azure-key"
	cfg.LLM.Azure.Endpoint = "https://example.openai.azure.com"
	cfg.LLM.OpenRouter.APIKey = "or-key"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		job     string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid crypto", job: JobCrypto},
		{name: "valid fetch without llm credentials", job: JobFetch, mutate: func(c *Config) {
			c.LLM.Azure.APIKey = ""
			c.LLM.OpenRouter.APIKey = ""
		}},
		{name: "unknown job", job: "stocks", wantErr: "unknown job"},
		{name: "missing token", job: JobQuote, mutate: func(c *Config) { c.Telegram.BotToken = "" }, wantErr: "bot token"},
		{name: "missing chat id", job: JobQuote, mutate: func(c *Config) { c.Telegram.ChatID = "" }, wantErr: "chat_id"},
		{name: "non numeric chat id", job: JobQuote, mutate: func(c *Config) { c.Telegram.ChatID = "me" }, wantErr: "numeric"},
		{name: "missing azure key", job: JobCrypto, mutate: func(c *Config) { c.LLM.Azure.APIKey = "" }, wantErr: "AZURE_OPENAI_API_KEY"},
		{name: "missing open router key", job: JobQuiz, mutate: func(c *Config) { c.LLM.OpenRouter.APIKey = "" }, wantErr: "OPEN_ROUTER_API_KEY"},
		{name: "unknown provider", job: JobBusiness, mutate: func(c *Config) { c.Business.LLM.Provider = "GEMINI" }, wantErr: "unknown llm provider"},
		{name: "empty twists", job: JobBusiness, mutate: func(c *Config) { c.Business.ContextTwists = nil }, wantErr: "context_twists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate(tt.job)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCronAndLLMFor(t *testing.T) {
	cfg := validConfig(t)
	for _, job := range Jobs {
		assert.NotEmpty(t, cfg.Cron(job), job)
	}
	assert.Nil(t, cfg.LLMFor(JobFetch))
	require.NotNil(t, cfg.LLMFor(JobQuote))
	assert.Equal(t, cfg.Quote.LLM.SystemMessage, cfg.LLMFor(JobQuote).SystemMessage)
}

func TestChatID(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.ChatID = " 123456 "
	id, err := cfg.ChatID()
	require.NoError(t, err)
	assert.EqualValues(t, 123456, id)

	cfg.Telegram.ChatID = "@channel"
	_, err = cfg.ChatID()
	assert.Error(t, err)
}
