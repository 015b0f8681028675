package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/beauteq"
	ConfigFileName    = "beauteq.yml"
)

// TransportModes lists the valid Telegram transport modes. "none" runs
// the HTTP server without connecting to Telegram.
var TransportModes = []string{"polling", "webhook", "none"}

// DefaultSystemPrompt is the assistant persona used when no override is
// configured. It matches the original salon assistant behaviour.
const DefaultSystemPrompt = `Ты - Анастасия, AI-ассистент салона красоты "Beauteq".
Твои характеристики:
- Вежливая, профессиональная, дружелюбная
- Говоришь на "ты" с клиентами
- Всегда уточняешь детали, если информации недостаточно
- Предлагаешь альтернативы, если нужное время/услуга недоступны
- Краткая, но информативная

Правила салона:
- Отмена бесплатна за 24 часа до визита
- Оплата наличными или картой
- Приходите за 10 минут до записи
- При первом посещении заполняется анкета гостя

Всегда представляйся: "Я Анастасия, ваш ассистент Beauteq"`

// Config holds all salon assistant configuration settings
type Config struct {
	// BotToken is the Telegram bot API token
	BotToken string `yaml:"bot_token" json:"bot_token"`

	// Transport selects how Telegram updates are received: polling or webhook
	Transport string `yaml:"transport" json:"transport"`

	// WebhookURL is the public base URL Telegram posts updates to (webhook mode)
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`

	// OllamaURL is the base URL of the Ollama API
	OllamaURL string `yaml:"ollama_url" json:"ollama_url"`

	// OllamaModel is the model used for chat completions
	OllamaModel string `yaml:"ollama_model" json:"ollama_model"`

	// OllamaTimeoutSeconds bounds a single chat completion round trip
	OllamaTimeoutSeconds int `yaml:"ollama_timeout_seconds" json:"ollama_timeout_seconds"`

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// StaffTokenSecret signs staff API tokens. The staff API is disabled
	// when empty.
	StaffTokenSecret string `yaml:"staff_token_secret" json:"staff_token_secret"`

	// StaffTokenTTL is the staff token lifetime in seconds
	StaffTokenTTL int `yaml:"staff_token_ttl" json:"staff_token_ttl"`

	// HistoryLimit is the number of conversation messages kept as LLM context
	HistoryLimit int `yaml:"history_limit" json:"history_limit"`

	// Salon facts surfaced to users and to the LLM prompt
	SalonName    string `yaml:"salon_name" json:"salon_name"`
	SalonPhone   string `yaml:"salon_phone" json:"salon_phone"`
	SalonAddress string `yaml:"salon_address" json:"salon_address"`
	WorkingHours string `yaml:"working_hours" json:"working_hours"`

	// SystemPrompt is the assistant persona prepended to every LLM request
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		Transport:            "polling",
		OllamaURL:            "http://host.docker.internal:11434",
		OllamaModel:          "gemma2:9b",
		OllamaTimeoutSeconds: 200,
		StaffTokenTTL:        3600,
		HistoryLimit:         10,
		SalonName:            "Beauteq",
		SalonPhone:           "+7 (999) 123-45-67",
		SalonAddress:         "г. Москва, ул. Красивая, д. 1",
		WorkingHours:         "Пн-Пт: 9:00-21:00, Сб-Вс: 10:00-20:00",
		SystemPrompt:         DefaultSystemPrompt,
		sources:              make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("BEAUTEQ_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bot_token", "transport", "webhook_url",
		"ollama_url", "ollama_model", "ollama_timeout_seconds",
		"database_url", "staff_token_secret", "staff_token_ttl",
		"history_limit", "salon_name", "salon_phone", "salon_address",
		"working_hours", "system_prompt",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BotToken != "" {
		c.BotToken = file.BotToken
		c.sources["bot_token"] = "file"
	}
	if file.Transport != "" {
		c.Transport = file.Transport
		c.sources["transport"] = "file"
	}
	if file.WebhookURL != "" {
		c.WebhookURL = file.WebhookURL
		c.sources["webhook_url"] = "file"
	}
	if file.OllamaURL != "" {
		c.OllamaURL = file.OllamaURL
		c.sources["ollama_url"] = "file"
	}
	if file.OllamaModel != "" {
		c.OllamaModel = file.OllamaModel
		c.sources["ollama_model"] = "file"
	}
	if file.OllamaTimeoutSeconds != 0 {
		c.OllamaTimeoutSeconds = file.OllamaTimeoutSeconds
		c.sources["ollama_timeout_seconds"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.StaffTokenSecret != "" {
		c.StaffTokenSecret = file.StaffTokenSecret
		c.sources["staff_token_secret"] = "file"
	}
	if file.StaffTokenTTL != 0 {
		c.StaffTokenTTL = file.StaffTokenTTL
		c.sources["staff_token_ttl"] = "file"
	}
	if file.HistoryLimit != 0 {
		c.HistoryLimit = file.HistoryLimit
		c.sources["history_limit"] = "file"
	}
	if file.SalonName != "" {
		c.SalonName = file.SalonName
		c.sources["salon_name"] = "file"
	}
	if file.SalonPhone != "" {
		c.SalonPhone = file.SalonPhone
		c.sources["salon_phone"] = "file"
	}
	if file.SalonAddress != "" {
		c.SalonAddress = file.SalonAddress
		c.sources["salon_address"] = "file"
	}
	if file.WorkingHours != "" {
		c.WorkingHours = file.WorkingHours
		c.sources["working_hours"] = "file"
	}
	if file.SystemPrompt != "" {
		c.SystemPrompt = file.SystemPrompt
		c.sources["system_prompt"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("BOT_TOKEN"); val != "" {
		c.BotToken = val
		c.sources["bot_token"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_TRANSPORT"); val != "" {
		c.Transport = val
		c.sources["transport"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_WEBHOOK_URL"); val != "" {
		c.WebhookURL = val
		c.sources["webhook_url"] = "environment"
	}
	if val := os.Getenv("OLLAMA_URL"); val != "" {
		c.OllamaURL = val
		c.sources["ollama_url"] = "environment"
	}
	if val := os.Getenv("OLLAMA_MODEL"); val != "" {
		c.OllamaModel = val
		c.sources["ollama_model"] = "environment"
	}
	if val := os.Getenv("OLLAMA_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.OllamaTimeoutSeconds = i
			c.sources["ollama_timeout_seconds"] = "environment"
		}
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_STAFF_TOKEN_SECRET"); val != "" {
		c.StaffTokenSecret = val
		c.sources["staff_token_secret"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_STAFF_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.StaffTokenTTL = i
			c.sources["staff_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("BEAUTEQ_HISTORY_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.HistoryLimit = i
			c.sources["history_limit"] = "environment"
		}
	}
	if val := os.Getenv("BEAUTEQ_SALON_NAME"); val != "" {
		c.SalonName = val
		c.sources["salon_name"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_SALON_PHONE"); val != "" {
		c.SalonPhone = val
		c.sources["salon_phone"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_SALON_ADDRESS"); val != "" {
		c.SalonAddress = val
		c.sources["salon_address"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_WORKING_HOURS"); val != "" {
		c.WorkingHours = val
		c.sources["working_hours"] = "environment"
	}
	if val := os.Getenv("BEAUTEQ_SYSTEM_PROMPT"); val != "" {
		c.SystemPrompt = val
		c.sources["system_prompt"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// OllamaTimeout returns the Ollama request timeout as a duration
func (c *Config) OllamaTimeout() time.Duration {
	return time.Duration(c.OllamaTimeoutSeconds) * time.Second
}

// StaffTokenLifetime returns the staff token TTL as a duration
func (c *Config) StaffTokenLifetime() time.Duration {
	return time.Duration(c.StaffTokenTTL) * time.Second
}

// WebhookMode reports whether Telegram updates are received over HTTP
func (c *Config) WebhookMode() bool {
	return c.Transport == "webhook"
}

// TelegramEnabled reports whether the Telegram transport is active
func (c *Config) TelegramEnabled() bool {
	return c.Transport != "none"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	valid := false
	for _, m := range TransportModes {
		if c.Transport == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid transport mode: %s", c.Transport)
	}

	if c.WebhookMode() {
		if c.WebhookURL == "" {
			return fmt.Errorf("webhook_url is required in webhook mode")
		}
		if _, err := url.ParseRequestURI(c.WebhookURL); err != nil {
			return fmt.Errorf("invalid webhook_url: %w", err)
		}
	}

	if c.OllamaURL != "" {
		if _, err := url.ParseRequestURI(c.OllamaURL); err != nil {
			return fmt.Errorf("invalid ollama_url: %w", err)
		}
	}

	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	redacted := func(v string) string {
		if v == "" {
			return ""
		}
		return "(redacted)"
	}
	// Multi-line values get cut at the first line break so the text
	// table stays readable.
	firstLine := func(v string) string {
		if i := strings.IndexByte(v, '\n'); i >= 0 {
			return v[:i] + " ..."
		}
		return v
	}

	return []Attribute{
		{Name: "bot_token", Value: redacted(c.BotToken), Source: c.Source("bot_token")},
		{Name: "transport", Value: c.Transport, Source: c.Source("transport")},
		{Name: "webhook_url", Value: c.WebhookURL, Source: c.Source("webhook_url")},
		{Name: "ollama_url", Value: c.OllamaURL, Source: c.Source("ollama_url")},
		{Name: "ollama_model", Value: c.OllamaModel, Source: c.Source("ollama_model")},
		{Name: "ollama_timeout_seconds", Value: strconv.Itoa(c.OllamaTimeoutSeconds), Source: c.Source("ollama_timeout_seconds")},
		{Name: "database_url", Value: redacted(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "staff_token_secret", Value: redacted(c.StaffTokenSecret), Source: c.Source("staff_token_secret")},
		{Name: "staff_token_ttl", Value: strconv.Itoa(c.StaffTokenTTL), Source: c.Source("staff_token_ttl")},
		{Name: "history_limit", Value: strconv.Itoa(c.HistoryLimit), Source: c.Source("history_limit")},
		{Name: "salon_name", Value: c.SalonName, Source: c.Source("salon_name")},
		{Name: "salon_phone", Value: c.SalonPhone, Source: c.Source("salon_phone")},
		{Name: "salon_address", Value: c.SalonAddress, Source: c.Source("salon_address")},
		{Name: "working_hours", Value: c.WorkingHours, Source: c.Source("working_hours")},
		{Name: "system_prompt", Value: firstLine(c.SystemPrompt), Source: c.Source("system_prompt")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-26s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-26s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-26s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
