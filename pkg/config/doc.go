// Package config provides configuration management for the salon assistant.
//
// Configuration is loaded from an optional YAML file and overridden by
// environment variables. Each attribute tracks the source it was resolved
// from (default, file, environment).
//
// # Key Configuration Options
//
//   - BOT_TOKEN: Telegram bot API token
//   - OLLAMA_URL / OLLAMA_MODEL: LLM backend
//   - DATABASE_URL: PostgreSQL connection string
//   - BEAUTEQ_TRANSPORT: polling (default) or webhook
//   - BEAUTEQ_STAFF_TOKEN_SECRET: staff API token signing secret
//   - BEAUTEQ_CONFIG_PATH: directory holding beauteq.yml
package config
