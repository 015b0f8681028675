// Package main provides salonctl, the CLI for the Beauteq salon assistant.
//
// The assistant is a Telegram bot for a beauty salon. It answers
// free-form questions through an Ollama-served language model, walks
// users through booking an appointment and exposes a small HTTP API
// for staff.
//
// # Architecture
//
// The application is organized into several packages:
//
//   - pkg/bot: Telegram transport (commands, keyboard, update loop)
//   - pkg/processor: message pipeline (retrieval, prompt, model, views)
//   - pkg/session: guided booking flow state machine
//   - pkg/llm: Ollama chat client and prompt assembly
//   - pkg/rag: keyword retrieval over the knowledge corpus
//   - pkg/view: operations the model can call
//   - pkg/booking: working hours and slot rules
//   - pkg/server: HTTP server (health, staff API, webhook)
//   - pkg/store: store interfaces and GORM implementations
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/knowledge: corpus import from YAML and Markdown
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	salonctl db migrate
//
//	# Import the knowledge corpus
//	salonctl knowledge import corpus.yml
//
//	# Start the assistant
//	salonctl server
//
// # Environment Variables
//
//   - BOT_TOKEN: Telegram bot API token
//   - DATABASE_URL: PostgreSQL connection string
//   - OLLAMA_URL: Ollama base URL
//   - OLLAMA_MODEL: chat model name
//   - BEAUTEQ_LOG_LEVEL: Log level (debug enables SQL logging)
//   - PORT: Server port (default: 8000)
package main
