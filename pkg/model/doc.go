// Package model defines the database models for the salon assistant.
//
// This package contains GORM models that map to the salon database schema.
//
// # Core Models
//
//   - User: Telegram users who have talked to the assistant
//   - Master: salon specialists and their specializations
//   - Service: the service catalog with durations and prices
//   - Appointment: bookings linking users, masters and services
//   - Conversation: full dialogue history, both directions
//   - KnowledgeItem: keyword-indexed salon facts used for retrieval
//
// # Database Schema
//
// The database uses PostgreSQL with the following tables:
//
//   - users: Telegram identities
//   - masters: active specialists
//   - services: catalog entries, prices stored in kopecks
//   - appointments: bookings with a status lifecycle
//   - conversations: message log with intent labels
//   - knowledge: retrieval corpus
package model
