// Package audit provides audit logging for assistant operations.
//
// Events cover incoming user messages, model-requested view executions
// and booking attempts. They are written to stdout in RFC5424 syslog
// format and, when AUDIT_DATABASE_URL is set, persisted to a messages
// table for later review.
package audit
