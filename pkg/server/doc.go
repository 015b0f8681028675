// Package server exposes the HTTP surface of the assistant: the health
// check, the staff API over the salon data and the Telegram webhook
// receiver. Endpoints register themselves on the server's router, auth
// is applied per route group by the middleware package.
package server
