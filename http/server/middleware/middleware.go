// Package middleware holds the stock middlewares of the HTTP server. From the
// outside in: recovery, tracing, timeout, meta injection, request logging and
// error rendering. Their order comes from the server.Priority* constants.
package middleware
