// Package api provides the HTTP query API over a built contract index.
package api

import "time"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// DefaultK is the hit-list size when the request does not set one.
	DefaultK int

	// DefaultLambda is the diversifier trade-off when the request does not
	// set one.
	DefaultLambda float64

	// DefaultMode is "extractive" or "generative".
	DefaultMode string

	// GenerativeTimeout bounds one generative answer call.
	GenerativeTimeout time.Duration
}
