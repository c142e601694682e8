package handler

// options.go handles setting of handler options

// Options are closures with the signature func(*Handler) which are passed to handler.New().  Each option function
// below returns such a closure capturing its parameter(s), eg:
//
//   handler.New(schema, repo, handler.NoConcurrency(true), handler.Logger(log))
//
// If the same option is used more than once only the last use has any effect.

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	defaultInitialTimeout = 10 * time.Second // how long to wait for connection_init after the WS is opened
	defaultPingFrequency  = 20 * time.Second // how often to send a ping message to the client
	defaultPongTimeout    = 5 * time.Second  // how long to wait for a pong after sending a ping
)

// SetOptions takes a slice of handler options (closures) and executes them
func (h *Handler) SetOptions(options ...func(*Handler)) {
	for _, option := range options {
		option(h)
	}

	// Set any options that still have their unset (zero) value
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	if h.registry == nil {
		h.registry = prometheus.NewRegistry()
	}
	if h.metrics == nil {
		h.metrics = newMetrics(h.registry)
	}
	if h.initialTimeout == 0 {
		h.initialTimeout = defaultInitialTimeout
	}
	if h.pingFrequency == 0 {
		h.pingFrequency = defaultPingFrequency
	}
	if h.pongTimeout == 0 {
		h.pongTimeout = defaultPongTimeout
	}
}

// Logger sets where operations and errors are logged (default is the logrus standard logger)
func Logger(log logrus.FieldLogger) func(*Handler) {
	return func(h *Handler) {
		h.log = log
	}
}

// NoConcurrency turns off concurrent execution of the root fields of a query (mutations are always sequential)
func NoConcurrency(on bool) func(*Handler) {
	return func(h *Handler) {
		h.noConcurrency = on
	}
}

// WithAuth requires every request to carry a session token issued by a
func WithAuth(a *Auth) func(*Handler) {
	return func(h *Handler) {
		h.auth = a
	}
}

// Registry sets the prometheus registry that the handler's metrics are added to
func Registry(reg *prometheus.Registry) func(*Handler) {
	return func(h *Handler) {
		h.registry = reg
	}
}

// InitialTimeout sets the length time to wait from when the websocket is opened until the
// "connection_init" message is received. If the message is not received from the client
// within the time limit then the WS is closed.
func InitialTimeout(timeout time.Duration) func(*Handler) {
	return func(h *Handler) {
		h.initialTimeout = timeout // timeout value is "captured" and returned as part of the func
	}
}

// PingFrequency says how often to send a "ping" message on a websocket
func PingFrequency(freq time.Duration) func(*Handler) {
	return func(h *Handler) {
		h.pingFrequency = freq
	}
}

// PongTimeout set the length time to wait for a "pong" (or any other message) from the client after
// a "ping" message is sent. If nothing is received within the time limit then the WS is closed.
func PongTimeout(timeout time.Duration) func(*Handler) {
	return func(h *Handler) {
		h.pongTimeout = timeout
	}
}
