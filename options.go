package todoql

// options.go handles options that can be used to control the app.
// Most of these options are just passed on to the handler. (See internal/handler/options.go
// for details on how closures are used to handle options.)

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/andrewwphillips/todoql/internal/handler"
	"github.com/andrewwphillips/todoql/internal/store"
)

type options struct {
	log      logrus.FieldLogger
	clock    func() time.Time
	registry *prometheus.Registry

	// handler options
	noConcurrency                              bool
	initialTimeout, pingFrequency, pongTimeout time.Duration
}

// Logger sets the logger used by the store and handler (default is the logrus standard logger)
func Logger(log logrus.FieldLogger) func(*options) {
	return func(opt *options) {
		opt.log = log
	}
}

// Clock replaces the function used to get the creation time of new todos
func Clock(now func() time.Time) func(*options) {
	return func(opt *options) {
		opt.clock = now
	}
}

// Registry sets the prometheus registry that metrics are added to (by default a new one is created)
func Registry(reg *prometheus.Registry) func(*options) {
	return func(opt *options) {
		opt.registry = reg
	}
}

// NoConcurrency turns off concurrent execution of the root fields of a query
func NoConcurrency(on bool) func(*options) {
	return func(opt *options) {
		opt.noConcurrency = on
	}
}

// InitialTimeout is how long a websocket client has to send "connection_init"
func InitialTimeout(timeout time.Duration) func(*options) {
	return func(opt *options) {
		opt.initialTimeout = timeout
	}
}

// PingFrequency says how often to send a "ping" message on a websocket
func PingFrequency(freq time.Duration) func(*options) {
	return func(opt *options) {
		opt.pingFrequency = freq
	}
}

// PongTimeout is how long a websocket client has to reply to a "ping"
func PongTimeout(timeout time.Duration) func(*options) {
	return func(opt *options) {
		opt.pongTimeout = timeout
	}
}

func (opt *options) storeOptions(lookahead bool) []func(*store.TodoRepo) {
	r := []func(*store.TodoRepo){store.Lookahead(lookahead)}
	if opt.clock != nil {
		r = append(r, store.Clock(opt.clock))
	}
	return r
}

func (opt *options) handlerOptions(auth *handler.Auth) []func(*handler.Handler) {
	r := []func(*handler.Handler){
		handler.Logger(opt.log),
		handler.NoConcurrency(opt.noConcurrency),
		handler.InitialTimeout(opt.initialTimeout),
		handler.PingFrequency(opt.pingFrequency),
		handler.PongTimeout(opt.pongTimeout),
	}
	if opt.registry != nil {
		r = append(r, handler.Registry(opt.registry))
	}
	if auth != nil {
		r = append(r, handler.WithAuth(auth))
	}
	return r
}
