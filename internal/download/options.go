package download

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults for fetch tasks
const (
	DefaultUserAgent        = "ytget-launcher"
	DefaultProgressInterval = 100 * time.Millisecond
	PartialSuffix           = ".part"
	copyBufferSize          = 32 * 1024
)

// Option configures a fetch Task
type Option func(*Task)

// WithHTTPClient sets the client used for the transfer
func WithHTTPClient(client *http.Client) Option {
	return func(t *Task) {
		if client != nil {
			t.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with the request
func WithUserAgent(userAgent string) Option {
	return func(t *Task) {
		if userAgent != "" {
			t.userAgent = userAgent
		}
	}
}

// WithProgressInterval sets the minimum time between progress updates.
// Zero reports every chunk.
func WithProgressInterval(interval time.Duration) Option {
	return func(t *Task) {
		if interval >= 0 {
			t.interval = interval
		}
	}
}

// WithLogger sets the logger used for transfer diagnostics
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}
