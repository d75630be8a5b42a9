package internal

import "github.com/hallgrim/skald/internal/scheduler"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	sources []scheduler.SourceChannels
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSources overrides the message sources built from the configuration.
// Used by tests to inject fakes.
func WithSources(sources []scheduler.SourceChannels) Option {
	return func(a *application) {
		a.sources = sources
	}
}
