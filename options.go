package sandhi

import (
	"log/slog"

	"github.com/jamesainslie/go-sandhi/chain"
	"github.com/jamesainslie/go-sandhi/internal/corpus"
	"github.com/jamesainslie/go-sandhi/translit"
)

// Option configures an Extractor.
type Option func(*config)

type config struct {
	from       translit.Scheme
	to         translit.Scheme
	converter  chain.Converter
	extensions []string
	logger     *slog.Logger
	observer   Observer
}

func defaultConfig() config {
	return config{
		from:       translit.IAST,
		to:         translit.Devanagari,
		extensions: []string{corpus.DefaultExtension},
		logger:     slog.Default(),
		observer:   nopObserver{},
	}
}

// WithSchemes sets the transliteration pair (default: IAST to Devanagari).
func WithSchemes(from, to translit.Scheme) Option {
	return func(c *config) {
		c.from = from
		c.to = to
	}
}

// WithConverter replaces transliteration with a custom converter.
// It takes precedence over WithSchemes.
func WithConverter(conv chain.Converter) Option {
	return func(c *config) {
		c.converter = conv
	}
}

// WithExtensions sets the corpus file extensions (default: ".conllu").
func WithExtensions(exts ...string) Option {
	return func(c *config) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets a progress observer (default: none).
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}
