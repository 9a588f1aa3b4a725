package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jamesainslie/go-sandhi/internal/sink"
	"github.com/jamesainslie/go-sandhi/translit"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically; callers that override fields afterwards
// (CLI flags) should call it again.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Dir) == "" {
		return fmt.Errorf("input.dir must not be empty")
	}
	if len(c.Input.Extensions) == 0 {
		return fmt.Errorf("input.extensions must not be empty")
	}
	for _, ext := range c.Input.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("input.extensions: %q must start with a dot", ext)
		}
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	if !slices.Contains(sink.Formats(), c.Output.Format) {
		return fmt.Errorf("output.format %q: %w", c.Output.Format, sink.ErrUnknownFormat)
	}

	from, err := translit.ParseScheme(c.Translit.From)
	if err != nil {
		return fmt.Errorf("translit.from: %w", err)
	}
	to, err := translit.ParseScheme(c.Translit.To)
	if err != nil {
		return fmt.Errorf("translit.to: %w", err)
	}
	if _, err := translit.New(from, to); err != nil {
		return fmt.Errorf("translit: %w", err)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level %q must be one of %s", c.Log.Level, strings.Join(logLevels, ", "))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}

	return nil
}
