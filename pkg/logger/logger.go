package logx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is read from LOG_* variables. Level wins over Debug when set.
type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	Level        string `default:""`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `split_words:"true" default:"guide-life-agents"`
}

var DefaultConfig = &Config{
	Service: "guide-life-agents",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func (c *Config) level() zerolog.Level {
	if raw := strings.TrimSpace(c.Level); raw != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Init replaces the global logger and makes it the fallback for log.Ctx.
func Init(opts ...Config) {
	conf := safe(opts...)

	var out io.Writer = os.Stdout
	if conf.PrettyFormat {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(conf.level()).With().Timestamp().Caller().Stack()
	if service := strings.TrimSpace(conf.Service); service != "" {
		ctx = ctx.Str("service", service)
	}
	log.Logger = ctx.Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
