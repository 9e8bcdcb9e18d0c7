package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Environment variables read by NewDefault.
const (
	EnvLevel  = "FGAKIT_LOG_LEVEL"
	EnvFormat = "FGAKIT_LOG_FORMAT"
)

// Logger is a zerolog logger carrying a service tag.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing to the output named in cfg.
func New(cfg *Config, service string) *Logger {
	return NewWithWriter(cfg, writerFor(cfg.Output), service)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(cfg *Config, w io.Writer, service string) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	base := zerolog.New(w)
	if strings.EqualFold(cfg.Format, FormatConsole) {
		base = zerolog.New(consoleWriter(w, cfg.NoColor))
	}
	zc := base.Level(level).With().Str(FieldService, service)
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger()}
}

// NewDefault creates the logger used when none is configured: console
// output on stderr at warn level. EnvLevel and EnvFormat override the level
// and format.
func NewDefault(service string) *Logger {
	cfg := &Config{Level: "warn", Format: FormatConsole, Output: "stderr", Timestamp: true}
	if v := os.Getenv(EnvLevel); v != "" {
		cfg.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	return New(cfg, service)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(map[string]interface{}{FieldComponent: name})
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// emit is a no-op for a nil event, which zerolog returns below the level.
func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	if event == nil {
		return
	}
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(msg)
}

func writerFor(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

var levelTags = map[string]string{
	"trace": "TRC",
	"debug": "DBG",
	"info":  "INF",
	"warn":  "WRN",
	"error": "ERR",
}

func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := fmt.Sprint(i)
			if tag, ok := levelTags[lvl]; ok {
				return "[" + tag + "]"
			}
			return "[" + strings.ToUpper(lvl) + "]"
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprint(i) + "="
		},
	}
}
