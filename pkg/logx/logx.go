package logx

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for the given environment.
// Production emits structured JSON at info level; everything else gets a
// human-readable console writer at debug level.
func Init(environment string) {
	if environment == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}
	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
}

// Logger is a named, sugared wrapper around zerolog. The *w variants accept
// alternating key/value pairs.
type Logger struct {
	zl zerolog.Logger
}

func Named(name string) *Logger {
	return &Logger{zl: log.Logger.With().Str("logger", name).Logger()}
}

func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debugf(template string, args ...interface{}) {
	l.zl.Debug().Msgf(template, args...)
}

func (l *Logger) Infof(template string, args ...interface{}) {
	l.zl.Info().Msgf(template, args...)
}

func (l *Logger) Warnf(template string, args ...interface{}) {
	l.zl.Warn().Msgf(template, args...)
}

func (l *Logger) Errorf(template string, args ...interface{}) {
	l.zl.Error().Msgf(template, args...)
}

func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Debug(), msg, keysAndValues)
}

func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Info(), msg, keysAndValues)
}

func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Warn(), msg, keysAndValues)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Error(), msg, keysAndValues)
}

func emit(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		e = e.Interface(key, keysAndValues[i+1])
	}
	e.Msg(msg)
}
