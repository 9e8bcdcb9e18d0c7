// Package logger is fgakit's structured logging on zerolog.
//
// Packages take a component-scoped logger from Get and pass fields as maps
// built with Fields, TupleFields, ErrorFields and DurationFields. Until an
// application installs its own logger with SetGlobalLogger, entries at warn
// and above go to stderr; FGAKIT_LOG_LEVEL and FGAKIT_LOG_FORMAT adjust
// that default.
//
//	logging:
//	  level: debug
//	  format: json
//	  output: stdout
//
//	log := logger.Get("fga")
//	log.Warn("check failed", logger.TupleFields(user, relation, object))
package logger
