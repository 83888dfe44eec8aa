// Package logger provides structured logging for the container on top of
// zerolog.
//
// Loggers are plain values handed to the container through options; there is
// no package-level global. Nop returns a silent logger, which is what a
// container uses when none is configured.
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "billing")
//	log.Debug("resolved", logger.Fields("abstraction", "IService"))
package logger
