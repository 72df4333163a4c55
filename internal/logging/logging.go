// Package logging points the standard logger at stderr and, when configured,
// a size-rotated log file.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// File is the log file path. Empty keeps logging on stderr only.
	File      string
	MaxSizeMB int
}

// Setup configures the default logger and returns a closer for the file
// output. The closer is a no-op when no file is configured.
func Setup(opts Options) io.Closer {
	return SetupLogger(log.Default(), os.Stderr, opts)
}

func SetupLogger(logger *log.Logger, console io.Writer, opts Options) io.Closer {
	logger.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if opts.File == "" {
		logger.SetOutput(console)
		return nopCloser{}
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(console, file))
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
