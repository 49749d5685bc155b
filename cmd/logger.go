package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/talkie/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFileMode        = 0o600
	interactiveLogName = "talkie.log"
)

func newLogger(cfg config.LogConfig, stderr io.Writer) (*zap.Logger, *logSink, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	sink := &logSink{out: zapcore.AddSync(stderr)}
	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		sink.out = zapcore.AddSync(file)
		sink.pinned = true
	}

	return zap.New(zapcore.NewCore(encoder, sink, level)).Named("talkie"), sink, nil
}

func openLogFile(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// logSink is where log lines end up. The room view owns the terminal while it
// runs, so interactive sessions point the sink at a file for their duration.
type logSink struct {
	mu  sync.Mutex
	out zapcore.WriteSyncer

	// pinned is set when log.file chose the destination.
	pinned bool
}

var _ zapcore.WriteSyncer = (*logSink)(nil)

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

func (s *logSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Sync()
}

// redirect sends log lines to path until restore is called. A sink pinned by
// log.file stays where it is.
func (s *logSink) redirect(path string) (restore func() error, err error) {
	if s.pinned {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := openLogFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.out
	s.out = zapcore.AddSync(file)
	s.mu.Unlock()

	return func() error {
		s.mu.Lock()
		s.out = prev
		s.mu.Unlock()
		return file.Close()
	}, nil
}

func interactiveLogPath(homeDir string) string {
	return filepath.Join(config.Dir(homeDir), interactiveLogName)
}
