package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the application logger. It is usable before InitLogging runs.
var Log = logrus.New()

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// LogFilePath returns the path to the backend log file.
func LogFilePath(cfg LogConfig) string {
	return filepath.Join(cfg.Path, cfg.File)
}

// InitLogging configures Log and LogWriter from cfg. The returned closer
// flushes the rotating log file, if one was opened.
func InitLogging(cfg LogConfig) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if cfg.Format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(cfg.Path, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   LogFilePath(cfg),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writers = append(writers, rotating)
		closer = rotating
	}
	if cfg.Output == "stdout" || cfg.Output == "both" || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	LogWriter = io.MultiWriter(writers...)
	Log.SetOutput(LogWriter)

	Log.WithFields(logrus.Fields{
		"level":  Log.GetLevel().String(),
		"format": cfg.Format,
		"output": cfg.Output,
	}).Debug("Logger initialized")

	return closer, nil
}
