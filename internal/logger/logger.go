package logger

import (
	"io"
	"net"
	"os"
	"time"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/sirupsen/logrus"

	"blogcms/internal/config"
)

// New builds the application logger. When a logstash address is configured
// entries are also shipped there over TCP.
func New(cfg config.Log) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.LogstashAddr != "" {
		conn, err := net.DialTimeout("tcp", cfg.LogstashAddr, 3*time.Second)
		if err != nil {
			logger.WithError(err).WithField("addr", cfg.LogstashAddr).Warn("logstash unreachable, shipping disabled")
		} else {
			logger.AddHook(logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": "blogcms"})))
		}
	}

	return logger
}

// Discard returns a logger that writes nowhere. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
