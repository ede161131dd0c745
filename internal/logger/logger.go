package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

const envProduction = "production"

// New инициализирует логгер. В продакшн окружении пишет JSON уровня info, в остальных текст уровня debug.
func New(output io.Writer, appEnv string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(new(logrus.JSONFormatter))
	l.SetLevel(logrus.InfoLevel)

	if appEnv != envProduction {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l
}
