package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text включается через SetTextFormatter
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// For возвращает запись лога с полем component.
// До вызова Init пишет в стандартный логгер logrus, чтобы тесты и утилиты не падали на nil.
func For(component string) *logrus.Entry {
	if Log == nil {
		return logrus.StandardLogger().WithField("component", component)
	}
	return Log.WithField("component", component)
}
