package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// AppName попадает в поле app каждой записи
const AppName = "rescue_dispatch"

// appHook добавляет имя приложения, чтобы записи диспетчера отличались в общем потоке логов
type appHook struct {
	app string
}

func (h appHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h appHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["app"]; !ok {
		entry.Data["app"] = h.app
	}
	return nil
}

func New(logLevel string) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	log.SetOutput(os.Stdout)
	log.AddHook(appHook{app: AppName})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", logLevel).Warn("Unknown log level, falling back to info")
	}
	log.SetLevel(level)
	return log
}
