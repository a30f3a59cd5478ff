package misc

import (
	"os"

	"github.com/sirupsen/logrus"
)

var serviceName = "construxflow"

func init() {
	logger := logrus.StandardLogger()
	logger.Out = os.Stdout
	if os.Getenv("GIN_MODE") == "release" {
		logger.Formatter = &logrus.JSONFormatter{}
	} else {
		logger.Formatter = &logrus.TextFormatter{}
	}
	logger.AddHook(&DefaultFieldsHook{})
}

func SetServiceName(name string) {
	if name != "" {
		serviceName = name
	}
}

type DefaultFieldsHook struct {
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = serviceName
	return nil
}

func ServiceName() string {
	return serviceName
}
