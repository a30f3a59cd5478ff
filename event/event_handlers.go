package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler returns nil when the event is not of interest
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

// invokeHandlers runs after the source transaction committed, a failing handler never undoes the change
func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handler := range EventHandlers {
		logrus.WithField("source", record.SourceType).WithField("id", record.SourceId).Debug("pre handle event")
		r := handler(record)
		if r == nil {
			continue
		}
		results = append(results, *r)

		entry := logrus.WithField("handler", r.HandlerIdentifier).WithField("source", record.SourceType).
			WithField("id", record.SourceId)
		if r.Success {
			entry.Info("event handled: ", r.Message)
		} else {
			entry.Error("event handling failed: ", r.Message)
		}
	}
	return results
}

// InvokeHandlers fires handlers for every record, in order
func InvokeHandlers(records ...*EventRecord) {
	for _, r := range records {
		InvokeHandlersFunc(r)
	}
}
