package mq

import (
	"context"
)

type Notify func(message []byte) error

type Observer interface {
	GetKey() string
	Notify(message []byte) error
	ErrorHandler(error)
}

type Message interface {
	GetKey() string
	Marshal() ([]byte, error)
}

type ObserverOption func(*ObserverOptionConfig)

type ObserverOptionConfig struct {
	ErrorHandler func(error)
}

func AddErrorHandler(errorHandler func(error)) ObserverOption {
	return func(config *ObserverOptionConfig) {
		config.ErrorHandler = errorHandler
	}
}

type MQTopic interface {
	Subscribe(key string, notify Notify, options ...ObserverOption) Observer
	UnSubscribe(observer Observer)
	Produce(ctx context.Context, message Message) error
	Done() <-chan struct{}
	Err() error
	Shutdown() bool
}
