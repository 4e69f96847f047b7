package memory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Java-Project-IM/Url-shortener-be/kit/mq"
	"github.com/Java-Project-IM/Url-shortener-be/kit/util"
)

type memoryMQ struct {
	observers util.GenericSyncMap[mq.Observer, mq.Observer]
	messageCh chan []byte
	doneCh    chan struct{}
	cancel    context.CancelFunc
	err       error
}

var _ mq.MQTopic = (*memoryMQ)(nil)

func CreateMemoryMQ(ctx context.Context, messageChannelBuffer int) mq.MQTopic {
	ctx, cancel := context.WithCancel(ctx)

	m := &memoryMQ{
		messageCh: make(chan []byte, messageChannelBuffer),
		doneCh:    make(chan struct{}),
		cancel:    cancel,
	}

	go func() {
		for {
			select {
			case message := <-m.messageCh:
				m.observers.Range(func(key, value mq.Observer) bool {
					if err := value.Notify(message); err != nil {
						value.ErrorHandler(err) // handle error then continue
					}
					return true
				})
			case <-ctx.Done():
				close(m.doneCh)
				return
			}
		}
	}()

	return m
}

func (m *memoryMQ) Done() <-chan struct{} {
	return m.doneCh
}

func (m *memoryMQ) Err() error {
	return m.err
}

func (m *memoryMQ) Produce(ctx context.Context, message mq.Message) error {
	marshalData, err := message.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal failed")
	}

	select {
	case m.messageCh <- marshalData:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "produce canceled")
	}

	return nil
}

func (m *memoryMQ) Shutdown() bool {
	m.cancel()
	<-m.doneCh
	return true
}

func (m *memoryMQ) Subscribe(key string, notify mq.Notify, options ...mq.ObserverOption) mq.Observer {
	observer := createObserver(key, notify, options...)

	m.observers.Store(observer, observer)

	return observer
}

func (m *memoryMQ) UnSubscribe(observer mq.Observer) {
	m.observers.Delete(observer)
}

type observer struct {
	key          string
	notify       mq.Notify
	errorHandler func(error)
}

var _ mq.Observer = (*observer)(nil)

func createObserver(key string, notify mq.Notify, options ...mq.ObserverOption) mq.Observer {
	o := &observer{
		key:    key,
		notify: notify,
	}

	var observerOptionConfig mq.ObserverOptionConfig
	for _, option := range options {
		option(&observerOptionConfig)
	}
	if observerOptionConfig.ErrorHandler != nil {
		o.errorHandler = observerOptionConfig.ErrorHandler
	}

	return o
}

func (o *observer) GetKey() string {
	return o.key
}

func (o *observer) Notify(message []byte) error {
	if err := o.notify(message); err != nil {
		return errors.Wrap(err, "notify failed")
	}
	return nil
}

func (o *observer) ErrorHandler(err error) {
	if o.errorHandler != nil {
		o.errorHandler(err)
	}
}
