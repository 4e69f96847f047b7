package kafka

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/Java-Project-IM/Url-shortener-be/kit/mq"
	"github.com/Java-Project-IM/Url-shortener-be/kit/util"
)

type mqTopic struct {
	writer    *kafka.Writer
	brokers   []string
	topic     string
	groupID   string
	observers util.GenericSyncMap[mq.Observer, context.CancelFunc]

	lock   sync.Mutex
	cancel context.CancelFunc
	ctx    context.Context
	doneCh chan struct{}
	err    error
}

var _ mq.MQTopic = (*mqTopic)(nil)

func CreateKafkaMQ(ctx context.Context, url, topic, groupID string) mq.MQTopic {
	ctx, cancel := context.WithCancel(ctx)

	brokers := strings.Split(url, ",")
	m := &mqTopic{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.RoundRobin{},
		},
		brokers: brokers,
		topic:   topic,
		groupID: groupID,
		ctx:     ctx,
		cancel:  cancel,
		doneCh:  make(chan struct{}),
	}

	go func() {
		<-ctx.Done()
		close(m.doneCh)
	}()

	return m
}

func (m *mqTopic) Produce(ctx context.Context, message mq.Message) error {
	marshalData, err := message.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal failed")
	}

	if err := m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.GetKey()),
		Value: marshalData,
	}); err != nil {
		return errors.Wrap(err, "write message failed")
	}

	return nil
}

func (m *mqTopic) Subscribe(key string, notify mq.Notify, options ...mq.ObserverOption) mq.Observer {
	observer := createObserver(key, notify, options...)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: m.brokers,
		Topic:   m.topic,
		GroupID: m.groupID,
	})

	ctx, cancel := context.WithCancel(m.ctx)
	m.observers.Store(observer, cancel)

	go func() {
		defer reader.Close()

		for {
			message, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				observer.ErrorHandler(errors.Wrap(err, "read message failed"))
				continue
			}
			if err := observer.Notify(message.Value); err != nil {
				observer.ErrorHandler(err) // handle error then continue
			}
		}
	}()

	return observer
}

func (m *mqTopic) UnSubscribe(observer mq.Observer) {
	if cancel, ok := m.observers.Load(observer); ok {
		cancel()
	}
	m.observers.Delete(observer)
}

func (m *mqTopic) Done() <-chan struct{} {
	return m.doneCh
}

func (m *mqTopic) Err() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.err
}

func (m *mqTopic) Shutdown() bool {
	m.cancel()
	if err := m.writer.Close(); err != nil {
		m.lock.Lock()
		m.err = err
		m.lock.Unlock()
	}
	<-m.doneCh
	return true
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
