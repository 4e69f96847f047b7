package memory

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Java-Project-IM/Url-shortener-be/kit/mq"
)

type testMessageStruct struct {
	Data string
}

func (t *testMessageStruct) GetKey() string {
	return t.Data
}

func (t *testMessageStruct) Marshal() ([]byte, error) {
	marshal, err := json.Marshal(*t)
	if err != nil {
		return nil, errors.Wrap(err, "marshal failed")
	}
	return marshal, nil
}

func TestMemory(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "test consume 1000 messages in order",
			fn: func(t *testing.T) {
				mqTopic := CreateMemoryMQ(ctx, 100)

				resultCh := make(chan *testMessageStruct)
				mqTopic.Subscribe("key", func(message []byte) error {
					var textMessage testMessageStruct
					if err := json.Unmarshal(message, &textMessage); err != nil {
						return errors.Wrap(err, "unmarshal failed")
					}
					resultCh <- &textMessage
					return nil
				})

				messages := make([]mq.Message, 1000)
				for i := 0; i < 1000; i++ {
					messages[i] = &testMessageStruct{
						Data: strconv.Itoa(i),
					}
				}

				go func() {
					for _, message := range messages {
						assert.Nil(t, mqTopic.Produce(ctx, message))
					}
				}()

				var results []*testMessageStruct
				timeout := time.NewTimer(30 * time.Second)
				defer timeout.Stop()
				func() {
					for {
						select {
						case <-timeout.C:
							assert.Fail(t, "timeout")
							return
						case message := <-resultCh:
							results = append(results, message)
							if message.Data == "999" {
								return
							}
						}
					}
				}()

				assert.Len(t, results, 1000)
				for idx, message := range messages {
					assert.Equal(t, message.GetKey(), results[idx].Data)
				}
			},
		},
		{
			scenario: "test unsubscribe stops delivery",
			fn: func(t *testing.T) {
				mqTopic := CreateMemoryMQ(ctx, 100)

				resultCh := make(chan *testMessageStruct, 10)
				observer := mqTopic.Subscribe("key", func(message []byte) error {
					var textMessage testMessageStruct
					if err := json.Unmarshal(message, &textMessage); err != nil {
						return errors.Wrap(err, "unmarshal failed")
					}
					resultCh <- &textMessage
					return nil
				})

				assert.Nil(t, mqTopic.Produce(ctx, &testMessageStruct{Data: "before"}))
				assert.Eventually(t, func() bool { return len(resultCh) == 1 }, 5*time.Second, 10*time.Millisecond)

				mqTopic.UnSubscribe(observer)
				assert.Nil(t, mqTopic.Produce(ctx, &testMessageStruct{Data: "after"}))

				time.Sleep(100 * time.Millisecond)
				assert.Len(t, resultCh, 1)
			},
		},
		{
			scenario: "test error handler receives notify error",
			fn: func(t *testing.T) {
				mqTopic := CreateMemoryMQ(ctx, 100)

				errCh := make(chan error, 1)
				mqTopic.Subscribe("key", func(message []byte) error {
					return errors.New("notify failed")
				}, mq.AddErrorHandler(func(err error) {
					errCh <- err
				}))

				assert.Nil(t, mqTopic.Produce(ctx, &testMessageStruct{Data: "data"}))

				select {
				case err := <-errCh:
					assert.ErrorContains(t, err, "notify failed")
				case <-time.After(5 * time.Second):
					assert.Fail(t, "timeout")
				}
			},
		},
		{
			scenario: "test shutdown closes done channel",
			fn: func(t *testing.T) {
				mqTopic := CreateMemoryMQ(context.Background(), 100)

				assert.True(t, mqTopic.Shutdown())
				select {
				case <-mqTopic.Done():
				default:
					assert.Fail(t, "done channel not closed")
				}
				assert.Nil(t, mqTopic.Err())
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
