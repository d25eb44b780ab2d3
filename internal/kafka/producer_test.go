package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rose-booking/internal/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestPublishJSONEncodesEvent(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, "rose.order.placed", "AB12CD34", []byte(`{"code":"AB12CD34"}`)).Return(nil)

	PublishJSON(context.Background(), pub, logger.NewDiscardLogger(), "rose.order.placed", "AB12CD34",
		map[string]string{"code": "AB12CD34"})

	pub.AssertExpectations(t)
}

func TestPublishJSONSwallowsFailures(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	assert.NotPanics(t, func() {
		PublishJSON(context.Background(), pub, logger.NewDiscardLogger(), "t", "k", struct{}{})
	})
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestPublishJSONSkipsUnencodableEvent(t *testing.T) {
	pub := new(mockPublisher)
	PublishJSON(context.Background(), pub, logger.NewDiscardLogger(), "t", "k", make(chan int))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "t", "k", nil))
}
