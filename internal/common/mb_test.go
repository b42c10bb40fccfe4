package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishConsumeUserRegistered(t *testing.T) {
	uri := TestRabbitMQ(t)

	mb, err := NewMessageBroker(uri)
	assert.NoError(t, err)
	defer mb.Close()

	err = SetupUserExchange(mb)
	assert.NoError(t, err)

	msgs, err := mb.Consume(UserRegisteredKey, UserExchange, UserRegisteredQueue)
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload := []byte(`{"id":"abc","username":"testuser"}`)
	err = mb.Publish(ctx, payload, UserRegisteredKey, UserExchange)
	assert.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, payload, msg.Body)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the published message")
	}
}
