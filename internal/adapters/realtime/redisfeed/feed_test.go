package redisfeed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelFor(t *testing.T) {
	assert.Equal(t, "notifications:u-42", ChannelFor("u-42"))
}

func TestAccept(t *testing.T) {
	msg := `{"id":"n1","user_id":"u1","title":"t","message":"m","type":"success","read":false,"created_at":"2026-03-10T12:00:00Z"}`

	n, ok := accept(msg, "u1")
	assert.True(t, ok)
	assert.Equal(t, "success", n.Type)

	_, ok = accept(msg, "u2")
	assert.False(t, ok, "recipient mismatch is dropped")

	_, ok = accept("{", "u1")
	assert.False(t, ok)
}

func TestNewClient_RejectsEmptyURL(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewClient(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
