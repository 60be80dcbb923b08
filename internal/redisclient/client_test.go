package redisclient

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFailsWhenUnreachable(t *testing.T) {
	_, err := NewClient("127.0.0.1:1", "", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestFeedSizeDefault(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	c := newClient(rdb, 0)
	assert.Equal(t, int64(50), c.feedSize)

	c = newClient(rdb, 5)
	assert.Equal(t, int64(5), c.feedSize)
}
