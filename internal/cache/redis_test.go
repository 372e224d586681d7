package cache

import (
	"context"
	"testing"

	"github.com/catboard/cat/internal/game"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelName(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	p := &RedisPublisher{Prefix: DefaultChannelPrefix}
	assert.Equal(t, "cat:game:7c9e6679-7425-40de-944b-e07fc1f90ae7", p.Channel(id))
}

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), game.ClosedEvent(uuid.New(), game.CloseReasonShutdown)))
}

func TestConnectRedisUnreachable(t *testing.T) {
	p, err := ConnectRedis("127.0.0.1:1", 0, "")
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
