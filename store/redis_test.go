package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/nextbuy/core"
)

func TestNewRedisStoreUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rs, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Nil(t, rs)

	de := core.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, core.ModuleStore, de.Module)
	assert.Equal(t, core.ErrorCodeUnavailable, de.Code)
}

func TestExpiration(t *testing.T) {
	assert.Equal(t, time.Duration(0), expiration(nil))
	assert.Equal(t, time.Duration(0), expiration([]int{-5}))
	assert.Equal(t, 90*time.Second, expiration([]int{90}))
}
