package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Today int   `json:"today"`
	Sum   int64 `json:"sum"`
}

func TestNilClientFallsBackToNoop(t *testing.T) {
	svc := NewService(nil, nil)
	_, ok := svc.(noop)
	assert.True(t, ok)
}

func TestNoopGetOrSetAlwaysFetches(t *testing.T) {
	svc := NewNoop()
	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return stats{Today: 3, Sum: 150000}, nil
	}

	var got stats
	require.NoError(t, svc.GetOrSet(context.Background(), "k", time.Minute, fetch, &got))
	require.NoError(t, svc.GetOrSet(context.Background(), "k", time.Minute, fetch, &got))

	assert.Equal(t, 2, calls)
	assert.Equal(t, stats{Today: 3, Sum: 150000}, got)
}

func TestNoopPropagatesFetcherError(t *testing.T) {
	boom := errors.New("db down")
	var got stats
	err := NewNoop().GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) {
		return nil, boom
	}, &got)
	assert.ErrorIs(t, err, boom)
}

func TestNoopGetMisses(t *testing.T) {
	var got stats
	assert.ErrorIs(t, NewNoop().Get(context.Background(), "k", &got), ErrCacheMiss)
}
