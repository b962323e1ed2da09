package backend

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoroutineRunReturnsValue(t *testing.T) {
	g := NewGoroutine(2, nil)

	val, err := g.Run(context.Background(), func(context.Context) (any, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestGoroutineRunRejectsReentrantCall(t *testing.T) {
	g := NewGoroutine(1, nil)

	_, err := g.Run(context.Background(), func(ctx context.Context) (any, error) {
		return g.Run(ctx, func(context.Context) (any, error) {
			return nil, nil
		})
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReentrantRun))
}

func TestGoroutineRunRespectsContextCancellation(t *testing.T) {
	g := NewGoroutine(1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Run(ctx, func(context.Context) (any, error) {
		time.Sleep(100 * time.Millisecond)
		return nil, nil
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGoroutineIterateInThreadPool(t *testing.T) {
	g := NewGoroutine(1, nil)
	chunks := [][]byte{[]byte("a"), []byte("b")}
	idx := 0
	blocking := NewBlockingIter(func() ([]byte, error) {
		if idx >= len(chunks) {
			return nil, io.EOF
		}
		c := chunks[idx]
		idx++
		return c, nil
	})

	async := g.IterateInThreadPool(context.Background(), blocking)

	var got []string
	for {
		chunk, err := async.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(chunk))
	}

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestGoroutineIterateBridgesAsyncToBlocking(t *testing.T) {
	g := NewGoroutine(1, nil)
	chunks := [][]byte{[]byte("x")}
	idx := 0
	async := NewAsyncIter(func(ctx context.Context) ([]byte, error) {
		if idx >= len(chunks) {
			return nil, io.EOF
		}
		c := chunks[idx]
		idx++
		return c, nil
	})

	blocking := g.Iterate(context.Background(), async)

	chunk, err := blocking.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", string(chunk))

	_, err = blocking.Next()
	assert.ErrorIs(t, err, io.EOF)
}
