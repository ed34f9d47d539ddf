package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestWins(t *testing.T) {
	m := New[int]()
	m.Put(1)
	m.Put(2)
	m.Put(3)

	assert.True(t, m.HasJob())
	got, err := m.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.False(t, m.HasJob())
	assert.Nil(t, m.TryTake())
}

func TestTakeBlocksUntilPut(t *testing.T) {
	m := New[string]()
	done := make(chan string)
	go func() {
		j, _ := m.Take(context.Background())
		done <- j
	}()

	select {
	case <-done:
		t.Fatal("Take returned before Put")
	case <-time.After(20 * time.Millisecond):
	}

	m.Put("scan")
	select {
	case j := <-done:
		assert.Equal(t, "scan", j)
	case <-time.After(time.Second):
		t.Fatal("Take did not wake up")
	}
}

func TestTakeCanceled(t *testing.T) {
	m := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Take(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTryTakeAfterStaleNotify(t *testing.T) {
	m := New[int]()
	m.Put(1)
	require.NotNil(t, m.TryTake())

	// the notify token from Put is still buffered; Take must not return a zero job
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := m.Take(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
