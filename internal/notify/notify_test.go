package notify

import (
	"context"
	"testing"
	"time"

	"order-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiDeliversToAll(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b, Nop}

	m.Notify(context.Background(), models.NewNotification(models.SeverityInfo, "hello"))

	require.Len(t, a.All(), 1)
	require.Len(t, b.All(), 1)
	assert.Equal(t, "hello", b.All()[0].Message)
}

func TestAsyncDeliversInOrder(t *testing.T) {
	rec := &Recorder{}
	async := NewAsync(rec, 8)

	ctx, cancel := context.WithCancel(context.Background())
	async.Start(ctx)

	async.Notify(ctx, models.NewNotification(models.SeverityWarning, "one"))
	async.Notify(ctx, models.NewNotification(models.SeveritySuccess, "two"))

	require.Eventually(t, func() bool { return len(rec.All()) == 2 }, time.Second, time.Millisecond)
	cancel()
	async.Wait()

	got := rec.All()
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, "two", got[1].Message)
}

func TestAsyncDropsWhenFull(t *testing.T) {
	rec := &Recorder{}
	async := NewAsync(rec, 1)

	// not started: the second notification cannot be queued
	async.Notify(context.Background(), models.NewNotification(models.SeverityInfo, "kept"))
	async.Notify(context.Background(), models.NewNotification(models.SeverityInfo, "dropped"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	async.Start(ctx)
	async.Wait()

	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Message)
}
