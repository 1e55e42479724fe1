package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope("engine", "puzzle.step", "sess-1", []byte(`{"id":1}`))

	assert.NotEmpty(t, env.ID, "Конверт получает UUID")
	assert.Equal(t, "engine", env.Source)
	assert.Equal(t, "puzzle.step", env.EventType)
	assert.Equal(t, "sess-1", env.Session)
	assert.Equal(t, 1, env.Version)
	assert.Equal(t, 5, env.Priority)
	assert.WithinDuration(t, time.Now().UTC(), env.Timestamp, time.Second)

	other := NewEnvelope("engine", "puzzle.step", "sess-1", nil)
	assert.NotEqual(t, env.ID, other.ID, "Идентификаторы уникальны")
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	ctx := context.Background()

	var received atomic.Int64
	_, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)))
	}

	assert.Eventually(t, func() bool {
		return received.Load() == 5
	}, time.Second, 10*time.Millisecond, "Все события должны дойти до подписчика")

	stats := bus.Metrics()
	assert.Equal(t, uint64(5), stats.Published)
	assert.Equal(t, uint64(5), stats.Consumed)
	assert.Equal(t, uint64(0), stats.Dropped)
}

func TestMemoryBus_FilterByType(t *testing.T) {
	bus := NewMemoryBus(16)
	ctx := context.Background()

	var steps, all atomic.Int64
	_, err := bus.Subscribe(ctx, Filter{Types: []string{"puzzle.step"}}, func(ctx context.Context, ev *Envelope) {
		steps.Add(1)
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		all.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.reveal", "s", nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)))

	assert.Eventually(t, func() bool {
		return all.Load() == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(2), steps.Load(), "Фильтр по типу пропускает только puzzle.step")
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	ctx := context.Background()

	var received atomic.Int64
	sub, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		received.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)))
	assert.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 10*time.Millisecond)

	sub.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), received.Load(), "После отписки события не доставляются")
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	// Без подписчиков dispatchLoop разгребает буфер; чтобы гарантировать
	// переполнение, занимаем его медленным обработчиком
	bus := NewMemoryBus(1)
	ctx := context.Background()

	blocker := make(chan struct{})
	_, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		<-blocker
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)))

	// Ждём, пока диспетчер заберёт первое событие и повиснет, затем
	// заполняем буфер и публикуем низкоприоритетное поверх
	assert.Eventually(t, func() bool {
		return bus.Publish(ctx, NewEnvelope("test", "puzzle.step", "s", nil)) == nil &&
			bus.Metrics().InFlight == 1
	}, time.Second, 10*time.Millisecond)

	low := NewEnvelope("test", "puzzle.trace", "s", nil)
	low.Priority = 1
	require.NoError(t, bus.Publish(ctx, low))

	assert.Equal(t, uint64(1), bus.Metrics().Dropped, "Низкий приоритет дропается при заполненном буфере")
	close(blocker)
}
