package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestEvent struct {
	Message string
}

type AnotherEvent struct {
	Value int
}

func TestBus_Subscribe_And_Publish(t *testing.T) {
	bus := New()

	var received TestEvent
	bus.Subscribe(TestEvent{}, func(event any) {
		if e, ok := event.(TestEvent); ok {
			received = e
		}
	})

	bus.Publish(TestEvent{Message: "hello"})

	assert.Equal(t, "hello", received.Message)
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()

	var count int
	for i := 0; i < 3; i++ {
		bus.Subscribe(TestEvent{}, func(any) { count++ })
	}

	bus.Publish(TestEvent{Message: "fan-out"})
	assert.Equal(t, 3, count)
}

func TestBus_TypeIsolation(t *testing.T) {
	bus := New()

	var gotTest, gotOther int
	bus.Subscribe(TestEvent{}, func(any) { gotTest++ })
	bus.Subscribe(AnotherEvent{}, func(any) { gotOther++ })

	bus.Publish(TestEvent{Message: "only one"})

	assert.Equal(t, 1, gotTest)
	assert.Equal(t, 0, gotOther)
}

func TestBus_DisposeRemovesOnlyOwnSubscription(t *testing.T) {
	bus := New()

	var a, b int
	disposeA := bus.Subscribe(TestEvent{}, func(any) { a++ })
	bus.Subscribe(TestEvent{}, func(any) { b++ })

	disposeA()
	disposeA() // idempotent

	bus.Publish(TestEvent{})

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 1, bus.SubscriberCount(TestEvent{}))
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := New()
	assert.NotPanics(t, func() { bus.Publish(TestEvent{Message: "dropped"}) })
	assert.False(t, bus.HasSubscribers(TestEvent{}))
}

func TestBus_NoReplayForLateSubscriber(t *testing.T) {
	bus := New()

	bus.Publish(TestEvent{Message: "before"})

	var got []string
	bus.Subscribe(TestEvent{}, func(event any) {
		got = append(got, event.(TestEvent).Message)
	})

	bus.Publish(TestEvent{Message: "after"})

	assert.Equal(t, []string{"after"}, got)
}

func TestBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var count int
	bus.Subscribe(TestEvent{}, func(any) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(TestEvent{})
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}
