package pubsub

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub := bus.Subscribe(context.Background(), TopicAnalysis)

	bus.Publish(TopicAnalysis, "snapshot-1")

	select {
	case msg := <-sub.Channel():
		if msg != "snapshot-1" {
			t.Errorf("Expected snapshot-1, got %v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message")
	}
}

func TestPublishToOtherTopicNotDelivered(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub := bus.Subscribe(context.Background(), TopicAnalysis)
	bus.Publish(TopicBattery, "battery-snapshot")

	select {
	case msg := <-sub.Channel():
		t.Errorf("Unexpected message %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub := bus.Subscribe(context.Background(), TopicAnalysis)
	sub.Unsubscribe()

	if _, ok := <-sub.Channel(); ok {
		t.Error("Expected closed channel after Unsubscribe")
	}
	if got := bus.SubscriberCount(TopicAnalysis); got != 0 {
		t.Errorf("Expected 0 subscribers, got %d", got)
	}
}

func TestContextCancelUnsubscribes(t *testing.T) {
	bus := New()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := bus.Subscribe(ctx, TopicAnalysis)
	cancel()

	select {
	case _, ok := <-sub.Channel():
		if ok {
			t.Error("Expected channel close, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for channel close")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(context.Background(), TopicAnalysis)
	bus.Close()

	bus.Publish(TopicAnalysis, "late") // must not panic

	if _, ok := <-sub.Channel(); ok {
		t.Error("Expected closed channel after bus Close")
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := New()
	defer bus.Close()

	bus.Subscribe(context.Background(), TopicAnalysis)

	done := make(chan struct{})
	go func() {
		// More messages than the channel buffer; Publish must not block.
		for i := 0; i < 200; i++ {
			bus.Publish(TopicAnalysis, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
