package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversProgressToSubscriber(t *testing.T) {
	b := New()
	events, unsubscribe := b.Subscribe(1)
	defer unsubscribe()

	b.PublishProgress(Progress{ScheduleID: 1, CurrentGeneration: 3, TotalGenerations: 10, BestFitness: 0.5})

	select {
	case evt := <-events:
		require.NotNil(t, evt.Progress)
		assert.Equal(t, 3, evt.Progress.CurrentGeneration)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestBrokerIsolatesSubscribersByScheduleID(t *testing.T) {
	b := New()
	eventsA, unsubA := b.Subscribe(1)
	defer unsubA()
	eventsB, unsubB := b.Subscribe(2)
	defer unsubB()

	b.PublishComplete(Complete{ScheduleID: 1, FitnessScore: 0.9, DetailCount: 40})

	select {
	case evt := <-eventsA:
		require.NotNil(t, evt.Complete)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for complete event on schedule 1")
	}

	select {
	case <-eventsB:
		t.Fatal("schedule 2 subscriber should not receive schedule 1's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	events, unsubscribe := b.Subscribe(1)
	unsubscribe()

	_, ok := <-events
	assert.False(t, ok)
}

func TestBrokerDropsEventsWhenBufferFull(t *testing.T) {
	b := New()
	events, unsubscribe := b.Subscribe(1)
	defer unsubscribe()

	for i := 0; i < subscriberBufferSize+5; i++ {
		b.PublishProgress(Progress{ScheduleID: 1, CurrentGeneration: i})
	}

	assert.Equal(t, subscriberBufferSize, len(events))
}

func TestBrokerPublishWithNoSubscribersDoesNotPanic(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.PublishFailed(Failed{ScheduleID: 99, Reason: "no subscribers"})
	})
}
