package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsMonotonicIDs(t *testing.T) {
	n := NewNotifications()

	var ids []int64
	for i := 0; i < 10; i++ {
		ids = append(ids, n.Add(TypeInfo, "msg", 0))
	}

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1], "ids must be strictly increasing")
	}
}

func TestAppendOrderIsDisplayOrder(t *testing.T) {
	n := NewNotifications()
	n.Add(TypeInfo, "first", 0)
	n.Add(TypeError, "second", 0)
	n.Add(TypeSuccess, "third", 0)

	list := n.List()
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Message)
	assert.Equal(t, "second", list[1].Message)
	assert.Equal(t, "third", list[2].Message)
}

func TestRemoveIsIdempotent(t *testing.T) {
	n := NewNotifications()
	id := n.Add(TypeInfo, "msg", 0)

	n.Remove(id)
	after := n.List()

	// Second removal of the same id must leave identical state.
	n.Remove(id)
	assert.Equal(t, after, n.List())
	assert.Empty(t, n.List())
}

func TestZeroDurationIsNeverAutoRemoved(t *testing.T) {
	n := NewNotifications()
	n.Add(TypeWarning, "sticky", 0)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, n.List(), 1, "zero-duration notification must persist")
}

func TestAutoRemovalAfterDuration(t *testing.T) {
	n := NewNotifications()
	n.Add(TypeInfo, "fleeting", 20*time.Millisecond)

	require.Len(t, n.List(), 1)

	assert.Eventually(t, func() bool {
		return len(n.List()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestManualDismissCancelsTimer(t *testing.T) {
	n := NewNotifications()
	id := n.Add(TypeInfo, "msg", 20*time.Millisecond)
	n.Remove(id)

	// Let the (cancelled) timer window pass; nothing should change or panic.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, n.List())
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	n := NewNotifications()

	var mu sync.Mutex
	var calls int
	unsubscribe := n.Subscribe(func(items []Notification) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	n.Add(TypeInfo, "a", 0)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()

	unsubscribe()
	n.Add(TypeInfo, "b", 0)
	mu.Lock()
	assert.Equal(t, 1, calls, "unsubscribed listener must not fire")
	mu.Unlock()
}

func TestHelperDurations(t *testing.T) {
	n := NewNotifications()
	n.Success("ok")
	n.Error("bad")
	n.Warning("careful")
	n.Info("fyi")

	list := n.List()
	require.Len(t, list, 4)
	assert.Equal(t, SuccessDuration, list[0].Duration)
	assert.Equal(t, ErrorDuration, list[1].Duration)
	assert.Equal(t, WarningDuration, list[2].Duration)
	assert.Equal(t, InfoDuration, list[3].Duration)
}

func TestClearCancelsAllTimers(t *testing.T) {
	n := NewNotifications()
	n.Add(TypeInfo, "a", time.Minute)
	n.Add(TypeInfo, "b", 0)
	n.Clear()
	assert.Empty(t, n.List())
}
