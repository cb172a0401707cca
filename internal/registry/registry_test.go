package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	key    string
	mu     sync.Mutex
	pushed [][]byte
	fail   bool
}

func (f *fakeHandle) Key() string { return f.key }

func (f *fakeHandle) Push(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("handle closed")
	}
	f.pushed = append(f.pushed, data)
	return nil
}

func (f *fakeHandle) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushed)
}

func TestRegisterUnregisterPresence(t *testing.T) {
	r := New(nil)
	userID := uuid.New()

	assert.False(t, r.IsOnline(userID))

	h1 := &fakeHandle{key: "h1"}
	h2 := &fakeHandle{key: "h2"}
	r.Register(userID, h1)
	r.Register(userID, h2)
	assert.True(t, r.IsOnline(userID))

	r.Unregister(h1)
	assert.True(t, r.IsOnline(userID), "one connection still open")

	r.Unregister(h2)
	assert.False(t, r.IsOnline(userID), "last unregister transitions to offline")
}

func TestRegisterIdempotent(t *testing.T) {
	r := New(nil)
	userID := uuid.New()
	h := &fakeHandle{key: "h1"}

	r.Register(userID, h)
	r.Register(userID, h)

	assert.Equal(t, 1, r.Send(userID, "ping", nil), "duplicate register must not duplicate the handle")
}

func TestUnregisterUnknownHandleIsNoop(t *testing.T) {
	r := New(nil)
	r.Unregister(&fakeHandle{key: "ghost"})
	assert.Empty(t, r.ListOnline())
}

func TestHandleAppearsInAtMostOneUserSet(t *testing.T) {
	r := New(nil)
	alice := uuid.New()
	bob := uuid.New()
	h := &fakeHandle{key: "shared"}

	r.Register(alice, h)
	r.Register(bob, h)

	assert.False(t, r.IsOnline(alice))
	assert.True(t, r.IsOnline(bob))
	assert.Equal(t, 0, r.Send(alice, "ping", nil))
	assert.Equal(t, 1, r.Send(bob, "ping", nil))
}

func TestListOnline(t *testing.T) {
	r := New(nil)
	alice := uuid.New()
	bob := uuid.New()

	r.Register(alice, &fakeHandle{key: "a1"})
	r.Register(bob, &fakeHandle{key: "b1"})

	online := r.ListOnline()
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, online)
}

func TestSendReachesAllHandles(t *testing.T) {
	r := New(nil)
	userID := uuid.New()
	h1 := &fakeHandle{key: "h1"}
	h2 := &fakeHandle{key: "h2"}
	r.Register(userID, h1)
	r.Register(userID, h2)

	reached := r.Send(userID, "receiveMessage", map[string]string{"body": "hi"})
	assert.Equal(t, 2, reached)

	require.Equal(t, 1, h1.count())
	var env Envelope
	require.NoError(t, json.Unmarshal(h1.pushed[0], &env))
	assert.Equal(t, "receiveMessage", env.Event)
}

func TestSendToOfflineUserReturnsZero(t *testing.T) {
	r := New(nil)
	assert.Equal(t, 0, r.Send(uuid.New(), "newNotification", nil))
}

func TestSendSkipsFailingHandle(t *testing.T) {
	r := New(nil)
	userID := uuid.New()
	broken := &fakeHandle{key: "broken", fail: true}
	healthy := &fakeHandle{key: "healthy"}
	r.Register(userID, broken)
	r.Register(userID, healthy)

	reached := r.Send(userID, "receiveMessage", nil)
	assert.Equal(t, 1, reached, "failure on one handle must not block the other")
	assert.Equal(t, 1, healthy.count())
}

func TestConcurrentRegisterUnregisterSend(t *testing.T) {
	r := New(nil)
	users := make([]uuid.UUID, 8)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := users[i%len(users)]
			h := &fakeHandle{key: fmt.Sprintf("h-%d", i)}
			r.Register(userID, h)
			r.Send(userID, "ping", i)
			r.IsOnline(userID)
			r.Unregister(h)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, r.ListOnline(), "all handles unregistered")
}
