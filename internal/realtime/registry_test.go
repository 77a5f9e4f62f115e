package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
)

type emitted struct {
	event   string
	payload interface{}
}

type fakeConn struct {
	mu     sync.Mutex
	events []emitted
	closed bool
}

func (f *fakeConn) Emit(event string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{event: event, payload: payload})
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) Events() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emitted, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeConn) presence() []PresenceUpdate {
	var out []PresenceUpdate
	for _, e := range f.Events() {
		if e.event == EventPresenceUpdate {
			out = append(out, e.payload.(PresenceUpdate))
		}
	}
	return out
}

func TestRegistry_RegisterBroadcastsOnlineToEveryone(t *testing.T) {
	r := NewRegistry()
	a, b := &fakeConn{}, &fakeConn{}

	r.Register(1, a, models.RoleElderly)
	r.Register(2, b, models.RoleFamily)

	assert.True(t, r.IsOnline(1))
	assert.True(t, r.IsOnline(2))
	assert.Equal(t, []PresenceUpdate{{UserID: 1, Online: true}, {UserID: 2, Online: true}}, a.presence())
	assert.Equal(t, []PresenceUpdate{{UserID: 2, Online: true}}, b.presence())

	role, ok := r.RoleOf(2)
	require.True(t, ok)
	assert.Equal(t, models.RoleFamily, role)
	assert.Equal(t, []uint{1, 2}, r.OnlineUsers())
}

func TestRegistry_LaterRegistrationReplacesEarlier(t *testing.T) {
	r := NewRegistry()
	first, second := &fakeConn{}, &fakeConn{}

	r.Register(7, first, models.RoleElderly)
	r.Register(7, second, models.RoleElderly)

	conn, ok := r.Lookup(7)
	require.True(t, ok)
	assert.Same(t, second, conn)
	assert.Len(t, r.OnlineUsers(), 1)
}

func TestRegistry_UnregisterAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	watcher := &fakeConn{}
	r.Register(1, watcher, models.RoleFamily)

	r.Unregister(99)

	assert.Len(t, watcher.presence(), 1)
	assert.False(t, r.IsOnline(99))
}

func TestRegistry_UnregisterBroadcastsOffline(t *testing.T) {
	r := NewRegistry()
	watcher, leaving := &fakeConn{}, &fakeConn{}
	r.Register(1, watcher, models.RoleFamily)
	r.Register(2, leaving, models.RoleElderly)

	r.Unregister(2)

	assert.False(t, r.IsOnline(2))
	updates := watcher.presence()
	require.Len(t, updates, 3)
	assert.Equal(t, PresenceUpdate{UserID: 2, Online: false}, updates[2])
}

func TestRegistry_ReleaseIgnoresStaleConnection(t *testing.T) {
	r := NewRegistry()
	stale, fresh := &fakeConn{}, &fakeConn{}
	r.Register(3, stale, models.RoleElderly)
	r.Register(3, fresh, models.RoleElderly)

	assert.False(t, r.Release(3, stale))
	assert.True(t, r.IsOnline(3))

	assert.True(t, r.Release(3, fresh))
	assert.False(t, r.IsOnline(3))
	assert.False(t, r.Release(3, fresh))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := uint(1); i <= 50; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			c := &fakeConn{}
			r.Register(id, c, models.RoleElderly)
			_ = r.IsOnline(id)
			r.Broadcast(EventPing, nil)
			if id%2 == 0 {
				r.Release(id, c)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.OnlineUsers(), 25)
}
