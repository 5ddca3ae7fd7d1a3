package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRelay(start time.Time) (*Relay, *time.Time) {
	clock := start
	r := New()
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRateLimitOneBroadcastPerSecond(t *testing.T) {
	r, clock := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")

	// 50 ticks inside a 2 second window: the first passes, then one more
	// once a full interval has elapsed.
	broadcasts := 0
	for i := 0; i < 50; i++ {
		*clock = time.Unix(1000, 0).Add(time.Duration(i) * 40 * time.Millisecond)
		if r.RecordTime("room-1", "host", TimeUpdate{CurrentTime: float64(i)}) {
			broadcasts++
		}
	}
	assert.Equal(t, 2, broadcasts)
}

func TestRateLimitRecoversAfterInterval(t *testing.T) {
	r, clock := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")

	assert.True(t, r.RecordTime("room-1", "host", TimeUpdate{}))
	assert.False(t, r.RecordTime("room-1", "host", TimeUpdate{}))

	*clock = clock.Add(1100 * time.Millisecond)
	assert.True(t, r.RecordTime("room-1", "host", TimeUpdate{}))
}

func TestNonHostTimeUpdatesDropped(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")

	for i := 0; i < 10; i++ {
		assert.False(t, r.RecordTime("room-1", "listener", TimeUpdate{CurrentTime: float64(i)}))
	}
	// the host is unaffected by the dropped ticks
	assert.True(t, r.RecordTime("room-1", "host", TimeUpdate{}))
}

func TestUnknownRoomDropsTicks(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	assert.False(t, r.RecordTime("nowhere", "host", TimeUpdate{}))
}

func TestRoomsRateLimitedIndependently(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host-1")
	r.SetHost("room-2", "host-2")

	assert.True(t, r.RecordTime("room-1", "host-1", TimeUpdate{}))
	assert.True(t, r.RecordTime("room-2", "host-2", TimeUpdate{}))
}

func TestLoopTogglingHostOnlyAndUnlimited(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")

	_, ok := r.SetLooping("room-1", "listener", true)
	assert.False(t, ok)

	// discrete loop events are never rate-limited
	for i := 0; i < 5; i++ {
		loop, ok := r.SetLooping("room-1", "host", i%2 == 0)
		assert.True(t, ok)
		assert.Equal(t, i%2 == 0, loop.IsLooping)
	}
}

func TestLoopRangePropagation(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")

	start, end := 12.5, 48.0
	loop, ok := r.SetLoopRange("room-1", "host", &start, &end, true)
	assert.True(t, ok)
	assert.Equal(t, &start, loop.LoopStart)
	assert.Equal(t, &end, loop.LoopEnd)
	assert.True(t, loop.IsLoopingRange)

	got := r.Loop("room-1")
	assert.Equal(t, loop, got)

	// clearing the range
	loop, ok = r.SetLoopRange("room-1", "host", nil, nil, false)
	assert.True(t, ok)
	assert.Nil(t, loop.LoopStart)
	assert.False(t, loop.IsLoopingRange)
}

func TestSeedLoopYieldsToHostWrites(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")

	start, end := 5.0, 20.0
	r.SeedLoop("room-1", LoopState{IsLoopingRange: true, LoopStart: &start, LoopEnd: &end})
	assert.True(t, r.Loop("room-1").IsLoopingRange)

	// a second seed (another joiner) must not reset the state
	r.SeedLoop("room-1", LoopState{})
	assert.True(t, r.Loop("room-1").IsLoopingRange)

	// nor may a seed undo a host write
	r.SetLooping("room-1", "host", true)
	r.SeedLoop("room-1", LoopState{})
	assert.True(t, r.Loop("room-1").IsLooping)
}

func TestHostTransfer(t *testing.T) {
	r, clock := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "old-host")
	assert.True(t, r.RecordTime("room-1", "old-host", TimeUpdate{}))

	r.SetHost("room-1", "new-host")
	assert.Equal(t, "new-host", r.host("room-1"))

	*clock = clock.Add(2 * time.Second)
	assert.False(t, r.RecordTime("room-1", "old-host", TimeUpdate{}))
	assert.True(t, r.RecordTime("room-1", "new-host", TimeUpdate{}))
}

func TestForget(t *testing.T) {
	r, _ := newTestRelay(time.Unix(1000, 0))
	r.SetHost("room-1", "host")
	r.Forget("room-1")

	assert.Equal(t, "", r.host("room-1"))
	assert.False(t, r.RecordTime("room-1", "host", TimeUpdate{}))
}
