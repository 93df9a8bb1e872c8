package remote

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wavbox/internal/app/playback"
	"github.com/osa030/wavbox/internal/domain/playlist"
	"github.com/osa030/wavbox/internal/domain/track"
)

type fakeTransport struct {
	mu       sync.Mutex
	in       []byte
	out      bytes.Buffer
	writable bool
	failAt   int // fail the Nth write (1-based), 0 disables
	writes   int
}

func (f *fakeTransport) push(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in = append(f.in, s...)
}

func (f *fakeTransport) Readable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.in) > 0
}

func (f *fakeTransport) ReadByte() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.in) == 0 {
		return 0, errors.New("empty")
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, nil
}

func (f *fakeTransport) Writable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writable
}

func (f *fakeTransport) WriteByte(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.failAt > 0 && f.writes == f.failAt {
		return errors.New("link dropped")
	}
	return f.out.WriteByte(b)
}

func (f *fakeTransport) sent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

type recordingDispatcher struct {
	mu      sync.Mutex
	actions []playback.Action
}

func (r *recordingDispatcher) Submit(a playback.Action) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return true
}

func (r *recordingDispatcher) got() []playback.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]playback.Action(nil), r.actions...)
}

func newLinkState(t *testing.T) *playback.State {
	t.Helper()
	p, err := playlist.New([]track.Track{{Name: "a.wav"}, {Name: "b.wav"}, {Name: "c.wav"}})
	require.NoError(t, err)
	return playback.NewState(p)
}

func TestLink_AnnouncesOnlyChanges(t *testing.T) {
	state := newLinkState(t)
	tr := &fakeTransport{writable: true}
	l := NewLink(state, tr, &recordingDispatcher{}, Config{})

	l.Poll()
	assert.Empty(t, tr.sent(), "initial track is not announced")

	require.NoError(t, state.SetIndex(1))
	l.Poll()
	assert.Equal(t, "Current Song: b\n", tr.sent())

	l.Poll()
	assert.Equal(t, "Current Song: b\n", tr.sent(), "unchanged selection is not resent")

	require.NoError(t, state.SetIndex(0))
	l.Poll()
	assert.Equal(t, "Current Song: b\nCurrent Song: a\n", tr.sent())
}

func TestLink_WaitsForWritable(t *testing.T) {
	state := newLinkState(t)
	tr := &fakeTransport{}
	l := NewLink(state, tr, &recordingDispatcher{}, Config{})

	require.NoError(t, state.SetIndex(2))
	l.Poll()
	assert.Empty(t, tr.sent())

	tr.mu.Lock()
	tr.writable = true
	tr.mu.Unlock()
	l.Poll()
	assert.Equal(t, "Current Song: c\n", tr.sent())
}

func TestLink_RetriesAfterWriteFailure(t *testing.T) {
	state := newLinkState(t)
	tr := &fakeTransport{writable: true, failAt: 3}
	l := NewLink(state, tr, &recordingDispatcher{}, Config{})

	require.NoError(t, state.SetIndex(1))
	l.Poll()
	assert.Equal(t, "Cu", tr.sent())

	l.Poll()
	assert.Equal(t, "CuCurrent Song: b\n", tr.sent())
}

func TestLink_DispatchesReleaseCommands(t *testing.T) {
	state := newLinkState(t)
	tr := &fakeTransport{}
	d := &recordingDispatcher{}
	l := NewLink(state, tr, d, Config{})

	tr.push("!B21!B20junk!B90!B10!X40")
	l.Poll()

	assert.Equal(t, []playback.Action{playback.ActionNext, playback.ActionTogglePlay}, d.got())
}

func TestLink_FrameSplitAcrossPolls(t *testing.T) {
	state := newLinkState(t)
	tr := &fakeTransport{}
	d := &recordingDispatcher{}
	l := NewLink(state, tr, d, Config{})

	tr.push("!B")
	l.Poll()
	assert.Empty(t, d.got())

	tr.push("40")
	l.Poll()
	assert.Equal(t, []playback.Action{playback.ActionShuffle}, d.got())
}

func TestLink_Run(t *testing.T) {
	state := newLinkState(t)
	tr := &fakeTransport{writable: true}
	d := &recordingDispatcher{}
	l := NewLink(state, tr, d, Config{PollInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	tr.push("!B30")
	require.Eventually(t, func() bool { return len(d.got()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, state.SetIndex(2))
	require.Eventually(t, func() bool { return tr.sent() == "Current Song: c\n" }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
