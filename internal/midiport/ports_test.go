package midiport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"
)

func TestResolveSelectorIndex(t *testing.T) {
	names := []string{"POD 2.0 MIDI In", "Midi Through In"}
	idx, ok := resolveSelector(names, "1")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = resolveSelector(names, "5")
	assert.False(t, ok)
}

func TestResolveSelectorWireAddress(t *testing.T) {
	names := []string{"Midi Through In", "POD 2.0 MIDI In 20:0"}
	idx, ok := resolveSelector(names, "20:0")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestResolveSelectorExactName(t *testing.T) {
	names := []string{"Midi Through In", "POD 2.0 MIDI In"}
	idx, ok := resolveSelector(names, "POD 2.0 MIDI In")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = resolveSelector(names, "no such port")
	assert.False(t, ok)
}

func TestIsOwnVirtualPort(t *testing.T) {
	assert.True(t, IsOwnVirtualPort("pod midi in: 1"))
	assert.True(t, IsOwnVirtualPort("pod midi out: 1"))
	assert.False(t, IsOwnVirtualPort("POD 2.0 MIDI In"))
}

type fakeIn struct {
	name     string
	openErr  error
	closed   bool
	listener func(msg []byte, ts int32)
}

func (f *fakeIn) String() string { return f.name }
func (f *fakeIn) Open() error    { return f.openErr }
func (f *fakeIn) Close() error   { f.closed = true; return nil }
func (f *fakeIn) Listen(cb func(msg []byte, timestampms int32), _ drivers.ListenConfig) (func(), error) {
	f.listener = cb
	stopped := false
	return func() { stopped = true; _ = stopped }, nil
}

type fakeOut struct {
	name    string
	openErr error
	sendErr error
	sent    [][]byte
	closed  bool
}

func (f *fakeOut) String() string { return f.name }
func (f *fakeOut) Open() error    { return f.openErr }
func (f *fakeOut) Close() error   { f.closed = true; return nil }
func (f *fakeOut) Send(b []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, b)
	return nil
}

func TestOpenInputPortDeliversFrames(t *testing.T) {
	fi := &fakeIn{name: "POD 2.0 MIDI In"}
	h, err := openInputPort(fi)
	require.NoError(t, err)
	require.NotNil(t, fi.listener)

	fi.listener([]byte{0xB0, 4, 100}, 0)
	frame, ok := h.Recv()
	require.True(t, ok)
	assert.Equal(t, []byte{0xB0, 4, 100}, frame)

	require.NoError(t, h.Close())
	assert.True(t, fi.closed)
	_, ok = h.Recv()
	assert.False(t, ok)
}

func TestOpenInputPortOpenError(t *testing.T) {
	fi := &fakeIn{name: "x", openErr: errors.New("busy")}
	_, err := openInputPort(fi)
	assert.ErrorIs(t, err, ErrConnect)
}

func TestInputHandleRecvContextCancel(t *testing.T) {
	fi := &fakeIn{name: "x"}
	h, err := openInputPort(fi)
	require.NoError(t, err)
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, ok := h.RecvContext(ctx)
	assert.False(t, ok)
}

func TestOpenOutputPortSend(t *testing.T) {
	fo := &fakeOut{name: "POD 2.0 MIDI Out"}
	h, err := openOutputPort(fo)
	require.NoError(t, err)

	require.NoError(t, h.Send([]byte{0xB0, 4, 100}))
	assert.Equal(t, [][]byte{{0xB0, 4, 100}}, fo.sent)

	require.NoError(t, h.Close())
	assert.True(t, fo.closed)
}

func TestOpenOutputPortSendError(t *testing.T) {
	fo := &fakeOut{name: "x", sendErr: errors.New("disconnected")}
	h, err := openOutputPort(fo)
	require.NoError(t, err)

	err = h.Send([]byte{0xB0, 4, 100})
	assert.ErrorIs(t, err, ErrSend)
}

func TestOpenOutputPortOpenError(t *testing.T) {
	fo := &fakeOut{name: "x", openErr: errors.New("busy")}
	_, err := openOutputPort(fo)
	assert.ErrorIs(t, err, ErrConnect)
}

func TestUnboundedQueueConcurrentPushPop(t *testing.T) {
	q := newUnboundedQueue()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			q.push([]byte{byte(i)})
		}
		q.close()
	}()

	count := 0
	for {
		_, ok := q.pop()
		if !ok {
			break
		}
		count++
	}
	wg.Wait()
	assert.Equal(t, 100, count)
}
