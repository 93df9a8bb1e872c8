package transport

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wavbox/internal/infra/config"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func TestStream_ReadWrite(t *testing.T) {
	local, peer := net.Pipe()
	s := NewStream(local)
	defer s.Close()

	assert.False(t, s.Readable())
	_, err := s.ReadByte()
	assert.ErrorIs(t, err, ErrNoData)
	assert.True(t, s.Writable())

	go func() { _, _ = peer.Write([]byte("!B2")) }()
	require.Eventually(t, func() bool { return len(s.rx) == 3 }, waitFor, tick)

	got := make([]byte, 0, 3)
	for s.Readable() {
		b, err := s.ReadByte()
		require.NoError(t, err)
		got = append(got, b)
	}
	assert.Equal(t, "!B2", string(got))

	received := make(chan byte, 1)
	go func() {
		buf := make([]byte, 1)
		if _, err := io.ReadFull(peer, buf); err == nil {
			received <- buf[0]
		}
	}()
	require.NoError(t, s.WriteByte('C'))
	select {
	case b := <-received:
		assert.Equal(t, byte('C'), b)
	case <-time.After(waitFor):
		t.Fatal("peer did not receive byte")
	}
}

func TestStream_PeerClosed(t *testing.T) {
	local, peer := net.Pipe()
	s := NewStream(local)
	defer s.Close()

	require.NoError(t, peer.Close())
	require.Eventually(t, func() bool { return !s.Connected() }, waitFor, tick)

	assert.False(t, s.Writable())
	assert.ErrorIs(t, s.WriteByte('x'), ErrNotConnected)
	_, err := s.ReadByte()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	local, _ := net.Pipe()
	s := NewStream(local)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.False(t, s.Connected())
}

func TestTCPBridge_SingleClient(t *testing.T) {
	b, err := ListenTCP(map[string]any{"addr": "127.0.0.1:0"})
	require.NoError(t, err)
	defer b.Close()

	assert.False(t, b.Writable())
	_, err = b.ReadByte()
	assert.ErrorIs(t, err, ErrNotConnected)

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, b.Writable, waitFor, tick)

	_, err = conn.Write([]byte("!B1"))
	require.NoError(t, err)
	require.Eventually(t, b.Readable, waitFor, tick)
	v, err := b.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('!'), v)

	require.NoError(t, b.WriteByte('S'))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	buf := make([]byte, 1)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, byte('S'), buf[0])

	second, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.SetReadDeadline(time.Now().Add(waitFor)))
	_, err = second.Read(buf)
	assert.Error(t, err, "second client should be disconnected")
}

func TestTCPBridge_Reconnect(t *testing.T) {
	b, err := ListenTCP(map[string]any{"addr": "127.0.0.1:0"})
	require.NoError(t, err)
	defer b.Close()

	first, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	require.Eventually(t, b.Writable, waitFor, tick)
	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return !b.Writable() }, waitFor, tick)

	second, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer second.Close()
	require.Eventually(t, b.Writable, waitFor, tick)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TransportConfig
		wantErr error
	}{
		{
			name:    "unsupported type",
			cfg:     config.TransportConfig{Type: "bluetooth"},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "none is not constructible",
			cfg:     config.TransportConfig{Type: config.TransportNone},
			wantErr: ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("tcp", func(t *testing.T) {
		tr, err := New(config.TransportConfig{
			Type:     config.TransportTCP,
			Settings: map[string]any{"addr": "127.0.0.1:0"},
		})
		require.NoError(t, err)
		assert.NoError(t, tr.Close())
	})
}

func TestOpenSerial_Settings(t *testing.T) {
	t.Run("missing port", func(t *testing.T) {
		_, err := OpenSerial(map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid serial settings")
	})

	t.Run("nonexistent port", func(t *testing.T) {
		_, err := OpenSerial(map[string]any{"port": "/nonexistent/ttyWAV0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/nonexistent/ttyWAV0")
	})

	t.Run("defaults", func(t *testing.T) {
		var cfg SerialConfig
		require.NoError(t, decodeSettings(map[string]any{"port": "/dev/ttyS0"}, &cfg))
		assert.Equal(t, 9600, cfg.BaudRate)
		assert.Equal(t, 100, cfg.ReadTimeoutMs)
	})
}
