package transport

import (
	"net"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// TCPConfig configures the TCP bridge.
type TCPConfig struct {
	Addr string `mapstructure:"addr" default:":9000" validate:"required"`
}

// TCPBridge exposes the link on a TCP port for a single client at a time.
// Further clients are refused while one is connected.
type TCPBridge struct {
	ln     net.Listener
	mu     sync.Mutex
	client *Stream
	wg     sync.WaitGroup
}

// ListenTCP starts the bridge described by settings.
func ListenTCP(settings map[string]any) (*TCPBridge, error) {
	var cfg TCPConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "invalid tcp settings")
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", cfg.Addr)
	}
	zlog.Info().Msgf("transport: tcp bridge listening: addr=%s", ln.Addr())

	b := &TCPBridge{ln: ln}
	b.wg.Add(1)
	go b.acceptLoop()
	return b, nil
}

// Addr returns the listening address.
func (b *TCPBridge) Addr() net.Addr {
	return b.ln.Addr()
}

func (b *TCPBridge) acceptLoop() {
	defer b.wg.Done()
	for {
		conn, err := b.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			zlog.Warn().Msgf("transport: accept failed: %v", err)
			continue
		}

		b.mu.Lock()
		if b.client != nil && b.client.Connected() {
			b.mu.Unlock()
			zlog.Warn().Msgf("transport: refusing second client: remote=%s", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		if b.client != nil {
			_ = b.client.Close()
		}
		b.client = NewStream(conn)
		b.mu.Unlock()
		zlog.Info().Msgf("transport: client connected: remote=%s", conn.RemoteAddr())
	}
}

func (b *TCPBridge) current() *Stream {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client
}

// Readable reports whether the connected client has sent a byte.
func (b *TCPBridge) Readable() bool {
	c := b.current()
	return c != nil && c.Readable()
}

// ReadByte returns the next byte from the connected client.
func (b *TCPBridge) ReadByte() (byte, error) {
	c := b.current()
	if c == nil {
		return 0, ErrNotConnected
	}
	return c.ReadByte()
}

// Writable reports whether a client is connected.
func (b *TCPBridge) Writable() bool {
	c := b.current()
	return c != nil && c.Writable()
}

// WriteByte sends a byte to the connected client.
func (b *TCPBridge) WriteByte(v byte) error {
	c := b.current()
	if c == nil {
		return ErrNotConnected
	}
	return c.WriteByte(v)
}

// Close stops accepting and disconnects the client.
func (b *TCPBridge) Close() error {
	err := b.ln.Close()
	b.mu.Lock()
	if b.client != nil {
		_ = b.client.Close()
	}
	b.mu.Unlock()
	b.wg.Wait()
	return err
}
