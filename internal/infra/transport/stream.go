package transport

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

const (
	rxBufferSize = 256
	readChunk    = 64
)

// Stream adapts a blocking io.ReadWriteCloser to the Transport interface.
// A background goroutine drains the reader into a bounded buffer.
type Stream struct {
	rwc     io.ReadWriteCloser
	rx      chan byte
	done    chan struct{}
	closing chan struct{}
	once    sync.Once
	writeMu sync.Mutex
}

// NewStream starts reading from rwc.
func NewStream(rwc io.ReadWriteCloser) *Stream {
	s := &Stream{
		rwc:     rwc,
		rx:      make(chan byte, rxBufferSize),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Stream) readLoop() {
	defer close(s.done)
	buf := make([]byte, readChunk)
	for {
		n, err := s.rwc.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case s.rx <- buf[i]:
			case <-s.closing:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				zlog.Debug().Msgf("transport: read loop ended: %v", err)
			}
			return
		}
	}
}

// Readable reports whether a byte is buffered.
func (s *Stream) Readable() bool {
	return len(s.rx) > 0
}

// ReadByte returns the next buffered byte without blocking.
func (s *Stream) ReadByte() (byte, error) {
	select {
	case b := <-s.rx:
		return b, nil
	default:
	}
	if s.Connected() {
		return 0, ErrNoData
	}
	return 0, ErrNotConnected
}

// Writable reports whether the peer is still connected.
func (s *Stream) Writable() bool {
	return s.Connected()
}

// WriteByte writes a single byte.
func (s *Stream) WriteByte(b byte) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.rwc.Write([]byte{b}); err != nil {
		return errors.Wrap(err, "failed to write byte")
	}
	return nil
}

// Connected reports whether the read side is still open.
func (s *Stream) Connected() bool {
	select {
	case <-s.done:
		return false
	case <-s.closing:
		return false
	default:
		return true
	}
}

// Done is closed when the read side ends.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close closes the underlying stream.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closing)
		err = s.rwc.Close()
	})
	return err
}
