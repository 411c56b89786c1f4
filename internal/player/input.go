package player

import (
	"io"
	"time"
)

// inputPoller reads raw bytes from r on a background goroutine and
// buffers them on a channel, letting the single-threaded main loop poll
// with a bounded timeout instead of blocking on Read.
type inputPoller struct {
	ch    chan []byte
	errCh chan error
}

func newInputPoller(r io.Reader) *inputPoller {
	p := &inputPoller{ch: make(chan []byte, 16), errCh: make(chan error, 1)}
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				p.ch <- chunk
			}
			if err != nil {
				p.errCh <- err
				return
			}
		}
	}()
	return p
}

// poll waits up to timeout for a chunk of input. A nil, nil return means
// nothing arrived in time.
func (p *inputPoller) poll(timeout time.Duration) ([]byte, error) {
	select {
	case b := <-p.ch:
		return b, nil
	case err := <-p.errCh:
		return nil, err
	case <-time.After(timeout):
		return nil, nil
	}
}
