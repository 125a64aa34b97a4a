package vision

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
)

// AcquireTimeout сколько ждать свободную сессию инференса.
const AcquireTimeout = 5 * time.Second

var errPoolClosed = errors.New("pool is closed")

// modelSession сессия ONNX с собственными входным и выходным тензорами.
type modelSession struct {
	Session *ort.AdvancedSession
	Input   *ort.Tensor[float32]
	Output  *ort.Tensor[float32]
}

func (m *modelSession) Destroy() {
	if m.Session != nil {
		m.Session.Destroy()
	}
	if m.Input != nil {
		m.Input.Destroy()
	}
	if m.Output != nil {
		m.Output.Destroy()
	}
}

// sessionPool ограниченный набор сессий; одна сессия не используется двумя запросами сразу.
type sessionPool struct {
	sessions chan *modelSession
	size     int
	mu       sync.Mutex
	closed   bool
}

func newSessionPool(size int, factory func() (*modelSession, error)) (*sessionPool, error) {
	if size <= 0 {
		size = 1
	}

	pool := &sessionPool{
		sessions: make(chan *modelSession, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		session, err := factory()
		if err != nil {
			pool.Destroy()
			return nil, fmt.Errorf("failed to initialize session %d: %w", i, err)
		}
		pool.sessions <- session
	}

	return pool, nil
}

func (p *sessionPool) Acquire(ctx context.Context) (*modelSession, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, errPoolClosed
	}

	timer := time.NewTimer(AcquireTimeout)
	defer timer.Stop()

	select {
	case session, ok := <-p.sessions:
		if !ok {
			return nil, errPoolClosed
		}
		return session, nil
	case <-timer.C:
		return nil, errors.New("timeout waiting for available session")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *sessionPool) Release(session *modelSession) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		session.Destroy()
		return
	}
	p.sessions <- session
}

func (p *sessionPool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	close(p.sessions)

	for session := range p.sessions {
		session.Destroy()
	}
}
