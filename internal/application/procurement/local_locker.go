package procurement

import (
	"context"
	"sync"
)

var _ DecisionLocker = (*LocalLocker)(nil)

// LocalLocker serializa por clave dentro del proceso. Es el lock por defecto cuando la
// API corre sin Redis; con varias réplicas hace falta el DecisionLocker de Redis.
// A diferencia de aquel, espera a que la clave se libere en lugar de fallar.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker crea el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: map[string]*lockSlot{}}
}

// Acquire bloquea hasta obtener la clave o hasta que ctx termine.
func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(context.Context), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, s)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func(context.Context) {
		once.Do(func() {
			<-s.ch
			l.drop(key, s)
		})
	}, nil
}

func (l *LocalLocker) drop(key string, s *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
