// Package keylock provides a context-aware mutex keyed by string,
// used to serialize per-user and per-project critical sections.
package keylock

import (
	"context"
	"errors"
	"sync"
)

// ErrContended indicates the lock could not be acquired before the
// caller's context expired. Callers may retry at a higher layer.
var ErrContended = errors.New("keylock: lock contention")

// KeyedMutex serializes access per key. Keys are independent; holding
// one key never blocks another.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	refs  map[string]int
}

// New constructs a KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]chan struct{}),
		refs:  make(map[string]int),
	}
}

// Acquire blocks until the key's lock is held or ctx is done. On ctx
// expiry it returns ErrContended wrapping the context error. After a
// successful Acquire the critical section runs to completion; Release
// must be called exactly once.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	ch, ok := k.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.locks[key] = ch
	}
	k.refs[key]++
	k.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.drop(key)
		return errors.Join(ErrContended, ctx.Err())
	}
}

// Release frees the key's lock.
func (k *KeyedMutex) Release(key string) {
	k.mu.Lock()
	ch, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-ch:
	default:
	}
	k.drop(key)
}

// drop decrements the key's refcount and removes idle entries so the
// map does not grow with the key space.
func (k *KeyedMutex) drop(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.refs[key]--
	if k.refs[key] <= 0 {
		delete(k.refs, key)
		delete(k.locks, key)
	}
}
