// Package list implements a singly linked, tail-appending list whose link
// structure is guarded by a mutex. It is the ownership container for
// modules, thread contexts and trace ranges.
package list

import "sync"

type node[T any] struct {
	next *node[T]
	val  T
}

// A List is safe for concurrent use. The lock protects list membership only;
// the values themselves are not synchronized.
type List[T any] struct {
	mu    sync.Mutex
	head  *node[T]
	tail  *node[T]
	count int
}

// New returns an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// InsertTail appends v in O(1).
func (l *List[T]) InsertTail(v T) {
	n := &node[T]{val: v}

	l.mu.Lock()
	if l.head == nil {
		l.head = n
		l.tail = n
		l.count = 1
	} else {
		l.tail.next = n
		l.tail = n
		l.count++
	}
	l.mu.Unlock()
}

// PopHead removes and returns the first value. If takeLock is false the
// caller must already hold the lock (see Lock).
func (l *List[T]) PopHead(takeLock bool) (T, bool) {
	if takeLock {
		l.mu.Lock()
		defer l.mu.Unlock()
	}

	var zero T
	n := l.head
	if n == nil {
		return zero, false
	}

	l.head = n.next
	n.next = nil
	if l.head == nil {
		l.tail = nil
	}
	l.count--

	return n.val, true
}

// DestroyAll drains the list under a single lock acquisition and hands each
// detached value to fn. It must not race with producers.
func (l *List[T]) DestroyAll(fn func(T)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		v, ok := l.PopHead(false)
		if !ok {
			return
		}
		if fn != nil {
			fn(v)
		}
	}
}

// Each calls fn on every value in insertion order while holding the lock,
// stopping early if fn returns false. fn must not call back into the list.
func (l *List[T]) Each(fn func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for n := l.head; n != nil; n = n.next {
		if !fn(n.val) {
			return
		}
	}
}

// Len returns the number of values in the list.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Lock acquires the list lock for callers that drain with PopHead(false).
func (l *List[T]) Lock() {
	l.mu.Lock()
}

// Unlock releases the list lock.
func (l *List[T]) Unlock() {
	l.mu.Unlock()
}
