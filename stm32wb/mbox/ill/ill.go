// Package ill implements the intrusive doubly-linked ring the mailbox
// queues are built from. A node is two 32-bit link words, next then prev, at
// the start of every queued packet; a list is a sentinel node whose links
// close into a ring. Both CPUs walk the same rings, so every operation runs
// inside the region critical section and the link words are accessed with
// acquire/release semantics.
//
// The package owns no memory: callers own the node bytes, and nothing here
// knows whether a node lives in the event pool, a spare buffer, or a
// host-local sentinel.
package ill

import "github.com/rigado/tlmbox/stm32wb/shm"

// NodeSize is the byte size of a link node, and therefore of every packet
// header.
const NodeSize = 2 * shm.WordSize

const (
	nextOff = 0
	prevOff = shm.WordSize
)

func next(r *shm.Region, n shm.Addr) shm.Addr {
	return shm.Addr(r.LoadUint32(n + nextOff))
}

func prev(r *shm.Region, n shm.Addr) shm.Addr {
	return shm.Addr(r.LoadUint32(n + prevOff))
}

func setNext(r *shm.Region, n, v shm.Addr) {
	r.StoreUint32(n+nextOff, uint32(v))
}

func setPrev(r *shm.Region, n, v shm.Addr) {
	r.StoreUint32(n+prevOff, uint32(v))
}

// Init makes node a singleton ring. Used both for list sentinels and for
// detached nodes about to be handed off.
func Init(r *shm.Region, node shm.Addr) {
	r.Lock()
	setNext(r, node, node)
	setPrev(r, node, node)
	r.Unlock()
}

// IsEmpty reports whether the sentinel's ring contains only itself.
func IsEmpty(r *shm.Region, list shm.Addr) bool {
	r.Lock()
	empty := next(r, list) == list
	r.Unlock()
	return empty
}

// InsertHead links node right after the sentinel.
func InsertHead(r *shm.Region, list, node shm.Addr) {
	r.Lock()
	insertAfter(r, list, node)
	r.Unlock()
}

// InsertTail links node right before the sentinel.
func InsertTail(r *shm.Region, list, node shm.Addr) {
	r.Lock()
	insertAfter(r, prev(r, list), node)
	r.Unlock()
}

func insertAfter(r *shm.Region, at, node shm.Addr) {
	n := next(r, at)
	setNext(r, node, n)
	setPrev(r, node, at)
	setPrev(r, n, node)
	setNext(r, at, node)
}

// RemoveHead detaches and returns the node after the sentinel. The detached
// node comes back as a singleton ring so it can't alias two queues.
func RemoveHead(r *shm.Region, list shm.Addr) (shm.Addr, bool) {
	r.Lock()
	defer r.Unlock()

	node := next(r, list)
	if node == list {
		return 0, false
	}
	unlink(r, node)
	return node, true
}

// RemoveTail detaches and returns the node before the sentinel.
func RemoveTail(r *shm.Region, list shm.Addr) (shm.Addr, bool) {
	r.Lock()
	defer r.Unlock()

	node := prev(r, list)
	if node == list {
		return 0, false
	}
	unlink(r, node)
	return node, true
}

// Remove detaches node from whatever ring it is on.
func Remove(r *shm.Region, node shm.Addr) {
	r.Lock()
	unlink(r, node)
	r.Unlock()
}

func unlink(r *shm.Region, node shm.Addr) {
	p, n := prev(r, node), next(r, node)
	setNext(r, p, n)
	setPrev(r, n, p)
	setNext(r, node, node)
	setPrev(r, node, node)
}

// DrainInto moves every node from the ring at from to the tail of the ring
// at to, preserving order, and reports how many moved.
func DrainInto(r *shm.Region, from, to shm.Addr) int {
	r.Lock()
	defer r.Unlock()

	moved := 0
	for {
		node := next(r, from)
		if node == from {
			return moved
		}
		unlink(r, node)
		insertAfter(r, prev(r, to), node)
		moved++
	}
}

// Len counts the nodes reachable from the sentinel. It exists for harnesses
// and diagnostics; the transport itself never needs a length.
func Len(r *shm.Region, list shm.Addr) int {
	r.Lock()
	defer r.Unlock()

	n := 0
	for at := next(r, list); at != list; at = next(r, at) {
		n++
	}
	return n
}
