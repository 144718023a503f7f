package cache

// node is an intrusive doubly linked list element owned by a segment.
// The segment map points at nodes, so recency reordering is O(1).
type node struct {
	key Key
	val []byte

	// head is MRU, tail is LRU.
	prev *node
	next *node
}

// Key returns the node key (policy.Node).
func (n *node) Key() Key { return n.key }

// size is the budget charge of this entry.
func (n *node) size() int64 { return SizeOf(n.key, n.val) }
