// Package policy defines how a segment orders its resident entries by recency.
//
// Segments in this module never evict on their own: a policy only decides
// where an entry goes in the segment's MRU→LRU list. It is never asked to
// pick a victim.
package policy

// Node is the minimal contract a segment entry must satisfy for a policy.
type Node[K comparable, V any] interface {
	Key() K
}

// Hooks expose O(1) list operations on the segment's intrusive MRU/LRU list.
// Implementations are provided by the segment.
//
// Concurrency: all hook calls happen under the segment lock.
// Hooks manage only the list; the segment owns the key->node map.
type Hooks[K comparable, V any] interface {
	// MoveToFront promotes the node to MRU.
	MoveToFront(Node[K, V])
	// PushFront links a node that is not yet in the list at MRU.
	PushFront(Node[K, V])
	// Remove unlinks the node.
	Remove(Node[K, V])
}

// ShardPolicy is a per-segment recency policy bound to segment hooks.
// All methods are invoked under the segment lock.
//
//   - OnAdd must link the node (admission).
//   - OnGet/OnUpdate reorder an already linked node.
//   - OnRemove must unlink the node.
type ShardPolicy[K comparable, V any] interface {
	OnAdd(Node[K, V])
	OnGet(Node[K, V])
	OnUpdate(Node[K, V])
	OnRemove(Node[K, V])
}

// Policy is a factory that creates segment-local policy instances.
type Policy[K comparable, V any] interface {
	New(Hooks[K, V]) ShardPolicy[K, V]
}
