package collections

// treeNode is a single AVL tree node. Height and balance factor are cached
// so rebalancing decisions never recompute subtree heights.
type treeNode[K, V any] struct {
	key     K
	value   V
	left    *treeNode[K, V]
	right   *treeNode[K, V]
	height  int
	balance int
}

// TreeMap is a key-value store backed by an AVL tree: keys stay in sorted
// order, lookups and inserts are O(log n), and every mutation leaves each
// node's balance factor within [-1, 1].
//
// TreeMap has no delete operation. The archive's indexes only grow, so
// rebalancing on removal has never been needed.
type TreeMap[K, V any] struct {
	root    *treeNode[K, V]
	size    int
	compare func(a, b K) int
}

// NewTreeMap creates an empty TreeMap ordered by compare, which must return
// a negative value when a < b, zero when equal, and positive when a > b.
func NewTreeMap[K, V any](compare func(a, b K) int) *TreeMap[K, V] {
	return &TreeMap[K, V]{compare: compare}
}

// Len returns the number of keys stored.
func (t *TreeMap[K, V]) Len() int {
	return t.size
}

// IsEmpty reports whether the tree has no keys.
func (t *TreeMap[K, V]) IsEmpty() bool {
	return t.root == nil
}

// Height returns the height of the tree. An empty tree has height -1 and a
// single node has height 0.
func (t *TreeMap[K, V]) Height() int {
	return height(t.root)
}

func height[K, V any](node *treeNode[K, V]) int {
	if node == nil {
		return -1
	}
	return node.height
}

// update recomputes the cached height and balance factor from the children.
// After a rotation it must run on the demoted node before the promoted one.
func (node *treeNode[K, V]) update() {
	lh, rh := height(node.left), height(node.right)
	if lh > rh {
		node.height = 1 + lh
	} else {
		node.height = 1 + rh
	}
	node.balance = lh - rh
}

// rotateRight handles the left-left case: z's left child y becomes the
// subtree root, y's former right child becomes z's left child.
func rotateRight[K, V any](z *treeNode[K, V]) *treeNode[K, V] {
	y := z.left
	z.left = y.right
	y.right = z
	z.update()
	y.update()
	return y
}

// rotateLeft handles the right-right case, the mirror of rotateRight.
func rotateLeft[K, V any](z *treeNode[K, V]) *treeNode[K, V] {
	y := z.right
	z.right = y.left
	y.left = z
	z.update()
	y.update()
	return y
}

// Put inserts key with value, or overwrites the value when the key already
// exists (no rebalancing happens in that case: the shape is unchanged).
func (t *TreeMap[K, V]) Put(key K, value V) {
	t.root = t.insert(t.root, key, value)
}

func (t *TreeMap[K, V]) insert(node *treeNode[K, V], key K, value V) *treeNode[K, V] {
	if node == nil {
		t.size++
		return &treeNode[K, V]{key: key, value: value}
	}

	switch cmp := t.compare(key, node.key); {
	case cmp < 0:
		node.left = t.insert(node.left, key, value)
	case cmp > 0:
		node.right = t.insert(node.right, key, value)
	default:
		node.value = value
		return node
	}

	node.update()

	// Four imbalance cases, decided by the balance sign and where the new
	// key landed relative to the heavy child.
	switch balance := node.balance; {
	case balance > 1 && t.compare(key, node.left.key) < 0:
		return rotateRight(node)
	case balance < -1 && t.compare(key, node.right.key) > 0:
		return rotateLeft(node)
	case balance > 1 && t.compare(key, node.left.key) > 0:
		node.left = rotateLeft(node.left)
		return rotateRight(node)
	case balance < -1 && t.compare(key, node.right.key) < 0:
		node.right = rotateRight(node.right)
		return rotateLeft(node)
	}
	return node
}

// Get returns the value stored under key and whether the key was present.
func (t *TreeMap[K, V]) Get(key K) (V, bool) {
	return t.search(t.root, key)
}

func (t *TreeMap[K, V]) search(node *treeNode[K, V], key K) (V, bool) {
	if node == nil {
		var zero V
		return zero, false
	}
	switch cmp := t.compare(key, node.key); {
	case cmp < 0:
		return t.search(node.left, key)
	case cmp > 0:
		return t.search(node.right, key)
	default:
		return node.value, true
	}
}

// Contains reports whether key is present.
func (t *TreeMap[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Keys returns every key in ascending order via an in-order traversal.
func (t *TreeMap[K, V]) Keys() []K {
	keys := make([]K, 0, t.size)
	var walk func(node *treeNode[K, V])
	walk = func(node *treeNode[K, V]) {
		if node == nil {
			return
		}
		walk(node.left)
		keys = append(keys, node.key)
		walk(node.right)
	}
	walk(t.root)
	return keys
}

// Entry is a key-value pair returned by Entries.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Entries returns every key-value pair in ascending key order.
func (t *TreeMap[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, t.size)
	var walk func(node *treeNode[K, V])
	walk = func(node *treeNode[K, V]) {
		if node == nil {
			return
		}
		walk(node.left)
		entries = append(entries, Entry[K, V]{Key: node.key, Value: node.value})
		walk(node.right)
	}
	walk(t.root)
	return entries
}

// Clear drops the whole tree in O(1).
func (t *TreeMap[K, V]) Clear() {
	t.root = nil
	t.size = 0
}
