package huffman

import (
	"container/heap"
	"fmt"
)

const none int32 = -1

// Node is an element of the tree arena. Left and Right are arena ids,
// both -1 for a leaf.
type Node struct {
	Symbol byte
	Weight uint64
	Left   int32
	Right  int32
}

func (n Node) IsLeaf() bool {
	return n.Left == none && n.Right == none
}

// Tree is a Huffman tree stored as an arena. A node's id is also the order
// in which it entered the priority queue, which makes it the tie-breaker
// between nodes of equal weight.
type Tree struct {
	nodes []Node
	root  int32
}

// BuildTree merges the two lightest nodes until one is left. Leaves enter
// the queue in ascending symbol order, so identical frequencies always give
// the identical tree.
func BuildTree(freq Frequencies) (*Tree, error) {
	if len(freq) == 0 {
		return nil, ErrEmptyInput
	}

	t := &Tree{nodes: make([]Node, 0, 2*len(freq)-1)}
	pq := &PriorityQueue{tree: t, ids: make([]int32, 0, len(freq))}
	for _, s := range freq.Symbols() {
		pq.ids = append(pq.ids, t.add(Node{
			Symbol: s,
			Weight: freq[s],
			Left:   none,
			Right:  none,
		}))
	}
	heap.Init(pq)

	for pq.Len() > 1 {
		left := heap.Pop(pq).(int32)
		right := heap.Pop(pq).(int32)

		heap.Push(pq, t.add(Node{
			Weight: t.nodes[left].Weight + t.nodes[right].Weight,
			Left:   left,
			Right:  right,
		}))
	}

	t.root = heap.Pop(pq).(int32)
	dbg("huffman.build_tree", "symbols", len(freq), "nodes", len(t.nodes), "weight", t.Weight())
	return t, nil
}

func (t *Tree) add(n Node) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (t *Tree) Root() int32 { return t.root }

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Weight() uint64 { return t.nodes[t.root].Weight }

func (t *Tree) Node(id int32) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("huffman: node id %d out of range [0,%d)", id, len(t.nodes)))
	}
	return t.nodes[id]
}

// PriorityQueue is a min-heap of arena ids ordered by (weight, id).
type PriorityQueue struct {
	tree *Tree
	ids  []int32
}

func (pq PriorityQueue) Len() int { return len(pq.ids) }

func (pq PriorityQueue) Less(i, j int) bool {
	a, b := pq.ids[i], pq.ids[j]
	wa, wb := pq.tree.nodes[a].Weight, pq.tree.nodes[b].Weight
	if wa != wb {
		return wa < wb
	}
	return a < b
}

func (pq PriorityQueue) Swap(i, j int) {
	pq.ids[i], pq.ids[j] = pq.ids[j], pq.ids[i]
}

func (pq *PriorityQueue) Push(x any) {
	pq.ids = append(pq.ids, x.(int32))
}

func (pq *PriorityQueue) Pop() any {
	old := pq.ids
	n := len(old)
	id := old[n-1]
	pq.ids = old[0 : n-1]
	return id
}
