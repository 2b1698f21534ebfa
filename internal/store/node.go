package store

// Entry is a single (key, row) pair held inside a node.
type Entry struct {
	Key Key
	Row Row
}

// Node is one B-tree node, wholly materialized from its on-disk slot.
// Callers load, mutate, and write a Node back within a single engine
// operation; a Node value is never shared mutably across operations
// (spec.md §9, "In-memory vs on-disk graph").
type Node struct {
	ID       int64
	T        int
	Leaf     bool
	Entries  []Entry
	Children []int64
}

// onDiskNode is the self-describing JSON layout of a Node, per spec.md §6:
// { t, leaf, entries: [(key, row)], children, node_id }.
type onDiskNode struct {
	NodeID   int64        `json:"node_id"`
	T        int          `json:"t"`
	Leaf     bool         `json:"leaf"`
	Entries  []diskEntry  `json:"entries"`
	Children []int64      `json:"children"`
}

type diskEntry struct {
	Key jsonKey        `json:"key"`
	Row map[string]Value `json:"row"`
}

func (n *Node) toDisk() onDiskNode {
	entries := make([]diskEntry, len(n.Entries))
	for i, e := range n.Entries {
		entries[i] = diskEntry{Key: e.Key.toJSON(), Row: e.Row}
	}
	children := n.Children
	if children == nil {
		children = []int64{}
	}
	return onDiskNode{
		NodeID:   n.ID,
		T:        n.T,
		Leaf:     n.Leaf,
		Entries:  entries,
		Children: children,
	}
}

func (d onDiskNode) toNode() *Node {
	entries := make([]Entry, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = Entry{Key: e.Key.toKey(), Row: Row(e.Row)}
	}
	return &Node{
		ID:       d.NodeID,
		T:        d.T,
		Leaf:     d.Leaf,
		Entries:  entries,
		Children: d.Children,
	}
}
