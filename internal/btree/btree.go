// Package btree implements the B-Tree Engine of spec.md §4.1: an
// in-memory algorithm of minimum degree t operating on nodes that live in
// the Node Store (internal/store), with the current root identifier
// persisted in a sidecar metadata file so the tree survives restarts.
//
// The insert/split/search/traverse/delete semantics are ported from
// original_source/src/btree.py (BTreeNode.insert_non_full, split_child,
// search, traverse, and BTree.insert/delete/_delete_recursive/
// _promote_child), including the simplified, non-rebalancing delete
// policy documented in spec.md §4.1.
package btree

import (
	"github.com/briarql/briarql/internal/dberrors"
	"github.com/briarql/briarql/internal/store"
)

// Tree holds t, the current root identifier, and a Node Store handle.
type Tree struct {
	t      int
	dir    string
	nodes  *store.NodeStore
	rootID int64
}

// Open creates a tree on first open (a fresh empty leaf root) or resumes
// one from existing metadata, per spec.md §3 "Lifecycles".
func Open(dir string, t int) (*Tree, error) {
	if t < 2 {
		return nil, dberrors.New(dberrors.IO, "minimum degree t must be >= 2, got %d", t)
	}
	nodes, err := store.Open(dir)
	if err != nil {
		return nil, err
	}
	tree := &Tree{t: t, dir: dir, nodes: nodes}

	meta, ok, err := store.LoadMetadata(dir)
	if err != nil {
		return nil, err
	}
	if ok {
		tree.rootID = meta.RootID
		return tree, nil
	}

	root := &store.Node{T: t, Leaf: true}
	id, err := nodes.SaveNode(root)
	if err != nil {
		return nil, err
	}
	tree.rootID = id
	if err := store.SaveMetadata(dir, store.Metadata{RootID: id}); err != nil {
		return nil, err
	}
	return tree, nil
}

// Degree returns the tree's minimum degree t.
func (tr *Tree) Degree() int { return tr.t }

func (tr *Tree) maxEntries() int { return 2*tr.t - 1 }

// setRoot durably reassigns the root identifier, following the
// root-change protocol of spec.md §4.1: the new root's node record must
// already be durable (callers save/update it before calling setRoot),
// then the metadata file is written.
func (tr *Tree) setRoot(id int64) error {
	if err := store.SaveMetadata(tr.dir, store.Metadata{RootID: id}); err != nil {
		return err
	}
	tr.rootID = id
	return nil
}

// Insert inserts or replaces per spec.md §4.1.
func (tr *Tree) Insert(key store.Key, row store.Row) error {
	root, err := tr.nodes.LoadNode(tr.rootID)
	if err != nil {
		return err
	}

	if len(root.Entries) == tr.maxEntries() {
		newRoot := &store.Node{T: tr.t, Leaf: false, Children: []int64{root.ID}}
		newRootID, err := tr.nodes.SaveNode(newRoot)
		if err != nil {
			return err
		}
		newRoot.ID = newRootID
		if err := tr.splitChild(newRoot, 0, root); err != nil {
			return err
		}
		if err := tr.setRoot(newRoot.ID); err != nil {
			return err
		}
		return tr.insertNonFull(newRoot, key, row)
	}
	return tr.insertNonFull(root, key, row)
}

// splitChild splits the full child parent.Children[i] (already loaded as
// child) into two nodes, promoting the median entry into parent, per
// spec.md §4.1.
func (tr *Tree) splitChild(parent *store.Node, i int, child *store.Node) error {
	t := tr.t
	sibling := &store.Node{T: t, Leaf: child.Leaf}
	siblingID, err := tr.nodes.SaveNode(sibling)
	if err != nil {
		return err
	}
	sibling.ID = siblingID

	sibling.Entries = append(sibling.Entries, child.Entries[t:]...)
	median := child.Entries[t-1]
	child.Entries = child.Entries[:t-1]

	if !child.Leaf {
		sibling.Children = append(sibling.Children, child.Children[t:]...)
		child.Children = child.Children[:t]
	}

	parent.Children = append(parent.Children, 0)
	copy(parent.Children[i+2:], parent.Children[i+1:])
	parent.Children[i+1] = sibling.ID

	parent.Entries = append(parent.Entries, store.Entry{})
	copy(parent.Entries[i+1:], parent.Entries[i:])
	parent.Entries[i] = median

	if err := tr.nodes.UpdateNode(child); err != nil {
		return err
	}
	if err := tr.nodes.UpdateNode(sibling); err != nil {
		return err
	}
	return tr.nodes.UpdateNode(parent)
}

// insertNonFull inserts into a node already known to have spare capacity.
func (tr *Tree) insertNonFull(n *store.Node, key store.Key, row store.Row) error {
	if n.Leaf {
		i := 0
		for i < len(n.Entries) && key.Compare(n.Entries[i].Key) > 0 {
			i++
		}
		if i < len(n.Entries) && n.Entries[i].Key.Compare(key) == 0 {
			n.Entries[i].Row = row
			return tr.nodes.UpdateNode(n)
		}
		n.Entries = append(n.Entries, store.Entry{})
		copy(n.Entries[i+1:], n.Entries[i:])
		n.Entries[i] = store.Entry{Key: key, Row: row}
		return tr.nodes.UpdateNode(n)
	}

	i := 0
	for i < len(n.Entries) && key.Compare(n.Entries[i].Key) > 0 {
		i++
	}
	if i < len(n.Entries) && n.Entries[i].Key.Compare(key) == 0 {
		n.Entries[i].Row = row
		return tr.nodes.UpdateNode(n)
	}
	child, err := tr.nodes.LoadNode(n.Children[i])
	if err != nil {
		return err
	}
	if len(child.Entries) == tr.maxEntries() {
		if err := tr.splitChild(n, i, child); err != nil {
			return err
		}
		if c := key.Compare(n.Entries[i].Key); c == 0 {
			n.Entries[i].Row = row
			return tr.nodes.UpdateNode(n)
		} else if c > 0 {
			i++
		}
		child, err = tr.nodes.LoadNode(n.Children[i])
		if err != nil {
			return err
		}
	}
	return tr.insertNonFull(child, key, row)
}

// Search descends from the root, returning the row and true if key is present.
func (tr *Tree) Search(key store.Key) (store.Row, bool, error) {
	n, err := tr.nodes.LoadNode(tr.rootID)
	if err != nil {
		return nil, false, err
	}
	for {
		i := 0
		for i < len(n.Entries) && key.Compare(n.Entries[i].Key) > 0 {
			i++
		}
		if i < len(n.Entries) && n.Entries[i].Key.Compare(key) == 0 {
			return n.Entries[i].Row, true, nil
		}
		if n.Leaf {
			return nil, false, nil
		}
		n, err = tr.nodes.LoadNode(n.Children[i])
		if err != nil {
			return nil, false, err
		}
	}
}

// Traverse returns every (key, row) in ascending key order.
func (tr *Tree) Traverse() ([]store.Entry, error) {
	n, err := tr.nodes.LoadNode(tr.rootID)
	if err != nil {
		return nil, err
	}
	var out []store.Entry
	if err := tr.traverseInto(n, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tr *Tree) traverseInto(n *store.Node, out *[]store.Entry) error {
	for i := range n.Entries {
		if !n.Leaf {
			child, err := tr.nodes.LoadNode(n.Children[i])
			if err != nil {
				return err
			}
			if err := tr.traverseInto(child, out); err != nil {
				return err
			}
		}
		*out = append(*out, n.Entries[i])
	}
	if !n.Leaf {
		child, err := tr.nodes.LoadNode(n.Children[len(n.Children)-1])
		if err != nil {
			return err
		}
		if err := tr.traverseInto(child, out); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes key if present, following the simplified, non-
// rebalancing policy of spec.md §4.1: promote-last-key-of-empty-child
// rather than classical borrow/merge. A delete of an absent key is a
// no-op.
func (tr *Tree) Delete(key store.Key) error {
	root, err := tr.nodes.LoadNode(tr.rootID)
	if err != nil {
		return err
	}
	if _, err := tr.deleteRecursive(root, key); err != nil {
		return err
	}

	root, err = tr.nodes.LoadNode(tr.rootID)
	if err != nil {
		return err
	}
	if len(root.Entries) == 0 && !root.Leaf {
		newRootID := root.Children[0]
		oldRootID := root.ID
		if err := tr.setRoot(newRootID); err != nil {
			return err
		}
		if err := tr.nodes.DeleteNode(oldRootID); err != nil {
			return err
		}
	}
	return nil
}

// deleteRecursive mirrors original_source/src/btree.py's
// BTree._delete_recursive: it returns whether key was found and removed
// somewhere in node's subtree.
func (tr *Tree) deleteRecursive(node *store.Node, key store.Key) (bool, error) {
	for i, e := range node.Entries {
		if e.Key.Compare(key) != 0 {
			continue
		}
		node.Entries = append(node.Entries[:i], node.Entries[i+1:]...)
		if err := tr.nodes.UpdateNode(node); err != nil {
			return false, err
		}
		if len(node.Entries) == 0 && !node.Leaf {
			if err := tr.promoteChild(node, 0); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if node.Leaf {
		return false, nil
	}

	childIndex := len(node.Entries)
	for i, e := range node.Entries {
		if key.Compare(e.Key) < 0 {
			childIndex = i
			break
		}
	}
	child, err := tr.nodes.LoadNode(node.Children[childIndex])
	if err != nil {
		return false, err
	}
	found, err := tr.deleteRecursive(child, key)
	if err != nil {
		return false, err
	}
	if found && len(child.Entries) == 0 {
		if err := tr.promoteChild(node, childIndex); err != nil {
			return false, err
		}
	}
	return found, nil
}

// promoteChild takes the last entry (and, if internal, last child) of
// node.Children[index] and moves it up into node at the vacated slot.
func (tr *Tree) promoteChild(node *store.Node, index int) error {
	if index >= len(node.Children) {
		return nil
	}
	child, err := tr.nodes.LoadNode(node.Children[index])
	if err != nil {
		return err
	}
	last := child.Entries[len(child.Entries)-1]
	child.Entries = child.Entries[:len(child.Entries)-1]

	node.Entries = append(node.Entries, store.Entry{})
	copy(node.Entries[index+1:], node.Entries[index:])
	node.Entries[index] = last

	if err := tr.nodes.UpdateNode(node); err != nil {
		return err
	}
	if err := tr.nodes.UpdateNode(child); err != nil {
		return err
	}

	if !child.Leaf {
		lastChild := child.Children[len(child.Children)-1]
		child.Children = child.Children[:len(child.Children)-1]
		node.Children = append(node.Children, 0)
		copy(node.Children[index+2:], node.Children[index+1:])
		node.Children[index+1] = lastChild
		if err := tr.nodes.UpdateNode(child); err != nil {
			return err
		}
		return tr.nodes.UpdateNode(node)
	}
	return nil
}

// Stats reports node count and tree height, used by Catalog.Describe to
// report a table's on-disk size.
type Stats struct {
	NodeCount int
	Height    int
}

func (tr *Tree) Stats() (Stats, error) {
	ids, err := tr.nodes.ExistingIDs()
	if err != nil {
		return Stats{}, err
	}
	height, err := tr.height(tr.rootID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{NodeCount: len(ids), Height: height}, nil
}

func (tr *Tree) height(id int64) (int, error) {
	n, err := tr.nodes.LoadNode(id)
	if err != nil {
		return 0, err
	}
	if n.Leaf {
		return 1, nil
	}
	h, err := tr.height(n.Children[0])
	if err != nil {
		return 0, err
	}
	return h + 1, nil
}
