// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package trie implements the timestamp-prefixed Merkle radix trie that
// indexes every locally known message by its SyncId and maintains a
// running content hash per subtree.
package trie

import (
	"sort"

	"github.com/hubsync/hub/syncid"
)

// node is a single radix-trie node. An internal node's hash commits to the
// ascending-byte-order concatenation of its children's (byte, hash) pairs;
// a leaf's hash commits to its stored value. Empty children (items == 0)
// are pruned eagerly so the trie never carries dead subtrees.
type node struct {
	children map[byte]*node
	hash     string
	items    int

	isLeaf bool
	value  syncid.ID
}

func newNode() *node {
	return &node{hash: digest(nil)}
}

// insert descends by id[index:], returning true if id was not already
// present. index is the depth of this node within id.
func (n *node) insert(id syncid.ID, index int) bool {
	if index == len(id) {
		if n.isLeaf {
			return false
		}
		n.isLeaf = true
		n.value = id
		n.items = 1
		n.hash = digest([]byte(id))
		return true
	}

	b := id[index]
	child, ok := n.children[b]
	if !ok {
		child = newNode()
		if n.children == nil {
			n.children = make(map[byte]*node)
		}
		n.children[b] = child
	}
	isNew := child.insert(id, index+1)
	if isNew {
		n.recompute()
	}
	return isNew
}

// delete descends by id[index:], returning true if id was present and has
// now been removed.
func (n *node) delete(id syncid.ID, index int) bool {
	if index == len(id) {
		if !n.isLeaf {
			return false
		}
		n.isLeaf = false
		n.value = ""
		n.items = 0
		n.hash = digest(nil)
		return true
	}

	b := id[index]
	child, ok := n.children[b]
	if !ok {
		return false
	}
	removed := child.delete(id, index+1)
	if !removed {
		return false
	}
	if child.items == 0 {
		delete(n.children, b)
	}
	n.recompute()
	return true
}

// exists reports whether id is present in this subtree.
func (n *node) exists(id syncid.ID, index int) bool {
	if index == len(id) {
		return n.isLeaf
	}
	child, ok := n.children[id[index]]
	if !ok {
		return false
	}
	return child.exists(id, index+1)
}

// getNode follows prefix and returns the subtree root reached, or nil.
func (n *node) getNode(prefix []byte, index int) *node {
	if index == len(prefix) {
		return n
	}
	child, ok := n.children[prefix[index]]
	if !ok {
		return nil
	}
	return child.getNode(prefix, index+1)
}

// getAllValues performs an in-order (ascending byte path) traversal,
// emitting every value stored under this subtree. Ascending byte order
// means ascending SyncId order.
func (n *node) getAllValues(out *[]syncid.ID) {
	if n.isLeaf {
		*out = append(*out, n.value)
		return
	}
	for _, b := range n.sortedChildKeys() {
		n.children[b].getAllValues(out)
	}
}

// recompute updates items (sum of children, or 1 for a leaf) and hash
// (H(concat(child_byte || child.hash)) in ascending byte order).
func (n *node) recompute() {
	if n.isLeaf {
		n.items = 1
		n.hash = digest([]byte(n.value))
		return
	}

	items := 0
	var buf []byte
	for _, b := range n.sortedChildKeys() {
		child := n.children[b]
		items += child.items
		buf = append(buf, b)
		buf = append(buf, []byte(child.hash)...)
	}
	n.items = items
	n.hash = digest(buf)
}

func (n *node) sortedChildKeys() []byte {
	keys := make([]byte, 0, len(n.children))
	for b := range n.children {
		keys = append(keys, b)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// hashExcluding computes the commitment of n's children as if the child at
// excludeByte did not exist: H(concat(child_byte || child.hash)) over the
// remaining children in ascending byte order. This is the "excluded hash"
// used by snapshots, letting two tries agree on everything but the branch
// still settling above the sync threshold.
func (n *node) hashExcluding(excludeByte byte) string {
	if n == nil {
		return digest(nil)
	}
	var buf []byte
	for _, b := range n.sortedChildKeys() {
		if b == excludeByte {
			continue
		}
		child := n.children[b]
		buf = append(buf, b)
		buf = append(buf, []byte(child.hash)...)
	}
	return digest(buf)
}

// child returns the child at b, or nil.
func (n *node) child(b byte) *node {
	if n == nil {
		return nil
	}
	return n.children[b]
}
