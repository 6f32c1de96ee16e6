package index

import (
	"slices"
	"strings"
)

// Trie maps lowercased file names to the set of absolute paths carrying that name.
// It is not safe for concurrent mutation; the indexer fills it before the
// owning Snapshot is published, after which it is only read.
type Trie struct {
	root *trieNode
	size int
}

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
	paths    []string            // insertion order
	pathSet  map[string]struct{} // membership for paths
}

// NewTrie creates an empty name trie.
func NewTrie() *Trie {
	return &Trie{root: &trieNode{}}
}

// Insert records path under name. Matching is case-insensitive; inserting the
// same (name, path) pair twice is a no-op. An empty name is stored at the root.
func (t *Trie) Insert(name string, path string) {
	node := t.root
	for _, r := range strings.ToLower(name) {
		child, ok := node.children[r]
		if !ok {
			if node.children == nil {
				node.children = make(map[rune]*trieNode)
			}
			child = &trieNode{}
			node.children[r] = child
		}
		node = child
	}

	node.terminal = true
	if node.pathSet == nil {
		node.pathSet = make(map[string]struct{})
	}
	if _, exists := node.pathSet[path]; exists {
		return
	}
	node.pathSet[path] = struct{}{}
	node.paths = append(node.paths, path)
	t.size++
}

// SearchExact returns the paths stored under exactly name, in insertion order.
func (t *Trie) SearchExact(name string) []string {
	node := t.walk(name)
	if node == nil || !node.terminal {
		return nil
	}
	return slices.Clone(node.paths)
}

// SearchByPrefix returns every path whose name starts with prefix.
// Children are visited in rune order, so the result is deterministic.
// An empty prefix returns every indexed path.
func (t *Trie) SearchByPrefix(prefix string) []string {
	node := t.walk(prefix)
	if node == nil {
		return nil
	}
	var result []string
	collectPaths(node, &result)
	return result
}

// Len returns the number of distinct (name, path) entries.
func (t *Trie) Len() int {
	return t.size
}

func (t *Trie) walk(key string) *trieNode {
	node := t.root
	for _, r := range strings.ToLower(key) {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

func collectPaths(node *trieNode, result *[]string) {
	if node.terminal {
		*result = append(*result, node.paths...)
	}
	if len(node.children) == 0 {
		return
	}
	keys := make([]rune, 0, len(node.children))
	for r := range node.children {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	for _, r := range keys {
		collectPaths(node.children[r], result)
	}
}
