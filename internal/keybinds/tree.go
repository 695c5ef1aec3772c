package keybinds

import "strings"

// Key is the name of a single key press, e.g. "k", "G", "enter", "ctrl+s".
// Printable characters are named by themselves; space is "space".
type Key string

// NodeID indexes a KeyMap inside a Tree
type NodeID int

// noSubMap marks an Actionable that is a leaf
const noSubMap NodeID = -1

// Actionable pairs an action with an optional nested chord map
type Actionable struct {
	Action Action
	Sub    NodeID
}

// HasSubMap reports whether pressing the key opens a chord
func (a Actionable) HasSubMap() bool {
	return a.Sub != noSubMap
}

// KeyMap maps keys to actionables within one tree node
type KeyMap map[Key]Actionable

// Tree is an arena of KeyMaps. Node 0 is the default (root) map.
// Sub-maps are only ever created as fresh children, so the tree has no
// back-edges. A Tree is never modified once Compile returns it.
type Tree struct {
	nodes []KeyMap
}

// Root returns the id of the default map
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of maps in the tree
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Lookup finds key in the map identified by node
func (t *Tree) Lookup(node NodeID, key Key) (Actionable, bool) {
	if node < 0 || int(node) >= len(t.nodes) {
		return Actionable{}, false
	}
	a, ok := t.nodes[node][key]
	return a, ok
}

// Keys returns the keys bound directly in node
func (t *Tree) Keys(node NodeID) []Key {
	if node < 0 || int(node) >= len(t.nodes) {
		return nil
	}
	keys := make([]Key, 0, len(t.nodes[node]))
	for k := range t.nodes[node] {
		keys = append(keys, k)
	}
	return keys
}

// Walk visits every leaf binding with its full chord
func (t *Tree) Walk(fn func(chord []Key, action Action)) {
	t.walk(t.Root(), nil, fn)
}

func (t *Tree) walk(node NodeID, prefix []Key, fn func([]Key, Action)) {
	for key, a := range t.nodes[node] {
		chord := append(append([]Key(nil), prefix...), key)
		if a.HasSubMap() {
			t.walk(a.Sub, chord, fn)
			continue
		}
		fn(chord, a.Action)
	}
}

func (t *Tree) newNode() NodeID {
	t.nodes = append(t.nodes, KeyMap{})
	return NodeID(len(t.nodes) - 1)
}

// ParseChord splits a chord string ("g g", "e u") into its keys
func ParseChord(chord string) []Key {
	fields := strings.Fields(chord)
	keys := make([]Key, len(fields))
	for i, f := range fields {
		keys[i] = Key(f)
	}
	return keys
}

// FormatChord joins keys back into the chord string form
func FormatChord(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, " ")
}
