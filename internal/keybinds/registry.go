package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// Binding represents a keybinding mapping
type Binding struct {
	Chord  string
	Action Action
}

// Registry collects chord bindings before they are compiled into a Tree.
// It is mutable and only used during startup.
type Registry struct {
	// bindings maps normalized chord -> action
	bindings map[string]Action
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]Action)}
}

// Register binds a chord ("k", "g g") to an action, replacing any
// previous binding of the same chord
func (r *Registry) Register(chord string, action Action) {
	r.bindings[normalizeChord(chord)] = action
}

// RegisterMultiple registers multiple chords for the same action
func (r *Registry) RegisterMultiple(chords []string, action Action) {
	for _, chord := range chords {
		r.Register(chord, action)
	}
}

// Unbind removes a chord
func (r *Registry) Unbind(chord string) {
	delete(r.bindings, normalizeChord(chord))
}

// Match returns the action bound to exactly this chord
func (r *Registry) Match(chord string) (Action, bool) {
	action, ok := r.bindings[normalizeChord(chord)]
	return action, ok
}

// GetBinding returns the chords bound to an action, sorted
func (r *Registry) GetBinding(action Action) []string {
	var chords []string
	for chord, act := range r.bindings {
		if act == action {
			chords = append(chords, chord)
		}
	}
	sort.Strings(chords)
	return chords
}

// GetBindingString returns a human-readable string of chords bound to an action
func (r *Registry) GetBindingString(action Action) string {
	chords := r.GetBinding(action)
	if len(chords) == 0 {
		return "unbound"
	}
	return strings.Join(chords, ", ")
}

// ListBindings returns all bindings sorted by chord
func (r *Registry) ListBindings() []Binding {
	bindings := make([]Binding, 0, len(r.bindings))
	for chord, action := range r.bindings {
		bindings = append(bindings, Binding{Chord: chord, Action: action})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Chord < bindings[j].Chord })
	return bindings
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for chord, action := range r.bindings {
		clone.bindings[chord] = action
	}
	return clone
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for chord, action := range other.bindings {
		r.bindings[chord] = action
	}
}

// Compile builds the immutable chord tree.
// It fails when one chord is a strict prefix of another, since a key
// cannot both complete a binding and open a chord.
func (r *Registry) Compile() (*Tree, error) {
	t := &Tree{}
	t.newNode()

	// Shorter chords first so prefix conflicts are reported against the
	// shorter binding.
	chords := make([]string, 0, len(r.bindings))
	for chord := range r.bindings {
		chords = append(chords, chord)
	}
	sort.Slice(chords, func(i, j int) bool {
		li, lj := len(ParseChord(chords[i])), len(ParseChord(chords[j]))
		if li != lj {
			return li < lj
		}
		return chords[i] < chords[j]
	})

	for _, chord := range chords {
		keys := ParseChord(chord)
		if len(keys) == 0 {
			return nil, fmt.Errorf("empty chord bound to %q", r.bindings[chord])
		}
		if err := t.insert(keys, r.bindings[chord]); err != nil {
			return nil, fmt.Errorf("chord %q: %w", chord, err)
		}
	}

	return t, nil
}

func (t *Tree) insert(keys []Key, action Action) error {
	node := t.Root()
	for i, key := range keys {
		last := i == len(keys)-1
		existing, ok := t.nodes[node][key]

		switch {
		case last && ok:
			return fmt.Errorf("key %q already opens a chord", key)
		case last:
			t.nodes[node][key] = Actionable{Action: action, Sub: noSubMap}
		case ok && !existing.HasSubMap():
			return fmt.Errorf("prefix %q is already bound to %q", FormatChord(keys[:i+1]), existing.Action)
		case ok:
			node = existing.Sub
		default:
			sub := t.newNode()
			t.nodes[node][key] = Actionable{Action: ActionComposing, Sub: sub}
			node = sub
		}
	}
	return nil
}

func normalizeChord(chord string) string {
	return FormatChord(ParseChord(chord))
}
