package keybinds

// Outcome classifies the result of resolving one key
type Outcome int

const (
	// Unrecognized means the key is not bound at the cursor
	Unrecognized Outcome = iota
	// Composing means the key opened a chord; more keys are needed
	Composing
	// Concrete means the key completed a binding
	Concrete
)

func (o Outcome) String() string {
	switch o {
	case Composing:
		return "composing"
	case Concrete:
		return "concrete"
	default:
		return "unrecognized"
	}
}

// Result is what Resolve returns for a single key
type Result struct {
	Outcome Outcome
	Action  Action
}

// Resolver walks a Tree one key at a time.
// It is not safe for concurrent use; callers hand it between goroutines
// under the input gate.
type Resolver struct {
	tree   *Tree
	cursor NodeID
}

// NewResolver creates a resolver positioned at the tree root
func NewResolver(tree *Tree) *Resolver {
	return &Resolver{tree: tree, cursor: tree.Root()}
}

// Resolve consumes one key. Every outcome except Composing puts the
// cursor back at the root.
func (r *Resolver) Resolve(key Key) Result {
	a, ok := r.tree.Lookup(r.cursor, key)
	if !ok {
		r.cursor = r.tree.Root()
		return Result{Outcome: Unrecognized}
	}

	if a.HasSubMap() {
		r.cursor = a.Sub
		return Result{Outcome: Composing, Action: ActionComposing}
	}

	r.cursor = r.tree.Root()
	return Result{Outcome: Concrete, Action: a.Action}
}

// Cursor returns the node the next key will be looked up in
func (r *Resolver) Cursor() NodeID {
	return r.cursor
}

// AtRoot reports whether no chord is pending
func (r *Resolver) AtRoot() bool {
	return r.cursor == r.tree.Root()
}

// Reset abandons any pending chord
func (r *Resolver) Reset() {
	r.cursor = r.tree.Root()
}
