package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNavigationBindings(r)
	registerRequestBindings(r)
	registerEditBindings(r)
	registerResponseBindings(r)

	return r
}

// DefaultTree compiles the default bindings. The defaults are known to be
// conflict free, so a failure here is a programming error.
func DefaultTree() *Tree {
	t, err := NewDefaultRegistry().Compile()
	if err != nil {
		panic(err)
	}
	return t
}

func registerGlobalBindings(r *Registry) {
	r.RegisterMultiple([]string{"q", "ctrl+c", "Z Z"}, ActionQuit)
	r.Register("?", ActionOpenHelp)
}

func registerNavigationBindings(r *Registry) {
	r.RegisterMultiple([]string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple([]string{"down", "j"}, ActionNavigateDown)
	r.Register("g g", ActionGoToTop)
	r.Register("G", ActionGoToBottom)
	r.RegisterMultiple([]string{"g t", "tab"}, ActionSwitchFocus)
}

func registerRequestBindings(r *Registry) {
	r.Register("enter", ActionExecute)
	r.Register("n", ActionNewRequest)
	r.Register("d d", ActionDeleteRequest)
	r.Register("m", ActionCycleMethod)
	r.RegisterMultiple([]string{"w", "ctrl+s"}, ActionSave)
}

func registerEditBindings(r *Registry) {
	r.RegisterMultiple([]string{"i", "e u"}, ActionEditURL)
	r.Register("e b", ActionEditBody)
	r.Register("e n", ActionEditName)
	r.Register("e h", ActionEditHeader)
	r.Register("e f", ActionEditFilter)
}

func registerResponseBindings(r *Registry) {
	r.Register("H", ActionToggleHeaders)
	r.Register("y", ActionCopyToClipboard)
	r.Register("x", ActionHideLog)
}
