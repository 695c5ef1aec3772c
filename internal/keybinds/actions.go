package keybinds

import "sort"

// Action represents a user intent that a key or chord resolves to
type Action string

const (
	// ActionComposing is reported by the resolver while a chord is pending.
	// It is never bound as a leaf.
	ActionComposing Action = "composing"

	// Global actions
	ActionQuit Action = "quit"  // Quit application
	ActionNoOp Action = "noop"  // No operation (ignore key)
	ActionFail Action = "fail"  // Always-failing command, for diagnostics

	// Navigation actions
	ActionNavigateUp   Action = "navigate_up"   // Move up one item
	ActionNavigateDown Action = "navigate_down" // Move down one item
	ActionGoToTop      Action = "go_to_top"     // Go to top
	ActionGoToBottom   Action = "go_to_bottom"  // Go to bottom
	ActionSwitchFocus  Action = "switch_focus"  // Switch focus between panels

	// Request actions
	ActionExecute       Action = "execute"        // Fire the selected request
	ActionNewRequest    Action = "new_request"    // Append a blank request
	ActionDeleteRequest Action = "delete_request" // Delete the selected request
	ActionCycleMethod   Action = "cycle_method"   // Rotate the HTTP method
	ActionSave          Action = "save"           // Persist the request collection

	// Edit actions (enter insert mode on a field)
	ActionEditURL    Action = "edit_url"
	ActionEditBody   Action = "edit_body"
	ActionEditName   Action = "edit_name"
	ActionEditHeader Action = "edit_header"
	ActionEditFilter Action = "edit_filter"

	// Response actions
	ActionToggleHeaders   Action = "toggle_headers"    // Toggle headers/body view
	ActionCopyToClipboard Action = "copy_to_clipboard" // Copy response body
	ActionHideLog         Action = "hide_log"          // Hide log lines printed so far from the panel

	// Other actions
	ActionOpenHelp Action = "open_help" // Toggle help document
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:            {ActionQuit, "Quit application", "Global"},
	ActionNoOp:            {ActionNoOp, "Do nothing", "Global"},
	ActionFail:            {ActionFail, "Run a failing command", "Global"},
	ActionNavigateUp:      {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:    {ActionNavigateDown, "Move down", "Navigation"},
	ActionGoToTop:         {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:      {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionSwitchFocus:     {ActionSwitchFocus, "Switch panel focus", "Navigation"},
	ActionExecute:         {ActionExecute, "Execute request", "Requests"},
	ActionNewRequest:      {ActionNewRequest, "New request", "Requests"},
	ActionDeleteRequest:   {ActionDeleteRequest, "Delete request", "Requests"},
	ActionCycleMethod:     {ActionCycleMethod, "Cycle HTTP method", "Requests"},
	ActionSave:            {ActionSave, "Save requests", "Requests"},
	ActionEditURL:         {ActionEditURL, "Edit URL", "Editors"},
	ActionEditBody:        {ActionEditBody, "Edit body", "Editors"},
	ActionEditName:        {ActionEditName, "Edit name", "Editors"},
	ActionEditHeader:      {ActionEditHeader, "Add header", "Editors"},
	ActionEditFilter:      {ActionEditFilter, "Edit JMESPath filter", "Editors"},
	ActionToggleHeaders:   {ActionToggleHeaders, "Toggle headers", "Response"},
	ActionCopyToClipboard: {ActionCopyToClipboard, "Copy to clipboard", "Response"},
	ActionHideLog:         {ActionHideLog, "Hide log lines", "Response"},
	ActionOpenHelp:        {ActionOpenHelp, "Toggle help", "Information"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action may be bound to a key.
// ActionComposing is a resolver signal and is not bindable.
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// KnownActions returns every bindable action, sorted by name
func KnownActions() []Action {
	actions := make([]Action, 0, len(actionInfos))
	for a := range actionInfos {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
