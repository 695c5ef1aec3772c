package commands

import (
	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/types"
)

// Kind identifies what a Command does
type Kind int

const (
	KindNoOp Kind = iota
	KindFail
	KindQuit
	KindMove
	KindGoToTop
	KindGoToBottom
	KindSwitchFocus
	KindEdit
	KindSubmit
	KindStoreResponse
	KindNewRequest
	KindDeleteRequest
	KindCycleMethod
	KindSave
	KindToggleHeaders
	KindToggleHelp
	KindCopy
	KindHideLog
)

var kindNames = map[Kind]string{
	KindNoOp:          "noop",
	KindFail:          "fail",
	KindQuit:          "quit",
	KindMove:          "move",
	KindGoToTop:       "go_to_top",
	KindGoToBottom:    "go_to_bottom",
	KindSwitchFocus:   "switch_focus",
	KindEdit:          "edit",
	KindSubmit:        "submit",
	KindStoreResponse: "store_response",
	KindNewRequest:    "new_request",
	KindDeleteRequest: "delete_request",
	KindCycleMethod:   "cycle_method",
	KindSave:          "save",
	KindToggleHeaders: "toggle_headers",
	KindToggleHelp:    "toggle_help",
	KindCopy:          "copy",
	KindHideLog:       "hide_log",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is a unit of work applied to the application state. It carries
// only values, so it can cross goroutines safely.
type Command struct {
	Kind Kind

	// Delta is the step for KindMove
	Delta int
	// Field is the target of KindEdit
	Field app.Field
	// RequestID and Response are the payload of KindStoreResponse
	RequestID string
	Response  types.Response
}

func (c Command) String() string {
	return c.Kind.String()
}

// NoOp is the command that changes nothing
func NoOp() Command { return Command{Kind: KindNoOp} }

// Fail is the command that always fails
func Fail() Command { return Command{Kind: KindFail} }

// Quit sets the termination flag
func Quit() Command { return Command{Kind: KindQuit} }

// StoreResponse delivers a finished request back to the state
func StoreResponse(requestID string, resp types.Response) Command {
	return Command{Kind: KindStoreResponse, RequestID: requestID, Response: resp.Clone()}
}

// Map translates an action into the command it triggers. Actions with no
// command map to NoOp.
func Map(action keybinds.Action) Command {
	switch action {
	case keybinds.ActionQuit:
		return Quit()
	case keybinds.ActionFail:
		return Fail()

	case keybinds.ActionNavigateUp:
		return Command{Kind: KindMove, Delta: -1}
	case keybinds.ActionNavigateDown:
		return Command{Kind: KindMove, Delta: 1}
	case keybinds.ActionGoToTop:
		return Command{Kind: KindGoToTop}
	case keybinds.ActionGoToBottom:
		return Command{Kind: KindGoToBottom}
	case keybinds.ActionSwitchFocus:
		return Command{Kind: KindSwitchFocus}

	case keybinds.ActionExecute:
		return Command{Kind: KindSubmit}
	case keybinds.ActionNewRequest:
		return Command{Kind: KindNewRequest}
	case keybinds.ActionDeleteRequest:
		return Command{Kind: KindDeleteRequest}
	case keybinds.ActionCycleMethod:
		return Command{Kind: KindCycleMethod}
	case keybinds.ActionSave:
		return Command{Kind: KindSave}

	case keybinds.ActionEditURL:
		return Command{Kind: KindEdit, Field: app.FieldURL}
	case keybinds.ActionEditBody:
		return Command{Kind: KindEdit, Field: app.FieldBody}
	case keybinds.ActionEditName:
		return Command{Kind: KindEdit, Field: app.FieldName}
	case keybinds.ActionEditHeader:
		return Command{Kind: KindEdit, Field: app.FieldHeader}
	case keybinds.ActionEditFilter:
		return Command{Kind: KindEdit, Field: app.FieldFilter}

	case keybinds.ActionToggleHeaders:
		return Command{Kind: KindToggleHeaders}
	case keybinds.ActionCopyToClipboard:
		return Command{Kind: KindCopy}
	case keybinds.ActionHideLog:
		return Command{Kind: KindHideLog}
	case keybinds.ActionOpenHelp:
		return Command{Kind: KindToggleHelp}
	}
	return NoOp()
}
