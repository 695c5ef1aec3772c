package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

// Field identifies the request field edited in insert mode
type Field int

const (
	FieldURL Field = iota
	FieldBody
	FieldName
	FieldHeader
	FieldFilter
)

func (f Field) String() string {
	switch f {
	case FieldBody:
		return "body"
	case FieldName:
		return "name"
	case FieldHeader:
		return "header"
	case FieldFilter:
		return "filter"
	default:
		return "url"
	}
}

type editor struct {
	field     Field
	requestID string
	input     textinput.Model
}

// insertKeys maps key names to the bubbletea key types the text input
// understands. Printable single characters are sent as runes.
var insertKeys = map[keybinds.Key]tea.KeyType{
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"ctrl+a":    tea.KeyCtrlA,
	"ctrl+e":    tea.KeyCtrlE,
	"ctrl+k":    tea.KeyCtrlK,
	"ctrl+u":    tea.KeyCtrlU,
	"ctrl+w":    tea.KeyCtrlW,
}

// BeginEdit switches to insert mode with field of the selected request
// loaded into the text input
func (s *State) BeginEdit(field Field) error {
	cur, err := s.store.Current()
	if err != nil {
		return err
	}

	input := textinput.New()
	input.Prompt = ""
	switch field {
	case FieldURL:
		input.SetValue(cur.URL)
	case FieldBody:
		input.SetValue(cur.Body)
	case FieldName:
		input.SetValue(cur.Name)
	case FieldFilter:
		input.SetValue(cur.Filter)
	case FieldHeader:
		input.Placeholder = "Header-Name: value"
	}
	input.CursorEnd()
	input.Focus()

	s.edit = &editor{field: field, requestID: cur.ID, input: input}
	s.mode = ModeInsert
	return nil
}

// HandleInsertKey is the text-edit handler used while in insert mode.
// enter commits the edit, esc discards it; both return to normal mode.
func (s *State) HandleInsertKey(key keybinds.Key) {
	if s.mode != ModeInsert || s.edit == nil {
		return
	}

	switch key {
	case "enter":
		if err := s.commitEdit(); err != nil {
			s.AppendLogf("edit %s: %v", s.edit.field, err)
		}
		s.endEdit()
		return
	case "esc":
		s.endEdit()
		return
	}

	msg, ok := keyMsg(key)
	if !ok {
		return
	}
	s.edit.input, _ = s.edit.input.Update(msg)
}

func (s *State) endEdit() {
	s.edit = nil
	s.mode = ModeNormal
}

func (s *State) commitEdit() error {
	cur, err := s.store.Current()
	if err != nil {
		return err
	}
	if cur.ID != s.edit.requestID {
		return fmt.Errorf("request changed while editing")
	}

	value := s.edit.input.Value()
	switch s.edit.field {
	case FieldURL:
		cur.URL = strings.TrimSpace(value)
	case FieldBody:
		cur.Body = value
	case FieldName:
		cur.Name = strings.TrimSpace(value)
	case FieldFilter:
		cur.Filter = strings.TrimSpace(value)
	case FieldHeader:
		name, val, err := parseHeader(value)
		if err != nil {
			return err
		}
		if cur.Headers == nil {
			cur.Headers = map[string]string{}
		}
		if val == "" {
			delete(cur.Headers, name)
		} else {
			cur.Headers[name] = val
		}
	}

	return s.store.Update(cur)
}

// parseHeader splits "Name: value". An empty value removes the header.
func parseHeader(line string) (string, string, error) {
	name, value, ok := strings.Cut(line, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected \"Name: value\", got %q", line)
	}
	return name, strings.TrimSpace(value), nil
}

func keyMsg(key keybinds.Key) (tea.KeyMsg, bool) {
	if key == "space" {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true
	}
	if t, ok := insertKeys[key]; ok {
		return tea.KeyMsg{Type: t}, true
	}
	if utf8.RuneCountInString(string(key)) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(string(key))}, true
	}
	return tea.KeyMsg{}, false
}

// EditTarget describes the in-progress edit for rendering
type EditTarget struct {
	Field  Field
	Value  string
	Cursor int
}

func (s *State) editTarget() *EditTarget {
	if s.edit == nil {
		return nil
	}
	return &EditTarget{
		Field:  s.edit.field,
		Value:  s.edit.input.Value(),
		Cursor: s.edit.input.Position(),
	}
}
