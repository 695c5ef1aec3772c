package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

// helpCategories is the order sections appear in the help document
var helpCategories = []string{"Global", "Navigation", "Requests", "Editors", "Response", "Information"}

// helpDoc renders the keymap as a markdown document. The rendered text is
// cached per wrap width.
type helpDoc struct {
	markdown string
	width    int
	lines    []string
}

func newHelpDoc(registry *keybinds.Registry) *helpDoc {
	return &helpDoc{markdown: HelpMarkdown(registry)}
}

// Lines returns the document wrapped to width
func (h *helpDoc) Lines(width int) []string {
	if h.lines != nil && h.width == width {
		return h.lines
	}

	out, err := renderMarkdown(h.markdown, width)
	if err != nil {
		out = h.markdown
	}
	h.width = width
	h.lines = strings.Split(strings.TrimRight(ansi.Strip(out), "\n"), "\n")
	return h.lines
}

// HelpMarkdown documents every binding in registry, grouped by category
func HelpMarkdown(registry *keybinds.Registry) string {
	grouped := make(map[string][]keybinds.Action)
	for _, action := range keybinds.KnownActions() {
		if len(registry.GetBinding(action)) == 0 {
			continue
		}
		info := keybinds.GetActionInfo(action)
		grouped[info.Category] = append(grouped[info.Category], action)
	}

	var b strings.Builder
	b.WriteString("# Key bindings\n\n")
	b.WriteString("Chords are typed one key at a time. An unknown key cancels a pending chord.\n")

	for _, category := range helpCategories {
		actions := grouped[category]
		if len(actions) == 0 {
			continue
		}
		slices.SortFunc(actions, func(a, b keybinds.Action) int {
			return strings.Compare(keybinds.GetActionInfo(a).Description, keybinds.GetActionInfo(b).Description)
		})

		fmt.Fprintf(&b, "\n## %s\n\n| Keys | Action |\n| --- | --- |\n", category)
		for _, action := range actions {
			fmt.Fprintf(&b, "| `%s` | %s |\n",
				registry.GetBindingString(action),
				keybinds.GetActionInfo(action).Description)
		}
	}
	return b.String()
}

func renderMarkdown(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
