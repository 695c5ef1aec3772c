package keybinds

import (
	"fmt"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Chord   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %q: %s", e.Type, e.Chord, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys should keep their default meaning
	reservedKeys map[string]Action
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]Action{
			"ctrl+c": ActionQuit,
		},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	bindings := registry.ListBindings()

	v.checkKeysAndActions(bindings, result)
	v.checkPrefixConflicts(bindings, result)
	v.checkReservedKeys(bindings, result)
	v.checkQuitReachable(registry, result)

	return result
}

// ValidateConfig validates a configuration on top of the defaults
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	registry := NewDefaultRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{Type: "invalid", Message: err.Error()}},
		}
	}
	return v.ValidateRegistry(registry)
}

func (v *Validator) checkKeysAndActions(bindings []Binding, result *ValidationResult) {
	for _, b := range bindings {
		for _, key := range ParseChord(b.Chord) {
			if err := ValidateKey(string(key)); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Chord:   b.Chord,
					Message: err.Error(),
				})
			}
		}
		if !IsKnownAction(b.Action) {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "invalid",
				Chord:   b.Chord,
				Message: fmt.Sprintf("unknown action %q", b.Action),
			})
		}
	}
}

// checkPrefixConflicts finds chords that are a strict prefix of another
// chord. Such a key would have to both complete a binding and open a chord.
func (v *Validator) checkPrefixConflicts(bindings []Binding, result *ValidationResult) {
	chords := make(map[string]Action, len(bindings))
	for _, b := range bindings {
		chords[b.Chord] = b.Action
	}

	for _, b := range bindings {
		keys := ParseChord(b.Chord)
		for i := 1; i < len(keys); i++ {
			prefix := FormatChord(keys[:i])
			if action, ok := chords[prefix]; ok {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "conflict",
					Chord:   prefix,
					Message: fmt.Sprintf("bound to %s but also starts chord %q (%s)", action, b.Chord, b.Action),
				})
			}
		}
	}
}

func (v *Validator) checkReservedKeys(bindings []Binding, result *ValidationResult) {
	for _, b := range bindings {
		if want, ok := v.reservedKeys[b.Chord]; ok && b.Action != want {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:    "warning",
				Chord:   b.Chord,
				Message: "reserved key rebound (may cause issues)",
			})
		}
	}
}

func (v *Validator) checkQuitReachable(registry *Registry, result *ValidationResult) {
	if len(registry.GetBinding(ActionQuit)) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Type:    "warning",
			Message: "no key is bound to quit",
		})
	}
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	result := NewValidator().ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}

	return conflicts
}

// ValidateKey checks if a key name is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	validModifiers := []string{"ctrl+", "alt+", "shift+"}
	for _, mod := range validModifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}
