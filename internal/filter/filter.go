package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
)

// Apply runs a JMESPath expression over a JSON response body and returns
// the result pretty-printed. An empty expression returns the body as is.
func Apply(body string, expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return body, nil
	}
	return applyJMESPath(body, expression)
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// Cache remembers the last filtered body so a frame redrawn with the same
// response and expression does not re-run the query.
type Cache struct {
	body, expression string
	result           string
	err              error
	valid            bool
}

// Apply is Apply with memoisation of the most recent call
func (c *Cache) Apply(body string, expression string) (string, error) {
	if c.valid && c.body == body && c.expression == expression {
		return c.result, c.err
	}
	c.body, c.expression = body, expression
	c.result, c.err = Apply(body, expression)
	c.valid = true
	return c.result, c.err
}
