package importer

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// FromHTTPFile parses a .http file where requests are separated by ###
// lines. The text after ### names the request and a "# @filter expr" comment
// sets its response filter.
func FromHTTPFile(r io.Reader) ([]types.HttpRequest, error) {
	var requests []types.HttpRequest
	var current *types.HttpRequest
	var bodyLines []string
	inBody := false

	flush := func() {
		if current == nil {
			return
		}
		if len(bodyLines) > 0 {
			current.Body = strings.TrimRight(strings.Join(bodyLines, "\n"), "\n")
		}
		if current.Method != "" {
			requests = append(requests, *current)
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "###") {
			flush()
			current = &types.HttpRequest{
				Name:    strings.TrimSpace(strings.TrimPrefix(line, "###")),
				Headers: make(map[string]string),
			}
			bodyLines = nil
			inBody = false
			continue
		}

		// Requests before the first separator are allowed
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			current = &types.HttpRequest{Headers: make(map[string]string)}
		}

		if !inBody && strings.HasPrefix(line, "#") {
			trimmed := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if expr, ok := strings.CutPrefix(trimmed, "@filter "); ok {
				current.Filter = strings.TrimSpace(expr)
			}
			continue
		}

		if current.Method == "" {
			parts := strings.Fields(line)
			if len(parts) >= 2 && slices.Contains(types.Methods, strings.ToUpper(parts[0])) {
				current.Method = strings.ToUpper(parts[0])
				current.URL = parts[1]
			}
			continue
		}

		if !inBody {
			if strings.TrimSpace(line) == "" {
				inBody = true
				continue
			}
			key, value, ok := strings.Cut(line, ":")
			// Indented lines and keys that cannot be header names start the body
			if !ok || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") ||
				key == "" || strings.ContainsAny(key, " \t{[\"'") {
				inBody = true
				bodyLines = append(bodyLines, line)
				continue
			}
			current.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}

		bodyLines = append(bodyLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	flush()

	if len(requests) == 0 {
		return nil, ErrNoRequests
	}
	return requests, nil
}
