package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/talis-fb/RequestTUI/internal/config"
	"github.com/talis-fb/RequestTUI/internal/executor"
	"github.com/talis-fb/RequestTUI/internal/filter"
	"github.com/talis-fb/RequestTUI/internal/storage"
	"github.com/talis-fb/RequestTUI/internal/types"
)

var (
	// ErrRequestNotFound is returned when no request matches the given name
	ErrRequestNotFound = errors.New("request not found")
	// ErrRequestFailed is returned when the request failed locally or the
	// server answered with a 4xx or 5xx status
	ErrRequestFailed = errors.New("request failed")
)

// Client executes requests
type Client interface {
	Execute(ctx context.Context, req types.HttpRequest) types.Response
}

// Recorder stores executed requests
type Recorder interface {
	Record(req types.HttpRequest, resp types.Response) error
}

// RunOptions contains options for running a request outside the TUI
type RunOptions struct {
	Name         string // request id or name; empty opens the picker
	OutputFormat string // json, yaml, text, body
	SavePath     string
	ShowFull     bool
	Filter       string // JMESPath expression, overrides the request's own
	Interactive  bool   // stdin is a terminal

	Requests storage.Persistence
	Client   Client
	Recorder Recorder // optional
	Stdout   io.Writer
	Stderr   io.Writer
	Log      logr.Logger
}

// result is the structured output of a run
type result struct {
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Method     string            `json:"method" yaml:"method"`
	URL        string            `json:"url" yaml:"url"`
	Status     int               `json:"status" yaml:"status"`
	DurationMs int64             `json:"durationMs" yaml:"durationMs"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Run executes one request from the collection and prints the response
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	reqs, err := storage.LoadRequests(opts.Requests)
	if err != nil {
		return fmt.Errorf("failed to load requests: %w", err)
	}

	var request types.HttpRequest
	switch {
	case opts.Name != "":
		request, err = FindRequest(reqs, opts.Name)
	case opts.Interactive:
		request, err = SelectRequest(reqs)
	default:
		err = fmt.Errorf("%w: no request name given", ErrRequestNotFound)
	}
	if err != nil {
		return err
	}

	opts.Log.Info("executing request", "id", request.ID, "method", request.Method, "url", request.URL)
	resp := opts.Client.Execute(ctx, request)

	if opts.Recorder != nil {
		if err := opts.Recorder.Record(request, resp); err != nil {
			opts.Log.Error(err, "failed to record history", "id", request.ID)
		}
	}

	res := result{
		Name:       request.Name,
		Method:     request.Method,
		URL:        request.URL,
		Status:     resp.Status,
		DurationMs: resp.ResponseTime,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
	if resp.IsInternalError() {
		res.Body = ""
		res.Error = resp.Body
	}

	// Priority: CLI flag > request-level filter
	filterExpr := opts.Filter
	if filterExpr == "" {
		filterExpr = request.Filter
	}
	if filterExpr != "" && res.Error == "" {
		filtered, err := filter.Apply(res.Body, filterExpr)
		if err != nil {
			fmt.Fprintf(opts.Stderr, "Warning: filter error: %v\n", err)
		} else {
			res.Body = filtered
		}
	}

	output, err := formatOutput(res, opts.OutputFormat, opts.ShowFull)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, []byte(output), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		fmt.Fprintf(opts.Stderr, "Response saved to %s\n", opts.SavePath)
	} else {
		fmt.Fprint(opts.Stdout, output)
	}

	if res.Error != "" {
		return fmt.Errorf("%w: %s", ErrRequestFailed, res.Error)
	}
	if resp.Status >= 400 {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.Status)
	}
	return nil
}

// FindRequest returns the request whose id matches name exactly, or whose
// name matches it ignoring case
func FindRequest(reqs []types.HttpRequest, name string) (types.HttpRequest, error) {
	for _, r := range reqs {
		if r.ID == name {
			return r, nil
		}
	}
	for _, r := range reqs {
		if r.Name != "" && strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return types.HttpRequest{}, fmt.Errorf("%w: %q", ErrRequestNotFound, name)
}

var (
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// formatOutput formats the result based on the output format
func formatOutput(res result, format string, showFull bool) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(res)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "body":
		return res.Body, nil

	case "text", "":
		var sb strings.Builder

		if res.Error != "" {
			sb.WriteString(styleError.Render("Error: "+res.Error) + "\n")
			sb.WriteString(fmt.Sprintf("Duration: %s\n", executor.FormatDuration(res.DurationMs)))
			return sb.String(), nil
		}

		sb.WriteString(statusStyle(res.Status).Render(fmt.Sprintf("%d %s %s", res.Status, res.Method, res.URL)) + "\n")
		sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s\n",
			executor.FormatDuration(res.DurationMs),
			executor.FormatSize(len(res.Body))))

		if showFull && len(res.Headers) > 0 {
			sb.WriteString("\nHeaders:\n")
			for _, key := range slices.Sorted(maps.Keys(res.Headers)) {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", key, res.Headers[key]))
			}
		}

		if res.Body != "" {
			if showFull {
				sb.WriteString("\nBody:\n")
			} else {
				sb.WriteString("\n")
			}
			sb.WriteString(res.Body)
			sb.WriteString("\n")
		}
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml, text or body)", format)
	}
}

func statusStyle(status int) lipgloss.Style {
	switch {
	case executor.IsSuccessStatus(status):
		return styleOK
	case status >= 400:
		return styleError
	}
	return styleWarn
}
