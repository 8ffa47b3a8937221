package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sourcegraph/conc"

	"github.com/boarnasia/tinyagents/pkg/utils"
)

// ErrUnsupportedServerScript is returned for server paths that are neither
// Python nor Node scripts.
var ErrUnsupportedServerScript = errors.New("server script must be a .py or .js file")

// Connection reports the outcome of one server connection attempt.
type Connection struct {
	Path  string
	Tools []string
	Err   error
}

// Name returns the display name of the server (the script's base name).
func (c Connection) Name() string {
	return filepath.Base(c.Path)
}

// Connector launches MCP server scripts as subprocesses over stdio and
// registers their tools. Connections are established concurrently; failures
// are isolated per server. Once established, sessions are only ever invoked
// sequentially by the orchestrator.
type Connector struct {
	registry *Registry
	logger   *slog.Logger

	mu       sync.Mutex
	sessions []*mcp.ClientSession
}

// NewConnector creates a Connector registering into the given registry.
// A nil logger discards log output.
func NewConnector(registry *Registry, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Connector{
		registry: registry,
		logger:   logger,
	}
}

// ConnectAll connects to every server path, establishing transports
// concurrently, then registers the surviving providers in path order so
// that name shadowing stays deterministic. A failed server is reported in
// its Connection and skipped; it never aborts the others.
func (c *Connector) ConnectAll(ctx context.Context, paths []string) []Connection {
	results := make([]Connection, len(paths))
	callers := make([]Caller, len(paths))
	descriptors := make([][]Descriptor, len(paths))

	var wg conc.WaitGroup
	for i, path := range paths {
		wg.Go(func() {
			caller, descs, err := c.connect(ctx, path)
			results[i] = Connection{Path: path, Err: err}
			if err != nil {
				return
			}
			callers[i] = caller
			descriptors[i] = descs
			for _, d := range descs {
				results[i].Tools = append(results[i].Tools, d.Name)
			}
		})
	}
	wg.Wait()

	for i := range results {
		if results[i].Err != nil {
			c.logger.Warn("skipping server",
				"server", results[i].Name(),
				"error", results[i].Err,
			)
			continue
		}
		c.registry.Register(callers[i], descriptors[i])
	}

	return results
}

// connect launches one server script, initializes an MCP session over its
// stdio, and lists its tools.
func (c *Connector) connect(ctx context.Context, path string) (Caller, []Descriptor, error) {
	launcher, err := launcherFor(path)
	if err != nil {
		return nil, nil, err
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "tinyagents",
		Version: utils.Version,
	}, nil)

	cmd := exec.CommandContext(ctx, launcher, path)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", filepath.Base(path), err)
	}

	c.mu.Lock()
	c.sessions = append(c.sessions, session)
	c.mu.Unlock()

	caller := &sessionCaller{session: session}
	descs, err := caller.ListTools(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing tools from %s: %w", filepath.Base(path), err)
	}

	c.logger.Debug("server connected",
		"server", filepath.Base(path),
		"tools", len(descs),
	)

	return caller, descs, nil
}

// Close shuts down every established session, including sessions whose
// tool listing or later calls failed. Errors are joined, not short-circuited.
func (c *Connector) Close() error {
	c.mu.Lock()
	sessions := c.sessions
	c.sessions = nil
	c.mu.Unlock()

	var errs []error
	for _, session := range sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// launcherFor maps a server script path to the interpreter that launches it.
func launcherFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python3", nil
	case ".js":
		return "node", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedServerScript, path)
	}
}

// sessionCaller adapts an MCP client session to the Caller capability.
type sessionCaller struct {
	session *mcp.ClientSession
}

func (s *sessionCaller) ListTools(ctx context.Context) ([]Descriptor, error) {
	var descs []Descriptor
	for tool, err := range s.session.Tools(ctx, nil) {
		if err != nil {
			return nil, err
		}
		descs = append(descs, descriptorFromTool(tool))
	}
	return descs, nil
}

func (s *sessionCaller) CallTool(ctx context.Context, name string, args map[string]any) (*Result, error) {
	result, err := s.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, err
	}

	text := firstText(result)
	if result.IsError {
		return nil, fmt.Errorf("tool %s failed: %s", name, text)
	}
	return &Result{Text: text}, nil
}

// descriptorFromTool flattens an MCP tool declaration, carrying its input
// schema through as an opaque JSON object.
func descriptorFromTool(tool *mcp.Tool) Descriptor {
	desc := Descriptor{
		Name:        tool.Name,
		Description: tool.Description,
	}
	if tool.InputSchema != nil {
		if raw, err := json.Marshal(tool.InputSchema); err == nil {
			var schema map[string]any
			if err := json.Unmarshal(raw, &schema); err == nil {
				desc.InputSchema = schema
			}
		}
	}
	return desc
}

// firstText returns the first textual content item of a tool result, or the
// empty string when the result carries none.
func firstText(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
