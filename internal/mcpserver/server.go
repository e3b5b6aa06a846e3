// Package mcpserver exposes a built index over the Model Context
// Protocol so an agent can resolve node identifiers to communities and
// stream a community's GFA lines without shelling out to the CLI.
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Backend is the subset of internal/retrieval.Store's API the server
// needs, kept narrow so tests can fake it without building real index
// artifacts.
type Backend interface {
	Resolve(nodeID string) (int32, bool)
	Stream(communityID int32, consume func(line []byte) bool) error
}

// Server is the MCP server wrapping a Backend.
type Server struct {
	backend Backend
	server  *mcp.Server
}

// Tool describes one callable tool's name, description and JSON schema.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// NewServer constructs a Server over backend.
func NewServer(backend Backend) *Server {
	s := &Server{backend: backend}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "gfaidx",
		Version: "0.1.0",
	}, nil)
	return s
}

// ListTools returns the tools this server exposes.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "gfaidx_resolve",
			Description: "Resolve a GFA node (segment) identifier to the id of the community it was assigned to.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"node_id": {Type: "string", Description: "Segment identifier as it appears in the GFA source"},
				},
				Required: []string{"node_id"},
			},
		},
		{
			Name:        "gfaidx_stream",
			Description: "Stream the GFA lines belonging to a community, up to a maximum number of lines.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"community_id": {Type: "integer", Description: "Community id, as returned by gfaidx_resolve"},
					"max_lines":    {Type: "integer", Description: "Maximum number of lines to return (default 500)"},
				},
				Required: []string{"community_id"},
			},
		},
	}
}

// CallTool dispatches a tool call by name.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "gfaidx_resolve":
		nodeID, _ := args["node_id"].(string)
		return s.handleResolve(nodeID)
	case "gfaidx_stream":
		commFloat, _ := args["community_id"].(float64)
		maxLines, _ := args["max_lines"].(float64)
		if maxLines <= 0 {
			maxLines = 500
		}
		return s.handleStream(int32(commFloat), int(maxLines))
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func (s *Server) handleResolve(nodeID string) (string, error) {
	if nodeID == "" {
		return "No node_id provided", nil
	}
	comm, ok := s.backend.Resolve(nodeID)
	if !ok {
		return fmt.Sprintf("node %q was not found in the index", nodeID), nil
	}
	return fmt.Sprintf("%d", comm), nil
}

func (s *Server) handleStream(communityID int32, maxLines int) (string, error) {
	var sb strings.Builder
	count := 0
	err := s.backend.Stream(communityID, func(line []byte) bool {
		sb.Write(line)
		sb.WriteByte('\n')
		count++
		return count < maxLines
	})
	if err != nil {
		return "", err
	}
	if count == 0 {
		return fmt.Sprintf("community %d has no lines", communityID), nil
	}
	return sb.String(), nil
}

// Run serves newline-delimited JSON-RPC requests from stdin, writing
// responses to stdout, until stdin closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return fmt.Errorf("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading request: %w", err)
		}

		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		resp := s.handleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]any{
				"name":    "gfaidx",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{
				"tools": map[string]any{
					"listChanged": false,
				},
			},
		},
	}
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		_ = json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"tools": toolList,
		},
	}
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}
