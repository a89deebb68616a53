package tool

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const mcpServerName = "supportdesk-customer-tools"

// NewMCPServer exposes every catalog tool over MCP. Results are returned as
// JSON text; tool failures become MCP error results.
func NewMCPServer(tb *Toolbox, version string) *server.MCPServer {
	s := server.NewMCPServer(
		mcpServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for _, spec := range Catalog() {
		s.AddTool(mcpTool(spec), mcpHandler(tb, spec.Name))
	}
	return s
}

// NewMCPHandler serves the MCP server over streamable HTTP.
func NewMCPHandler(tb *Toolbox, version string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(NewMCPServer(tb, version))
}

func mcpTool(spec Spec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Desc)}
	for _, p := range spec.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Desc)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if len(p.Enum) > 0 {
			propOpts = append(propOpts, mcp.Enum(p.Enum...))
		}

		switch p.Type {
		case ParamInteger:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case ParamObject:
			opts = append(opts, mcp.WithObject(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(spec.Name, opts...)
}

func mcpHandler(tb *Toolbox, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Debug().Str("tool", name).Msg("mcp tool called")

		out, err := tb.Execute(ctx, name, req.GetArguments())
		if err != nil {
			var toolErr *contractx.ToolError
			if errors.As(err, &toolErr) {
				return mcp.NewToolResultError(toolErr.Message), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
