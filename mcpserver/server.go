// Package mcpserver exposes the pipeline as MCP tools over stdio so agent
// clients can query the bot and inspect its retrieval decisions.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	spokesbot "github.com/drp-labs/spokesbot"
)

// Serve registers the diagnostic tools and blocks serving stdio.
func Serve(client *spokesbot.Client) error {
	s := server.NewMCPServer("spokesbot", spokesbot.Version)

	s.AddTool(
		mcp.NewTool("query",
			mcp.WithDescription("Answer a question about the party's platform and history"),
			mcp.WithString("question",
				mcp.Required(),
				mcp.Description("The question to answer"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			question, err := req.RequireString("question")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(client.Query(ctx, question)), nil
		},
	)

	s.AddTool(
		mcp.NewTool("classify-question",
			mcp.WithDescription("Show which document scope a question would be routed to"),
			mcp.WithString("question",
				mcp.Required(),
				mcp.Description("The question to classify"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			question, err := req.RequireString("question")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(client.Classify(question))), nil
		},
	)

	s.AddTool(
		mcp.NewTool("retrieve-context",
			mcp.WithDescription("Show the passages retrieval would ground an answer on"),
			mcp.WithString("question",
				mcp.Required(),
				mcp.Description("The question to retrieve context for"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			question, err := req.RequireString("question")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			result := client.RetrieveContext(ctx, question)
			payload, err := json.MarshalIndent(map[string]any{
				"doc_type": result.DocType,
				"degraded": result.Degraded,
				"passages": result.Contents(),
			}, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("encode result failed: %v", err)), nil
			}
			return mcp.NewToolResultText(string(payload)), nil
		},
	)

	return server.ServeStdio(s)
}
