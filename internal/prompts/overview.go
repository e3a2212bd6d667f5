// Package prompts implements MCP prompt handlers for Tagbook.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// OverviewPrompt handles the tagbook-overview MCP prompt.
// It asks the AI to read and summarize the current hierarchy.
type OverviewPrompt struct{}

// NewOverviewPrompt creates an OverviewPrompt.
func NewOverviewPrompt() *OverviewPrompt {
	return &OverviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *OverviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tagbook-overview",
		mcp.WithPromptDescription(
			"Summarize your tag hierarchy: top-level groups, how contacts are spread across them, "+
				"and tags that look unused or misplaced.",
		),
	)
}

// Handle processes the tagbook-overview prompt request.
func (p *OverviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Tag hierarchy overview",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `tag_tree` and `tag_list` to look at my address book tags.\n\n" +
						"Then:\n" +
						"1. Show the hierarchy in a clear, indented format\n" +
						"2. Point out the largest groups by contact count\n" +
						"3. List tags with no contacts under them\n" +
						"4. Suggest sub-tag changes only if something looks misplaced, and ask before applying them",
				),
			},
		},
	}, nil
}
