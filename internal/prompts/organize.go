package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// OrganizePrompt handles the tagbook-organize MCP prompt.
// It guides the AI through proposing and applying a hierarchy for a goal.
type OrganizePrompt struct{}

// NewOrganizePrompt creates an OrganizePrompt.
func NewOrganizePrompt() *OrganizePrompt {
	return &OrganizePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *OrganizePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tagbook-organize",
		mcp.WithPromptDescription(
			"Reorganize your tags into a hierarchy for a goal, such as grouping course tags under a faculty.",
		),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("What the hierarchy should make easy (e.g. 'find everyone from computing modules')"),
		),
	)
}

// Handle processes the tagbook-organize prompt request.
func (p *OrganizePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := "group related tags together"
	if args := req.Params.Arguments; args != nil {
		if g, ok := args["goal"]; ok && g != "" {
			goal = g
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Organize tags: %s", goal),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to reorganize my address book tags so I can %s.\n\n"+
						"Please:\n"+
						"1. Run `tag_tree` and `tag_list` to see what exists\n"+
						"2. Propose parent tags and which existing tags go under each\n"+
						"3. Wait for me to confirm\n"+
						"4. Apply each parent with one `tag_edit_subtags` call (parent plus comma-separated 'add')\n"+
						"5. Run `tag_tree` again and show me the result\n\n"+
						"A tag may sit under several parents, but no tag may end up under itself. "+
						"If a call is rejected for a cycle, explain which edge caused it.",
					goal,
				)),
			},
		},
	}, nil
}
