package tagtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Tagbook/internal/model"
	"github.com/HendryAvila/Tagbook/internal/tag"
)

// ─── AddSubTagTool ───────────────────────────────────────────────────────────

// AddSubTagTool handles the tag_add_subtag MCP tool.
type AddSubTagTool struct {
	model *model.Model
}

// NewAddSubTagTool creates an AddSubTagTool.
func NewAddSubTagTool(m *model.Model) *AddSubTagTool {
	return &AddSubTagTool{model: m}
}

// Definition returns the MCP tool definition for tag_add_subtag.
func (t *AddSubTagTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_add_subtag",
		mcp.WithDescription(
			"Make one tag a direct sub-tag of another. Contacts tagged with the sub-tag then also count as "+
				"members of the parent. Rejected if it would create a cycle.",
		),
		mcp.WithString("parent",
			mcp.Required(),
			mcp.Description("Parent tag (alphanumeric, case-insensitive)"),
		),
		mcp.WithString("child",
			mcp.Required(),
			mcp.Description("Tag to place under the parent"),
		),
	)
}

// Handle processes the tag_add_subtag tool call.
func (t *AddSubTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent, err := tagArg(req, "parent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	child, err := tagArg(req, "child")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.model.AddSubTag(parent, child); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add sub-tag: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now a sub-tag of %s", child, parent)), nil
}

// ─── EditSubTagsTool ─────────────────────────────────────────────────────────

// EditSubTagsTool handles the tag_edit_subtags MCP tool.
type EditSubTagsTool struct {
	model *model.Model
}

// NewEditSubTagsTool creates an EditSubTagsTool.
func NewEditSubTagsTool(m *model.Model) *EditSubTagsTool {
	return &EditSubTagsTool{model: m}
}

// Definition returns the MCP tool definition for tag_edit_subtags.
func (t *EditSubTagsTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_edit_subtags",
		mcp.WithDescription(
			"Add and remove several direct sub-tags of one parent in a single step. Removals apply first. "+
				"If any addition would create a cycle nothing changes.",
		),
		mcp.WithString("parent",
			mcp.Required(),
			mcp.Description("Parent tag"),
		),
		mcp.WithString("add",
			mcp.Description("Comma-separated tags to add as sub-tags (e.g. 'cs2103,cs1231s')"),
		),
		mcp.WithString("remove",
			mcp.Description("Comma-separated sub-tags to detach"),
		),
	)
}

// Handle processes the tag_edit_subtags tool call.
func (t *EditSubTagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent, err := tagArg(req, "parent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	toAdd, err := tagListArg(req, "add")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'add': %v", err)), nil
	}
	toRemove, err := tagListArg(req, "remove")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'remove': %v", err)), nil
	}
	if toAdd.IsEmpty() && toRemove.IsEmpty() {
		return mcp.NewToolResultError("at least one of 'add' or 'remove' is required"), nil
	}

	if err := t.model.EditSubTags(parent, toAdd, toRemove); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to edit sub-tags: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Sub-tags of %s: %s", parent, t.model.SubTags(parent, false))), nil
}

// ─── RemoveSubTagTool ────────────────────────────────────────────────────────

// RemoveSubTagTool handles the tag_remove_subtag MCP tool.
type RemoveSubTagTool struct {
	model *model.Model
}

// NewRemoveSubTagTool creates a RemoveSubTagTool.
func NewRemoveSubTagTool(m *model.Model) *RemoveSubTagTool {
	return &RemoveSubTagTool{model: m}
}

// Definition returns the MCP tool definition for tag_remove_subtag.
func (t *RemoveSubTagTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_remove_subtag",
		mcp.WithDescription("Detach a sub-tag from its parent. Both tags and their contacts are kept."),
		mcp.WithString("parent",
			mcp.Required(),
			mcp.Description("Parent tag"),
		),
		mcp.WithString("child",
			mcp.Required(),
			mcp.Description("Sub-tag to detach"),
		),
	)
}

// Handle processes the tag_remove_subtag tool call.
func (t *RemoveSubTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent, err := tagArg(req, "parent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	child, err := tagArg(req, "child")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.model.RemoveSubTag(parent, child); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove sub-tag: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is no longer a sub-tag of %s", child, parent)), nil
}

// ─── DeleteTagTool ───────────────────────────────────────────────────────────

// DeleteTagTool handles the tag_delete MCP tool.
type DeleteTagTool struct {
	model *model.Model
}

// NewDeleteTagTool creates a DeleteTagTool.
func NewDeleteTagTool(m *model.Model) *DeleteTagTool {
	return &DeleteTagTool{model: m}
}

// Definition returns the MCP tool definition for tag_delete.
func (t *DeleteTagTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_delete",
		mcp.WithDescription(
			"Delete a tag. Its sub-tags move up to each of its parents, and the tag is removed from every contact.",
		),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to delete"),
		),
	)
}

// Handle processes the tag_delete tool call.
func (t *DeleteTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := tagArg(req, "tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := t.model.DeleteTag(target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete tag: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tag %s deleted (%d contacts updated)", target, n)), nil
}

// ─── SubTagsTool ─────────────────────────────────────────────────────────────

// SubTagsTool handles the tag_subtags MCP tool.
type SubTagsTool struct {
	model *model.Model
}

// NewSubTagsTool creates a SubTagsTool.
func NewSubTagsTool(m *model.Model) *SubTagsTool {
	return &SubTagsTool{model: m}
}

// Definition returns the MCP tool definition for tag_subtags.
func (t *SubTagsTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_subtags",
		mcp.WithDescription("List the sub-tags (or super-tags) of a tag."),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to inspect"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Include every descendant or ancestor, not just direct ones (default: false)"),
		),
		mcp.WithString("direction",
			mcp.Description("'sub' for children (default) or 'super' for parents"),
		),
	)
}

// Handle processes the tag_subtags tool call.
func (t *SubTagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := tagArg(req, "tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recursive := boolArg(req, "recursive", false)

	var (
		result tag.Set
		label  string
	)
	switch dir := req.GetString("direction", "sub"); dir {
	case "sub":
		result, label = t.model.SubTags(target, recursive), "Sub-tags"
	case "super":
		result, label = t.model.SuperTags(target, recursive), "Super-tags"
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown direction %q (want 'sub' or 'super')", dir)), nil
	}

	if result.IsEmpty() {
		return mcp.NewToolResultText(fmt.Sprintf("%s of %s: none", label, target)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s of %s: %s", label, target, result)), nil
}

// ─── TreeTool ────────────────────────────────────────────────────────────────

// TreeTool handles the tag_tree MCP tool.
type TreeTool struct {
	model *model.Model
}

// NewTreeTool creates a TreeTool.
func NewTreeTool(m *model.Model) *TreeTool {
	return &TreeTool{model: m}
}

// Definition returns the MCP tool definition for tag_tree.
func (t *TreeTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_tree",
		mcp.WithDescription(
			"Show the whole tag hierarchy, indented from the top-level tags down. Each tag shows how many "+
				"contacts fall under it including its sub-tags.",
		),
	)
}

// Handle processes the tag_tree tool call.
func (t *TreeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	totals := make(map[tag.Tag]int)
	for _, s := range t.model.Tags() {
		totals[s.Tag] = s.Total
	}
	tree := t.model.Tree()
	known := t.model.KnownTags()
	return mcp.NewToolResultText(RenderTree(tree, known, func(tg tag.Tag) int { return totals[tg] })), nil
}

// ─── ListTagsTool ────────────────────────────────────────────────────────────

// ListTagsTool handles the tag_list MCP tool.
type ListTagsTool struct {
	model *model.Model
}

// NewListTagsTool creates a ListTagsTool.
func NewListTagsTool(m *model.Model) *ListTagsTool {
	return &ListTagsTool{model: m}
}

// Definition returns the MCP tool definition for tag_list.
func (t *ListTagsTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_list",
		mcp.WithDescription(
			"List every known tag as JSON with its direct sub-tags, the number of contacts carrying it, "+
				"and the number of contacts under it including sub-tags.",
		),
	)
}

// Handle processes the tag_list tool call.
func (t *ListTagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(t.model.Tags(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode tags: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
