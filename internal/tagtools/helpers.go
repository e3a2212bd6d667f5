// Package tagtools provides MCP tool handlers for the tag hierarchy and the
// contacts filed under it.
//
// Each tool handler follows the same pattern:
// - A struct with its dependency (model.Model) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// User-level failures (bad names, cycles, unknown IDs) come back as tool
// errors, never as Go errors.
package tagtools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagtree"
)

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optStringArg returns a pointer to the argument when the caller supplied
// it, even as an empty string, and nil otherwise.
func optStringArg(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// tagArg parses a required tag argument.
func tagArg(req mcp.CallToolRequest, key string) (tag.Tag, error) {
	raw := req.GetString(key, "")
	if strings.TrimSpace(raw) == "" {
		return tag.Tag{}, fmt.Errorf("'%s' is required", key)
	}
	return tag.New(raw)
}

// tagListArg parses a comma-separated tag list. Missing means empty.
func tagListArg(req mcp.CallToolRequest, key string) (tag.Set, error) {
	return tag.ParseList(req.GetString(key, ""))
}

// idArg parses the required contact ID argument.
func idArg(req mcp.CallToolRequest) (contact.ID, error) {
	raw := req.GetString("id", "")
	if raw == "" {
		return contact.ID{}, fmt.Errorf("'id' is required")
	}
	return contact.ParseID(raw)
}

// ─── Formatting ──────────────────────────────────────────────────────────────

// formatContact renders one contact on a single line.
func formatContact(c contact.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s (%s)", c.Name, c.ID)
	if !c.Tags.IsEmpty() {
		fmt.Fprintf(&b, " %s", c.Tags)
	}
	for _, field := range []string{c.Phone, c.Email, c.Address} {
		if field != "" {
			fmt.Fprintf(&b, " | %s", field)
		}
	}
	return b.String()
}

func formatContacts(header string, cs []contact.Contact) string {
	if len(cs) == 0 {
		return header + "\nNo contacts."
	}
	lines := make([]string, 0, len(cs)+1)
	lines = append(lines, fmt.Sprintf("%s (%d)", header, len(cs)))
	for _, c := range cs {
		lines = append(lines, formatContact(c))
	}
	return strings.Join(lines, "\n")
}

// RenderTree draws the hierarchy from its roots downward, one tag per line,
// indented by depth. A tag with several parents is drawn under each of
// them. Tags in known that the tree has never seen are drawn at the top
// level next to the roots. count, when non-nil, annotates every tag with a
// number.
func RenderTree(tree *tagtree.Tree, known tag.Set, count func(tag.Tag) int) string {
	tops := tree.Roots()
	for _, t := range known.Sorted() {
		if !tree.Contains(t) {
			tops = tops.With(t)
		}
	}
	if tops.IsEmpty() {
		return "(no tags)"
	}
	var b strings.Builder
	var walk func(t tag.Tag, depth int)
	walk = func(t tag.Tag, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(t.Name())
		if count != nil {
			fmt.Fprintf(&b, " (%d)", count(t))
		}
		b.WriteByte('\n')
		for _, child := range tree.SubTagsOf(t).Sorted() {
			walk(child, depth+1)
		}
	}
	for _, root := range tops.Sorted() {
		walk(root, 0)
	}
	return strings.TrimRight(b.String(), "\n")
}
