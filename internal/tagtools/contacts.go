package tagtools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/model"
)

// ─── ContactsUnderTagTool ────────────────────────────────────────────────────

// ContactsUnderTagTool handles the tag_contacts MCP tool.
type ContactsUnderTagTool struct {
	model *model.Model
}

// NewContactsUnderTagTool creates a ContactsUnderTagTool.
func NewContactsUnderTagTool(m *model.Model) *ContactsUnderTagTool {
	return &ContactsUnderTagTool{model: m}
}

// Definition returns the MCP tool definition for tag_contacts.
func (t *ContactsUnderTagTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_contacts",
		mcp.WithDescription(
			"List the contacts filed under a tag. By default this includes contacts tagged with any of its sub-tags.",
		),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to look up"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Include contacts under sub-tags (default: true)"),
		),
	)
}

// Handle processes the tag_contacts tool call.
func (t *ContactsUnderTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := tagArg(req, "tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recursive := boolArg(req, "recursive", true)

	cs := t.model.ContactsUnderTag(target, recursive)
	return mcp.NewToolResultText(formatContacts(fmt.Sprintf("Contacts under %s", target), cs)), nil
}

// ─── AddContactTool ──────────────────────────────────────────────────────────

// AddContactTool handles the contact_add MCP tool.
type AddContactTool struct {
	model *model.Model
}

// NewAddContactTool creates an AddContactTool.
func NewAddContactTool(m *model.Model) *AddContactTool {
	return &AddContactTool{model: m}
}

// Definition returns the MCP tool definition for contact_add.
func (t *AddContactTool) Definition() mcp.Tool {
	return mcp.NewTool("contact_add",
		mcp.WithDescription("Add a contact to the address book."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Full name"),
		),
		mcp.WithString("phone",
			mcp.Description("Phone number, digits only"),
		),
		mcp.WithString("email",
			mcp.Description("Email address"),
		),
		mcp.WithString("address",
			mcp.Description("Postal address"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags (e.g. 'friends,cs2103')"),
		),
	)
}

// Handle processes the contact_add tool call.
func (t *AddContactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	tags, err := tagListArg(req, "tags")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'tags': %v", err)), nil
	}

	c, err := t.model.AddContact(contact.Params{
		Name:    name,
		Phone:   req.GetString("phone", ""),
		Email:   req.GetString("email", ""),
		Address: req.GetString("address", ""),
		Tags:    tags,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add contact: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Contact added\n%s", formatContact(c))), nil
}

// ─── EditContactTool ─────────────────────────────────────────────────────────

// EditContactTool handles the contact_edit MCP tool.
type EditContactTool struct {
	model *model.Model
}

// NewEditContactTool creates an EditContactTool.
func NewEditContactTool(m *model.Model) *EditContactTool {
	return &EditContactTool{model: m}
}

// Definition returns the MCP tool definition for contact_edit.
func (t *EditContactTool) Definition() mcp.Tool {
	return mcp.NewTool("contact_edit",
		mcp.WithDescription(
			"Edit a contact. Only the fields you pass change. 'tags' replaces the whole tag set; "+
				"'add_tags' and 'remove_tags' adjust it.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Contact ID"),
		),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("phone", mcp.Description("New phone number (empty string clears it)")),
		mcp.WithString("email", mcp.Description("New email (empty string clears it)")),
		mcp.WithString("address", mcp.Description("New address (empty string clears it)")),
		mcp.WithString("tags", mcp.Description("Comma-separated replacement tag set")),
		mcp.WithString("add_tags", mcp.Description("Comma-separated tags to add")),
		mcp.WithString("remove_tags", mcp.Description("Comma-separated tags to remove")),
	)
}

// Handle processes the contact_edit tool call.
func (t *EditContactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	edit := model.Edit{
		Name:    optStringArg(req, "name"),
		Phone:   optStringArg(req, "phone"),
		Email:   optStringArg(req, "email"),
		Address: optStringArg(req, "address"),
	}
	if optStringArg(req, "tags") != nil {
		replaced, err := tagListArg(req, "tags")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid 'tags': %v", err)), nil
		}
		edit.Tags = &replaced
	}
	if edit.AddTags, err = tagListArg(req, "add_tags"); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'add_tags': %v", err)), nil
	}
	if edit.RemoveTags, err = tagListArg(req, "remove_tags"); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'remove_tags': %v", err)), nil
	}

	c, err := t.model.EditContact(id, edit)
	if err != nil {
		if errors.Is(err, model.ErrContactNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no contact with id %s", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to edit contact: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Contact updated\n%s", formatContact(c))), nil
}

// ─── DeleteContactTool ───────────────────────────────────────────────────────

// DeleteContactTool handles the contact_delete MCP tool.
type DeleteContactTool struct {
	model *model.Model
}

// NewDeleteContactTool creates a DeleteContactTool.
func NewDeleteContactTool(m *model.Model) *DeleteContactTool {
	return &DeleteContactTool{model: m}
}

// Definition returns the MCP tool definition for contact_delete.
func (t *DeleteContactTool) Definition() mcp.Tool {
	return mcp.NewTool("contact_delete",
		mcp.WithDescription("Delete a contact permanently."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Contact ID"),
		),
	)
}

// Handle processes the contact_delete tool call.
func (t *DeleteContactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := t.model.DeleteContact(id)
	if err != nil {
		if errors.Is(err, model.ErrContactNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no contact with id %s", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete contact: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Contact deleted: %s", c.Name)), nil
}

// ─── ListContactsTool ────────────────────────────────────────────────────────

// ListContactsTool handles the contact_list MCP tool.
type ListContactsTool struct {
	model *model.Model
}

// NewListContactsTool creates a ListContactsTool.
func NewListContactsTool(m *model.Model) *ListContactsTool {
	return &ListContactsTool{model: m}
}

// Definition returns the MCP tool definition for contact_list.
func (t *ListContactsTool) Definition() mcp.Tool {
	return mcp.NewTool("contact_list",
		mcp.WithDescription("List every contact, sorted by name."),
	)
}

// Handle processes the contact_list tool call.
func (t *ListContactsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cs, err := t.model.Contacts()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list contacts: %v", err)), nil
	}
	return mcp.NewToolResultText(formatContacts("Contacts", cs)), nil
}
