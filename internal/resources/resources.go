// Package resources implements MCP resource handlers for Tagbook.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (tagbook://...) following MCP conventions.
package resources

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Tagbook/internal/model"
	"github.com/HendryAvila/Tagbook/internal/storage"
)

const (
	// TreeURI serves the hierarchy in the tag tree file format.
	TreeURI = "tagbook://tree"
	// TagsURI serves per-tag summaries.
	TagsURI = "tagbook://tags"
)

// Handler manages Tagbook resource endpoints.
type Handler struct {
	model *model.Model
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(m *model.Model) *Handler {
	return &Handler{model: m}
}

// TreeResource returns the MCP resource definition for the tag hierarchy.
func (h *Handler) TreeResource() mcp.Resource {
	return mcp.NewResource(
		TreeURI,
		"Tag hierarchy",
		mcp.WithResourceDescription("Every tag and its direct sub-tags, as stored in the tag tree file"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTree returns the live hierarchy as a version 1 document.
func (h *Handler) HandleTree(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, storage.Encode(h.model.Tree()))
}

// TagsResource returns the MCP resource definition for tag summaries.
func (h *Handler) TagsResource() mcp.Resource {
	return mcp.NewResource(
		TagsURI,
		"Tag summaries",
		mcp.WithResourceDescription("Every known tag with direct sub-tags and contact counts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTags returns the tag summaries.
func (h *Handler) HandleTags(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.model.Tags())
}
