// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete stores, builds the
// model over them and injects it into the tools, prompts and resources.
// No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/Tagbook/internal/addressbook"
	"github.com/HendryAvila/Tagbook/internal/config"
	"github.com/HendryAvila/Tagbook/internal/model"
	"github.com/HendryAvila/Tagbook/internal/prompts"
	"github.com/HendryAvila/Tagbook/internal/resources"
	"github.com/HendryAvila/Tagbook/internal/storage"
	"github.com/HendryAvila/Tagbook/internal/tagtools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options tune how New builds the model.
type Options struct {
	// ResetCorrupt starts from an empty hierarchy when the tag tree file
	// is corrupt instead of refusing to start.
	ResetCorrupt bool
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function saves the tag tree and closes the contact
// database. It must be called on shutdown (typically via defer) and is
// always non-nil.
func New(cfg config.Config, logger *zap.Logger, opts Options) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, store, err := OpenModel(cfg, logger, opts)
	if err != nil {
		return nil, noop, err
	}

	cleanup := func() {
		if err := m.Save(); err != nil {
			logger.Warn("saving tag tree on shutdown", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			logger.Warn("closing contact store", zap.Error(err))
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"tagbook",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTagTools(s, m)

	// --- Register prompts ---

	overview := prompts.NewOverviewPrompt()
	s.AddPrompt(overview.Definition(), overview.Handle)

	organize := prompts.NewOrganizePrompt()
	s.AddPrompt(organize.Definition(), organize.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(m)
	s.AddResource(resourceHandler.TreeResource(), resourceHandler.HandleTree)
	s.AddResource(resourceHandler.TagsResource(), resourceHandler.HandleTags)

	logger.Info("mcp server ready",
		zap.String("version", Version),
		zap.String("tag_tree", cfg.TagTreePath()),
		zap.String("database", cfg.DatabasePath()),
	)
	return s, cleanup, nil
}

// OpenModel opens the contact database and the tag tree file named by cfg
// and builds a model over them. The caller owns the returned store and
// must close it.
func OpenModel(cfg config.Config, logger *zap.Logger, opts Options) (*model.Model, *addressbook.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := addressbook.New(addressbook.Config{Path: cfg.DatabasePath()})
	if err != nil {
		return nil, nil, fmt.Errorf("opening contact store: %w", err)
	}

	m, err := model.New(model.Deps{
		Contacts:     store,
		Trees:        storage.NewFileStore(cfg.TagTreePath()),
		Logger:       logger.Named("model"),
		AutoSave:     cfg.AutoSave,
		ResetCorrupt: opts.ResetCorrupt,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return m, store, nil
}

// noop is a no-op cleanup function used when setup fails.
func noop() {}

// registerTagTools registers all 12 tag and contact MCP tools with the server.
func registerTagTools(s *server.MCPServer, m *model.Model) {
	// --- Hierarchy edits ---
	addSubTag := tagtools.NewAddSubTagTool(m)
	s.AddTool(addSubTag.Definition(), addSubTag.Handle)

	editSubTags := tagtools.NewEditSubTagsTool(m)
	s.AddTool(editSubTags.Definition(), editSubTags.Handle)

	removeSubTag := tagtools.NewRemoveSubTagTool(m)
	s.AddTool(removeSubTag.Definition(), removeSubTag.Handle)

	deleteTag := tagtools.NewDeleteTagTool(m)
	s.AddTool(deleteTag.Definition(), deleteTag.Handle)

	// --- Hierarchy queries ---
	subTags := tagtools.NewSubTagsTool(m)
	s.AddTool(subTags.Definition(), subTags.Handle)

	tree := tagtools.NewTreeTool(m)
	s.AddTool(tree.Definition(), tree.Handle)

	listTags := tagtools.NewListTagsTool(m)
	s.AddTool(listTags.Definition(), listTags.Handle)

	underTag := tagtools.NewContactsUnderTagTool(m)
	s.AddTool(underTag.Definition(), underTag.Handle)

	// --- Contacts ---
	addContact := tagtools.NewAddContactTool(m)
	s.AddTool(addContact.Definition(), addContact.Handle)

	editContact := tagtools.NewEditContactTool(m)
	s.AddTool(editContact.Definition(), editContact.Handle)

	deleteContact := tagtools.NewDeleteContactTool(m)
	s.AddTool(deleteContact.Definition(), deleteContact.Handle)

	listContacts := tagtools.NewListContactsTool(m)
	s.AddTool(listContacts.Definition(), listContacts.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use Tagbook effectively.
func serverInstructions() string {
	return `You have access to Tagbook, an address book whose tags form a hierarchy.

## Tags
- Tag names are alphanumeric with no spaces and are case-insensitive
  ("CS2103" and "cs2103" are the same tag).
- A tag can have sub-tags. A contact tagged "cs2103" also counts as a member
  of every tag above it, e.g. "computing" if cs2103 is a sub-tag of computing.
- A tag may have several parents. It may never end up under itself: any edit
  that would create a cycle is rejected and nothing changes.

## Tools
- tag_tree: see the whole hierarchy with contact counts. Start here.
- tag_list: the same data as JSON, with direct and total counts per tag.
- tag_add_subtag / tag_remove_subtag: change one edge.
- tag_edit_subtags: add and remove several children of one parent at once.
  Use this for bulk reorganizations; it is all-or-nothing.
- tag_delete: removes a tag everywhere. Its children move up to each of its
  parents, so no contact falls out of a parent group.
- tag_subtags: children or parents of one tag, optionally recursive.
- tag_contacts: contacts under a tag, including sub-tags by default.
- contact_add / contact_edit / contact_delete / contact_list: manage contacts.
  Contacts are addressed by the id returned from contact_add or contact_list.

## Rules
- Lists of tags are comma-separated strings: "friends,cs2103".
- Ask the user before tag_delete or contact_delete. They cannot be undone.
- When an edit is rejected, show the user the error text; it names the edge
  that would have closed the cycle.`
}
