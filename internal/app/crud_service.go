package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/crudgen/internal/core/splice"
	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/ports/secondary"
	"github.com/example/crudgen/internal/scaffold"
)

// CrudServiceImpl implements the CrudService interface.
type CrudServiceImpl struct {
	files secondary.ProjectFiles
	stubs secondary.StubStore
	opts  scaffold.Options
}

// NewCrudService creates a new CrudService with injected dependencies.
func NewCrudService(files secondary.ProjectFiles, stubs secondary.StubStore, opts scaffold.Options) *CrudServiceImpl {
	return &CrudServiceImpl{
		files: files,
		stubs: stubs,
		opts:  opts,
	}
}

// MakeCrud generates a CRUD module. Argument errors abort before anything is
// written. Artifacts are rendered and applied one step at a time, so when a
// later step fails the returned response still lists what was written.
func (s *CrudServiceImpl) MakeCrud(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
	nc, err := scaffold.BuildNamingContext(req.ModelArg)
	if err != nil {
		return nil, err
	}

	fields, warnings, err := scaffold.ParseFields(req.Fields)
	if err != nil {
		return nil, err
	}

	opts := s.opts
	if req.LevelSet {
		opts.PermissionLevel = req.Level
	}
	gen, err := scaffold.NewGenerator(s.stubs, opts)
	if err != nil {
		return nil, err
	}

	resp := &primary.MakeCrudResponse{
		Model:    nc.Model,
		Warnings: warnings,
		DryRun:   req.DryRun,
	}

	for _, step := range gen.Steps(nc, fields) {
		files, err := step.Render()
		if err != nil {
			return resp, fmt.Errorf("failed to render %s: %w", strings.ToLower(step.Kind), err)
		}
		for _, f := range files {
			entry, warning, err := s.apply(ctx, f, req.DryRun)
			if err != nil {
				return resp, err
			}
			resp.Entries = append(resp.Entries, entry)
			if warning != "" {
				resp.Warnings = append(resp.Warnings, warning)
			}
		}
	}

	resp.NextSteps = scaffold.NextSteps(nc, fields)
	return resp, nil
}

// apply writes one generated file according to its operation.
func (s *CrudServiceImpl) apply(ctx context.Context, f scaffold.GeneratedFile, dryRun bool) (primary.ManifestEntry, string, error) {
	entry := primary.ManifestEntry{Kind: f.Kind, Path: f.Path, Anchor: strings.TrimSpace(f.Anchor)}

	exists, err := s.files.Exists(ctx, f.Path)
	if err != nil {
		return entry, "", err
	}

	if f.Operation.IsSplice() {
		entry.Position = primary.PositionAfter
		if f.Operation == scaffold.OpInsertBefore {
			entry.Position = primary.PositionBefore
		}
		return s.applySplice(ctx, f, entry, exists, dryRun)
	}

	entry.Content = f.Content
	switch {
	case exists && f.Operation == scaffold.OpCreateIfAbsent:
		entry.Action = primary.ActionSkipped
		return entry, fmt.Sprintf("%s %s already exists, skipping", strings.ToLower(f.Kind), f.Path), nil
	case dryRun:
		entry.Action = primary.ActionPlanned
		return entry, "", nil
	case exists:
		entry.Action = primary.ActionOverwritten
	default:
		entry.Action = primary.ActionCreated
	}

	if err := s.files.Write(ctx, f.Path, f.Content); err != nil {
		return entry, "", err
	}
	return entry, "", nil
}

func (s *CrudServiceImpl) applySplice(ctx context.Context, f scaffold.GeneratedFile, entry primary.ManifestEntry, exists, dryRun bool) (primary.ManifestEntry, string, error) {
	entry.Content = f.Snippet

	if !exists {
		entry.Action = primary.ActionFileMissing
		return entry, fmt.Sprintf("%s not found, add the %s manually:\n%s", f.Path, strings.ToLower(f.Kind), f.Snippet), nil
	}

	content, err := s.files.Read(ctx, f.Path)
	if err != nil {
		return entry, "", err
	}

	pos := splice.After
	if f.Operation == scaffold.OpInsertBefore {
		pos = splice.Before
	}

	updated, outcome := splice.Apply(content, f.Anchor, f.Snippet, pos)
	switch outcome {
	case splice.AlreadyPresent:
		entry.Action = primary.ActionAlreadyPresent
		return entry, "", nil
	case splice.AnchorMissing:
		entry.Action = primary.ActionAnchorMissing
		return entry, fmt.Sprintf("anchor '%s' not found in %s, add the %s manually:\n%s",
			entry.Anchor, f.Path, strings.ToLower(f.Kind), f.Snippet), nil
	}

	if dryRun {
		entry.Action = primary.ActionPlanned
		return entry, "", nil
	}

	if err := s.files.Write(ctx, f.Path, updated); err != nil {
		return entry, "", err
	}
	entry.Action = primary.ActionInserted
	return entry, "", nil
}

// PublishStubs copies the default stubs into the project.
func (s *CrudServiceImpl) PublishStubs(ctx context.Context, force bool) ([]*primary.PublishedStub, error) {
	records, err := s.stubs.Publish(ctx, force)
	if err != nil {
		return nil, fmt.Errorf("failed to publish stubs: %w", err)
	}

	published := make([]*primary.PublishedStub, len(records))
	for i, r := range records {
		published[i] = &primary.PublishedStub{Name: r.Name, Path: r.Path, Written: r.Written}
	}
	return published, nil
}

// Ensure CrudServiceImpl implements the interface
var _ primary.CrudService = (*CrudServiceImpl)(nil)
