package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/crudgen/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockCrudService implements primary.CrudService for testing
type mockCrudService struct {
	makeCrudFn     func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error)
	publishStubsFn func(ctx context.Context, force bool) ([]*primary.PublishedStub, error)

	// Track calls for verification
	lastMakeReq primary.MakeCrudRequest
	lastForce   bool
}

func (m *mockCrudService) MakeCrud(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
	m.lastMakeReq = req
	if m.makeCrudFn != nil {
		return m.makeCrudFn(ctx, req)
	}
	return &primary.MakeCrudResponse{Model: "Produto", DryRun: req.DryRun}, nil
}

func (m *mockCrudService) PublishStubs(ctx context.Context, force bool) ([]*primary.PublishedStub, error) {
	m.lastForce = force
	if m.publishStubsFn != nil {
		return m.publishStubsFn(ctx, force)
	}
	return nil, nil
}

func sampleResponse(dryRun bool) *primary.MakeCrudResponse {
	action := primary.ActionCreated
	spliced := primary.ActionInserted
	if dryRun {
		action = primary.ActionPlanned
		spliced = primary.ActionPlanned
	}
	return &primary.MakeCrudResponse{
		Model: "Produto",
		Entries: []primary.ManifestEntry{
			{Kind: "model", Path: "app/Models/Produto.php", Action: action, Content: "class Produto extends Model"},
			{Kind: "route", Path: "routes/web.php", Action: spliced, Anchor: "// CRUD ROUTES", Position: primary.PositionAfter, Content: "Route::prefix('produto')"},
			{Kind: "menu", Path: "resources/js/components/AppSidebar.vue", Action: spliced, Anchor: "// MENU", Position: primary.PositionBefore, Content: "{ title: 'Produtos' }"},
		},
		Warnings:  []string{"type 'banana' is not valid, skipping field 'x'"},
		NextSteps: []string{"Run the migration: php artisan migrate"},
		DryRun:    dryRun,
	}
}

// ============================================================================
// MakeCrud Tests
// ============================================================================

func TestCrudAdapter_MakeCrud_Success(t *testing.T) {
	mock := &mockCrudService{
		makeCrudFn: func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
			return sampleResponse(false), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	err := adapter.MakeCrud(context.Background(), primary.MakeCrudRequest{
		ModelArg: "Produto",
		Fields:   []string{"nome:Nome:string"},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastMakeReq.ModelArg != "Produto" {
		t.Errorf("expected model arg 'Produto', got '%s'", mock.lastMakeReq.ModelArg)
	}
	output := buf.String()
	for _, want := range []string{
		"Generating CRUD for Produto",
		"Warning: type 'banana' is not valid",
		"✓ Created app/Models/Produto.php",
		"✓ Added route to routes/web.php",
		"Next steps:",
		"1. Run the migration: php artisan migrate",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
	if strings.Contains(output, "class Produto extends Model") {
		t.Error("content should only be printed on dry runs")
	}
}

func TestCrudAdapter_MakeCrud_DryRunPrintsContent(t *testing.T) {
	mock := &mockCrudService{
		makeCrudFn: func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
			return sampleResponse(true), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	err := adapter.MakeCrud(context.Background(), primary.MakeCrudRequest{ModelArg: "Produto", DryRun: true})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"(dry-run mode - no files written)",
		"--- app/Models/Produto.php ---",
		"class Produto extends Model",
		"--- routes/web.php (after '// CRUD ROUTES') ---",
		"--- resources/js/components/AppSidebar.vue (before '// MENU') ---",
		"Would write app/Models/Produto.php",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

func TestCrudAdapter_MakeCrud_PartialFailure(t *testing.T) {
	mock := &mockCrudService{
		makeCrudFn: func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
			return &primary.MakeCrudResponse{
				Model: "Produto",
				Entries: []primary.ManifestEntry{
					{Kind: "model", Path: "app/Models/Produto.php", Action: primary.ActionCreated},
				},
			}, errors.New("stub not found: crud.controller")
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	err := adapter.MakeCrud(context.Background(), primary.MakeCrudRequest{ModelArg: "Produto"})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	output := buf.String()
	if !strings.Contains(output, "✓ Created app/Models/Produto.php") {
		t.Errorf("expected partial manifest, got '%s'", output)
	}
	if !strings.Contains(output, "Generation stopped") {
		t.Errorf("expected stop notice, got '%s'", output)
	}
}

func TestCrudAdapter_MakeCrud_ServiceError(t *testing.T) {
	mock := &mockCrudService{
		makeCrudFn: func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
			return nil, errors.New("invalid field format: nome")
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	err := adapter.MakeCrud(context.Background(), primary.MakeCrudRequest{ModelArg: "Produto"})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got '%s'", buf.String())
	}
}

func TestCrudAdapter_MakeCrud_SpliceWarnings(t *testing.T) {
	mock := &mockCrudService{
		makeCrudFn: func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
			return &primary.MakeCrudResponse{
				Model: "Produto",
				Entries: []primary.ManifestEntry{
					{Kind: "menu", Path: "resources/js/Layouts/Menu.vue", Action: primary.ActionAnchorMissing, Anchor: "// MENU"},
					{Kind: "route", Path: "routes/web.php", Action: primary.ActionAlreadyPresent, Anchor: "// ROUTES"},
					{Kind: "migration", Path: "database/migrations/x.php", Action: primary.ActionSkipped},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	if err := adapter.MakeCrud(context.Background(), primary.MakeCrudRequest{ModelArg: "Produto"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"! Could not add menu to resources/js/Layouts/Menu.vue",
		"route already in routes/web.php",
		"! Skipped database/migrations/x.php",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

// ============================================================================
// Preview Tests
// ============================================================================

func TestCrudAdapter_Preview(t *testing.T) {
	mock := &mockCrudService{
		makeCrudFn: func(ctx context.Context, req primary.MakeCrudRequest) (*primary.MakeCrudResponse, error) {
			return sampleResponse(true), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	err := adapter.Preview(context.Background(), primary.MakeCrudRequest{ModelArg: "Produto"})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !mock.lastMakeReq.DryRun {
		t.Error("expected preview to force a dry run")
	}
	output := buf.String()
	if !strings.Contains(output, "Files to create:\n  app/Models/Produto.php") {
		t.Errorf("expected model under files to create, got '%s'", output)
	}
	if !strings.Contains(output, "routes/web.php (route after '// CRUD ROUTES')") {
		t.Errorf("expected route under files to modify, got '%s'", output)
	}
	if !strings.Contains(output, "resources/js/components/AppSidebar.vue (menu before '// MENU')") {
		t.Errorf("expected menu inserted before its anchor, got '%s'", output)
	}
	if strings.Contains(output, "class Produto extends Model") {
		t.Error("preview should not print content")
	}
}

// ============================================================================
// PublishStubs Tests
// ============================================================================

func TestCrudAdapter_PublishStubs(t *testing.T) {
	mock := &mockCrudService{
		publishStubsFn: func(ctx context.Context, force bool) ([]*primary.PublishedStub, error) {
			return []*primary.PublishedStub{
				{Name: "crud.model", Path: "stubs/crud.model.stub", Written: true},
				{Name: "crud.routes", Path: "stubs/crud.routes.stub", Written: false},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	err := adapter.PublishStubs(context.Background(), false)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastForce {
		t.Error("expected force to be false")
	}
	output := buf.String()
	for _, want := range []string{
		"✓ Published stubs/crud.model.stub",
		"Kept stubs/crud.routes.stub (use --force to overwrite)",
		"1 of 2 stubs published",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

func TestCrudAdapter_PublishStubs_Error(t *testing.T) {
	mock := &mockCrudService{
		publishStubsFn: func(ctx context.Context, force bool) ([]*primary.PublishedStub, error) {
			return nil, errors.New("permission denied")
		},
	}
	var buf bytes.Buffer
	adapter := NewCrudAdapter(mock, &buf)

	if err := adapter.PublishStubs(context.Background(), true); err == nil {
		t.Fatal("expected error, got nil")
	}
	if !mock.lastForce {
		t.Error("expected force to be passed through")
	}
}
