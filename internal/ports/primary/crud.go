// Package primary defines the primary ports (driving adapters) for the application.
package primary

import "context"

// CrudService defines the primary port for CRUD scaffolding.
type CrudService interface {
	// MakeCrud generates a CRUD module into the project.
	MakeCrud(ctx context.Context, req MakeCrudRequest) (*MakeCrudResponse, error)

	// PublishStubs copies the default stubs into the project.
	PublishStubs(ctx context.Context, force bool) ([]*PublishedStub, error)
}

// MakeCrudRequest contains parameters for generating a CRUD module.
type MakeCrudRequest struct {
	ModelArg string   // Name or Name:"Display Title"
	Fields   []string // name:label:type triples
	DryRun   bool
	Level    int  // permission level for the route group
	LevelSet bool // Level overrides the configured default
}

// FileAction says what happened to one artifact.
type FileAction string

// File actions.
const (
	ActionCreated        FileAction = "created"
	ActionOverwritten    FileAction = "overwritten"
	ActionSkipped        FileAction = "skipped"
	ActionInserted       FileAction = "inserted"
	ActionAlreadyPresent FileAction = "already present"
	ActionAnchorMissing  FileAction = "anchor missing"
	ActionFileMissing    FileAction = "file missing"
	ActionPlanned        FileAction = "planned"
)

// Splice positions relative to the anchor.
const (
	PositionAfter  = "after"
	PositionBefore = "before"
)

// ManifestEntry describes one artifact of a run.
type ManifestEntry struct {
	Kind     string
	Path     string
	Action   FileAction
	Anchor   string // splice entries only
	Position string // splice entries only
	Content  string // rendered output, kept for dry runs
}

// MakeCrudResponse contains the result of a generation run.
type MakeCrudResponse struct {
	Model     string
	Entries   []ManifestEntry
	Warnings  []string
	NextSteps []string
	DryRun    bool
}

// PublishedStub reports one published stub.
type PublishedStub struct {
	Name    string
	Path    string
	Written bool
}
