package secondary

import "context"

// ProjectFiles defines the secondary port for reading and writing files
// inside the target project. Paths are relative to the project root.
type ProjectFiles interface {
	// Read returns a file's content.
	Read(ctx context.Context, path string) (string, error)

	// Write creates parent directories and overwrites the file.
	Write(ctx context.Context, path, content string) error

	// Exists reports whether a file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// StubStore defines the secondary port for generator stubs.
type StubStore interface {
	// Stub returns the project override for name, or the embedded default.
	Stub(name string) (string, error)

	// Publish copies the embedded stubs into the project stub directory.
	// Existing files are kept unless force is set.
	Publish(ctx context.Context, force bool) ([]PublishedStub, error)
}

// PublishedStub reports what Publish did with one stub.
type PublishedStub struct {
	Name    string
	Path    string
	Written bool // false when an existing file was kept
}
