package filesystem

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/example/crudgen/internal/ports/secondary"
	crudtmpl "github.com/example/crudgen/internal/templates/crud"
)

// DefaultStubsDir is where published stubs live inside a project.
const DefaultStubsDir = "stubs"

// StubStore implements secondary.StubStore. Stubs in the project's stub
// directory take precedence over the embedded defaults.
type StubStore struct {
	files secondary.ProjectFiles
	dir   string
}

// NewStubStore creates a stub store reading overrides from dir.
func NewStubStore(files secondary.ProjectFiles, dir string) *StubStore {
	if dir == "" {
		dir = DefaultStubsDir
	}
	return &StubStore{files: files, dir: dir}
}

// Stub returns the project override for name, or the embedded default.
func (s *StubStore) Stub(name string) (string, error) {
	ctx := context.Background()
	override := s.path(name)

	exists, err := s.files.Exists(ctx, override)
	if err != nil {
		return "", err
	}
	if exists {
		return s.files.Read(ctx, override)
	}

	content, err := crudtmpl.GetStub(name)
	if err != nil {
		if errors.Is(err, crudtmpl.ErrStubNotFound) {
			return "", fmt.Errorf("%w (looked in %s and the built-in stubs)", err, override)
		}
		return "", err
	}
	return content, nil
}

// Publish copies the embedded stubs into the project stub directory.
func (s *StubStore) Publish(ctx context.Context, force bool) ([]secondary.PublishedStub, error) {
	var published []secondary.PublishedStub
	for _, name := range crudtmpl.Names() {
		target := s.path(name)

		exists, err := s.files.Exists(ctx, target)
		if err != nil {
			return published, err
		}
		if exists && !force {
			published = append(published, secondary.PublishedStub{Name: name, Path: target})
			continue
		}

		content, err := crudtmpl.GetStub(name)
		if err != nil {
			return published, err
		}
		if err := s.files.Write(ctx, target, content); err != nil {
			return published, err
		}
		published = append(published, secondary.PublishedStub{Name: name, Path: target, Written: true})
	}
	return published, nil
}

func (s *StubStore) path(name string) string {
	return path.Join(s.dir, name+crudtmpl.StubExt)
}

// Ensure StubStore implements the interface
var _ secondary.StubStore = (*StubStore)(nil)

