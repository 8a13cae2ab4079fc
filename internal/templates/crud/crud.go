// Package crud embeds the stubs and fragments used to generate CRUD modules.
package crud

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"
)

//go:embed stubs/*.stub fragments/*.tmpl
var crudTemplates embed.FS

// ErrStubNotFound is returned when no stub exists under the requested name.
var ErrStubNotFound = errors.New("stub not found")

// Stub names.
const (
	StubModel            = "crud.model"
	StubController       = "crud.controller"
	StubCreateView       = "crud.create.vue"
	StubIndexView        = "crud.index.vue"
	StubMigration        = "crud.migration"
	StubRoutes           = "crud.routes"
	StubControllerImport = "crud.controller.import"
	StubMenuItem         = "crud.menu.item"
)

// StubExt is the file extension stubs are stored under.
const StubExt = ".stub"

// Delimiters used by fragment templates. Stubs embed Vue mustaches, so the
// fragments cannot use the default braces.
const (
	LeftDelim  = "[["
	RightDelim = "]]"
)

// GetStub returns the embedded content of a stub.
func GetStub(name string) (string, error) {
	content, err := crudTemplates.ReadFile("stubs/" + name + StubExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrStubNotFound, name)
		}
		return "", err
	}
	return string(content), nil
}

// Names returns the names of every embedded stub, sorted.
func Names() []string {
	entries, err := crudTemplates.ReadDir("stubs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), StubExt))
	}
	sort.Strings(names)
	return names
}

// Fragments parses every fragment template into one set.
func Fragments() (*template.Template, error) {
	files, err := fs.Glob(crudTemplates, "fragments/*.tmpl")
	if err != nil {
		return nil, err
	}
	root := template.New("fragments").Delims(LeftDelim, RightDelim)
	for _, f := range files {
		content, err := crudTemplates.ReadFile(f)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(path.Base(f)).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
	}
	return root, nil
}

// Render fills every {{slot}} in a stub. Tokens without a value are left
// untouched, and values are not rescanned for further tokens.
func Render(stub string, slots map[string]string) string {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", slots[k])
	}
	return strings.NewReplacer(pairs...).Replace(stub)
}
