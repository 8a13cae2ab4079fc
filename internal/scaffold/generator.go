package scaffold

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"

	crudtmpl "github.com/example/crudgen/internal/templates/crud"
)

// DefaultStampLayout is Laravel's Y_m_d_His migration prefix.
const DefaultStampLayout = "2006_01_02_150405"

// DefaultLabelColumn is the related-model column shown in dropdowns.
const DefaultLabelColumn = "nome"

// DefaultPermissionLevel guards generated routes when no level is given.
const DefaultPermissionLevel = 2

// StubSource resolves a stub name to its content.
type StubSource interface {
	Stub(name string) (string, error)
}

// EmbeddedStubs serves the stubs compiled into the binary.
type EmbeddedStubs struct{}

// Stub implements StubSource.
func (EmbeddedStubs) Stub(name string) (string, error) {
	return crudtmpl.GetStub(name)
}

// Options tune where and how artifacts are generated.
type Options struct {
	Layout          Layout
	Anchors         Anchors
	MenuOperation   Operation // OpInsertAfter or OpInsertBefore
	LabelColumn     string
	PermissionLevel int
	StampLayout     string
	Now             func() time.Time
}

// DefaultOptions returns the options matching a stock Laravel starter kit.
func DefaultOptions() Options {
	return Options{
		Layout:          DefaultLayout(),
		Anchors:         DefaultAnchors(),
		MenuOperation:   OpInsertAfter,
		LabelColumn:     DefaultLabelColumn,
		PermissionLevel: DefaultPermissionLevel,
		StampLayout:     DefaultStampLayout,
		Now:             time.Now,
	}
}

// Step renders one artifact group. The orchestrator applies each step before
// rendering the next, so a failing step leaves earlier artifacts in place.
type Step struct {
	Kind   string
	Render func() ([]GeneratedFile, error)
}

// Generator renders CRUD artifacts from stubs.
type Generator struct {
	stubs     StubSource
	fragments *template.Template
	policy    *bluemonday.Policy
	opts      Options
}

// NewGenerator creates a new Generator. Zero-valued options fall back to
// their defaults.
func NewGenerator(stubs StubSource, opts Options) (*Generator, error) {
	fragments, err := crudtmpl.Fragments()
	if err != nil {
		return nil, fmt.Errorf("failed to load fragments: %w", err)
	}

	def := DefaultOptions()
	if opts.Layout == (Layout{}) {
		opts.Layout = def.Layout
	}
	if opts.Anchors == (Anchors{}) {
		opts.Anchors = def.Anchors
	}
	if !opts.MenuOperation.IsSplice() {
		opts.MenuOperation = def.MenuOperation
	}
	if opts.LabelColumn == "" {
		opts.LabelColumn = def.LabelColumn
	}
	if opts.StampLayout == "" {
		opts.StampLayout = def.StampLayout
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if stubs == nil {
		stubs = EmbeddedStubs{}
	}

	return &Generator{
		stubs:     stubs,
		fragments: fragments,
		policy:    bluemonday.StrictPolicy(),
		opts:      opts,
	}, nil
}

// Steps returns the artifact pipeline in the order it must be applied.
func (g *Generator) Steps(nc NamingContext, fields []Field) []Step {
	single := func(fn func(NamingContext, []Field) (GeneratedFile, error)) func() ([]GeneratedFile, error) {
		return func() ([]GeneratedFile, error) {
			f, err := fn(nc, fields)
			if err != nil {
				return nil, err
			}
			return []GeneratedFile{f}, nil
		}
	}

	return []Step{
		{Kind: "Model", Render: single(g.Model)},
		{Kind: "Controller", Render: single(g.Controller)},
		{Kind: "Views", Render: func() ([]GeneratedFile, error) { return g.Views(nc, fields) }},
		{Kind: "Routes", Render: func() ([]GeneratedFile, error) { return g.Routing(nc) }},
		{Kind: "Menu", Render: func() ([]GeneratedFile, error) {
			f, err := g.MenuItem(nc)
			if err != nil {
				return nil, err
			}
			return []GeneratedFile{f}, nil
		}},
		{Kind: "Migration", Render: single(g.Migration)},
	}
}

// NextSteps returns the follow-up checklist for a run: one item per foreign
// key, then the usual migrate reminder.
func NextSteps(nc NamingContext, fields []Field) []string {
	var steps []string
	for _, f := range fields {
		if !f.IsForeignKey {
			continue
		}
		steps = append(steps, fmt.Sprintf("Review the %s relationship in %s (related model %s, table %s)",
			f.Name, nc.Model, f.RelatedModel, f.RelatedTable()))
	}
	steps = append(steps, "Run 'php artisan migrate' to create the "+nc.Table+" table")
	return steps
}

// Model renders app/Models/<Model>.php.
func (g *Generator) Model(nc NamingContext, fields []Field) (GeneratedFile, error) {
	stub, err := g.stubs.Stub(crudtmpl.StubModel)
	if err != nil {
		return GeneratedFile{}, err
	}

	fillable := make([]string, 0, len(fields)+1)
	var casts, relationships []string
	for _, f := range fields {
		fillable = append(fillable, quote(f.Name))
		if cast, ok := CastType(f.Type); ok {
			casts = append(casts, fmt.Sprintf("%s => %s", quote(f.Name), quote(cast)))
		}
		if f.IsForeignKey {
			rel, err := g.fragment("relationship", struct {
				Field
				Accessor string
			}{f, ToCamelCase(f.RelatedModel)})
			if err != nil {
				return GeneratedFile{}, err
			}
			relationships = append(relationships, rel)
		}
	}
	fillable = append(fillable, quote("deleted"))

	content := crudtmpl.Render(stub, g.slots(nc, map[string]string{
		"fillable":      strings.Join(fillable, ", "),
		"casts":         strings.Join(casts, ", "),
		"relationships": strings.Join(relationships, "\n\n    "),
	}))

	return GeneratedFile{
		Kind:      "Model",
		Path:      path.Join(g.opts.Layout.ModelsDir, nc.Model+".php"),
		Content:   content,
		Operation: OpCreate,
	}, nil
}

// controllerData feeds the controller method fragments.
type controllerData struct {
	NamingContext
	ValidationRules string
	Options         string
	OptionProps     string
	Uploads         string
}

// Controller renders app/Http/Controllers/<Controller>.php.
func (g *Generator) Controller(nc NamingContext, fields []Field) (GeneratedFile, error) {
	stub, err := g.stubs.Stub(crudtmpl.StubController)
	if err != nil {
		return GeneratedFile{}, err
	}

	data := controllerData{NamingContext: nc}
	rules := make([]string, 0, len(fields))
	var options, optionProps, uploads strings.Builder
	for _, f := range fields {
		rules = append(rules, fmt.Sprintf("%s => %s,", quote(f.Name), quote(ValidationRule(f.Type))))

		if f.IsForeignKey {
			opt, err := g.fragment("options", struct {
				Field
				LabelColumn string
			}{f, g.opts.LabelColumn})
			if err != nil {
				return GeneratedFile{}, err
			}
			options.WriteString(opt)

			prop, err := g.fragment("optionProp", f)
			if err != nil {
				return GeneratedFile{}, err
			}
			optionProps.WriteString(prop)
		}

		var upload string
		switch f.Type {
		case TypeFile:
			upload, err = g.fragment("uploadFile", f)
		case TypeFiles:
			upload, err = g.fragment("uploadFiles", f)
		}
		if err != nil {
			return GeneratedFile{}, err
		}
		uploads.WriteString(upload)
	}
	data.ValidationRules = strings.Join(rules, "\n            ")
	data.Options = options.String()
	data.OptionProps = optionProps.String()
	data.Uploads = uploads.String()

	methods := map[string]string{}
	for _, name := range []string{"create", "store", "edit", "update"} {
		body, err := g.fragment(name, data)
		if err != nil {
			return GeneratedFile{}, err
		}
		methods[name+"Method"] = body
	}
	methods["validationRules"] = data.ValidationRules
	methods["dropdownData"] = data.Options

	return GeneratedFile{
		Kind:      "Controller",
		Path:      path.Join(g.opts.Layout.ControllersDir, nc.Controller+".php"),
		Content:   crudtmpl.Render(stub, g.slots(nc, methods)),
		Operation: OpCreate,
	}, nil
}

// inputData feeds the widget fragments.
type inputData struct {
	Name        string
	Label       string
	OptionsProp string
}

// Views renders the create and index pages.
func (g *Generator) Views(nc NamingContext, fields []Field) ([]GeneratedFile, error) {
	createStub, err := g.stubs.Stub(crudtmpl.StubCreateView)
	if err != nil {
		return nil, err
	}
	indexStub, err := g.stubs.Stub(crudtmpl.StubIndexView)
	if err != nil {
		return nil, err
	}

	var (
		propFields, formFields, dropdownProps, inputs []string
		headers, cells, filters                       []string
		hasSelect                                     bool
	)
	for _, f := range fields {
		label := g.viewText(f.Label)
		in := inputData{Name: f.Name, Label: label, OptionsProp: f.Name + "Options"}

		propFields = append(propFields, fmt.Sprintf("%s: %s", f.Name, PropType(f.Type)))
		formFields = append(formFields, formDefault(f))

		widget := Widget(f)
		if widget == WidgetSelect {
			hasSelect = true
			dropdownProps = append(dropdownProps, fmt.Sprintf("%s?: { value: number; label: string }[];", in.OptionsProp))
		}
		input, err := g.fragment(string(widget), in)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)

		header, err := g.fragment("tableHeader", in)
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)

		cell, err := g.fragment("tableCell", in)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)

		filters = append(filters, fmt.Sprintf("(item.%s || '').toString().toLowerCase().includes(query)", f.Name))
	}

	selectImports := ""
	if hasSelect {
		selectImports, err = g.fragment("selectImports", nil)
		if err != nil {
			return nil, err
		}
	}
	filterConditions := strings.Join(filters, " || ")
	if filterConditions == "" {
		filterConditions = "false"
	}

	slots := g.slots(nc, map[string]string{
		"modelTitle":       g.viewText(nc.ModelTitle),
		"modelPluralTitle": g.viewText(nc.ModelPluralTitle),
		"propFields":       strings.Join(propFields, "; "),
		"formFields":       strings.Join(formFields, ",\n    "),
		"dropdownProps":    strings.Join(dropdownProps, "\n    "),
		"selectImports":    selectImports,
		"formInputs":       strings.Join(inputs, "\n                "),
		"tableHeaders":     strings.Join(headers, "\n                        "),
		"tableCells":       strings.Join(cells, "\n                        "),
		"filterConditions": filterConditions,
	})

	dir := path.Join(g.opts.Layout.ViewsDir, nc.ViewFolder)
	return []GeneratedFile{
		{Kind: "View", Path: path.Join(dir, "create.vue"), Content: crudtmpl.Render(createStub, slots), Operation: OpCreate},
		{Kind: "View", Path: path.Join(dir, "index.vue"), Content: crudtmpl.Render(indexStub, slots), Operation: OpCreate},
	}, nil
}

// mustacheEscaper keeps user text from opening a Vue interpolation.
var mustacheEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;")

// viewText strips markup from user text embedded in a view.
func (g *Generator) viewText(s string) string {
	return mustacheEscaper.Replace(g.policy.Sanitize(s))
}

// formDefault renders the useForm initialiser for a field. Checkboxes need a
// real boolean, so they skip the string coercion the other inputs use.
func formDefault(f Field) string {
	if Widget(f) == WidgetCheckbox {
		return fmt.Sprintf("%s: Boolean(props.item?.%s ?? false)", f.Name, f.Name)
	}
	return fmt.Sprintf("%s: props.item?.%s?.toString() || %s", f.Name, f.Name, ZeroValue(f.Type))
}

// MigrationColumns returns the column statements for a field list: one per
// field, then the soft-delete flag and timestamps.
func MigrationColumns(fields []Field) []string {
	cols := make([]string, 0, len(fields)+2)
	for _, f := range fields {
		cols = append(cols, ColumnDefinition(f))
	}
	return append(cols, "$table->boolean('deleted')->default(false);", "$table->timestamps();")
}

// Migration renders the create-table migration. It is never overwritten.
func (g *Generator) Migration(nc NamingContext, fields []Field) (GeneratedFile, error) {
	stub, err := g.stubs.Stub(crudtmpl.StubMigration)
	if err != nil {
		return GeneratedFile{}, err
	}

	name := fmt.Sprintf("%s_create_%s_table.php", g.opts.Now().Format(g.opts.StampLayout), nc.Table)
	content := crudtmpl.Render(stub, g.slots(nc, map[string]string{
		"columns": strings.Join(MigrationColumns(fields), "\n            "),
	}))

	return GeneratedFile{
		Kind:      "Migration",
		Path:      path.Join(g.opts.Layout.MigrationsDir, name),
		Content:   content,
		Operation: OpCreateIfAbsent,
	}, nil
}

// Routing renders the controller import and route group splices for the
// routes file.
func (g *Generator) Routing(nc NamingContext) ([]GeneratedFile, error) {
	imp, err := g.snippet(crudtmpl.StubControllerImport, nc)
	if err != nil {
		return nil, err
	}
	routes, err := g.snippet(crudtmpl.StubRoutes, nc)
	if err != nil {
		return nil, err
	}

	file := g.opts.Layout.RoutesFile
	return []GeneratedFile{
		{Kind: "Controller import", Path: file, Snippet: imp, Anchor: g.opts.Anchors.Controllers + "\n", Operation: OpInsertAfter},
		{Kind: "Routes", Path: file, Snippet: routes, Anchor: g.opts.Anchors.Routes + "\n", Operation: OpInsertAfter},
	}, nil
}

// MenuItem renders the sidebar entry splice.
func (g *Generator) MenuItem(nc NamingContext) (GeneratedFile, error) {
	item, err := g.snippet(crudtmpl.StubMenuItem, nc)
	if err != nil {
		return GeneratedFile{}, err
	}
	return GeneratedFile{
		Kind:      "Menu",
		Path:      g.opts.Layout.SidebarFile,
		Snippet:   item,
		Anchor:    g.opts.Anchors.Menu + "\n",
		Operation: g.opts.MenuOperation,
	}, nil
}

// snippet renders a stub used as a splice fragment. Trailing newlines are
// dropped; the splicer adds its own.
func (g *Generator) snippet(name string, nc NamingContext) (string, error) {
	stub, err := g.stubs.Stub(name)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(crudtmpl.Render(stub, g.slots(nc, nil)), "\n"), nil
}

// slots merges the naming slots every stub can use with extra values.
func (g *Generator) slots(nc NamingContext, extra map[string]string) map[string]string {
	s := map[string]string{
		"model":            nc.Model,
		"modelTitle":       nc.ModelTitle,
		"controller":       nc.Controller,
		"viewFolder":       nc.ViewFolder,
		"routePrefix":      nc.RoutePrefix,
		"modelLower":       nc.ModelLower,
		"modelPluralTitle": nc.ModelPluralTitle,
		"modelPluralLower": nc.ModelPluralLower,
		"table":            nc.Table,
		"permissionLevel":  strconv.Itoa(g.opts.PermissionLevel),
	}
	for k, v := range extra {
		s[k] = v
	}
	return s
}

// fragment executes a named fragment template.
func (g *Generator) fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := g.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render fragment %s: %w", name, err)
	}
	return buf.String(), nil
}

func quote(s string) string {
	return "'" + s + "'"
}
