// Package scaffold provides code generation for Laravel CRUD modules.
package scaffold

// LogicalType is the user-facing field type keyword.
type LogicalType string

// Supported logical types.
const (
	TypeString     LogicalType = "string"
	TypeText       LogicalType = "text"
	TypeInteger    LogicalType = "integer"
	TypeBigInteger LogicalType = "bigInteger"
	TypeFloat      LogicalType = "float"
	TypeDouble     LogicalType = "double"
	TypeDecimal    LogicalType = "decimal"
	TypeBoolean    LogicalType = "boolean"
	TypeDate       LogicalType = "date"
	TypeDateTime   LogicalType = "datetime"
	TypeTimestamp  LogicalType = "timestamp"
	TypeJSON       LogicalType = "json"
	TypeEmail      LogicalType = "email"
	TypeMoeda      LogicalType = "moeda" // currency, float family
	TypeFile       LogicalType = "file"
	TypeFiles      LogicalType = "files"
)

// ForeignKeyPrefix marks a field as a reference to another model.
const ForeignKeyPrefix = "id_"

// Field is a parsed field descriptor.
type Field struct {
	Name         string      // column / prop name: "id_cliente"
	Label        string      // display text: "Cliente"
	Type         LogicalType // canonical logical type
	IsForeignKey bool        // Name starts with ForeignKeyPrefix
	RelatedModel string      // PascalCase related model for foreign keys: "Cliente"
}

// NamingContext holds every naming variant derived from the model argument.
// It is computed once per run and never mutated.
type NamingContext struct {
	Model            string // as given: "Produto"
	ModelTitle       string // display title: "Produto" or the :"Title" override
	Controller       string // "ProdutoController"
	ViewFolder       string // "Produto"
	RoutePrefix      string // "produto"
	ModelLower       string // "produto"
	ModelPluralTitle string // "Produtos"
	ModelPluralLower string // "produtos"
	Table            string // "produtos"
}

// Operation describes how a generated file is applied to the project.
type Operation string

// File operations.
const (
	OpCreate         Operation = "create"           // whole-file overwrite
	OpCreateIfAbsent Operation = "create_if_absent" // skipped when the file exists
	OpInsertAfter    Operation = "insert_after"     // splice after the anchor
	OpInsertBefore   Operation = "insert_before"    // splice before the anchor
)

// IsSplice reports whether the operation edits an existing file.
func (o Operation) IsSplice() bool {
	return o == OpInsertAfter || o == OpInsertBefore
}

// GeneratedFile represents a file to be created or modified.
type GeneratedFile struct {
	Kind      string    // human label: "Model", "Controller", "Routes"...
	Path      string    // path relative to the project root
	Content   string    // full content for create operations
	Snippet   string    // fragment for splice operations
	Anchor    string    // marker for splice operations
	Operation Operation // how to apply it
}

// Layout holds the project-relative locations the generator writes to.
type Layout struct {
	ModelsDir      string
	ControllersDir string
	ViewsDir       string
	MigrationsDir  string
	RoutesFile     string
	SidebarFile    string
}

// DefaultLayout returns the standard Laravel + Inertia layout.
func DefaultLayout() Layout {
	return Layout{
		ModelsDir:      "app/Models",
		ControllersDir: "app/Http/Controllers",
		ViewsDir:       "resources/js/pages",
		MigrationsDir:  "database/migrations",
		RoutesFile:     "routes/web.php",
		SidebarFile:    "resources/js/components/AppSidebar.vue",
	}
}

// Anchors holds the comment markers spliced fragments are placed next to.
type Anchors struct {
	Controllers string
	Routes      string
	Menu        string
}

// DefaultAnchors returns the markers the starter kit ships with.
func DefaultAnchors() Anchors {
	return Anchors{
		Controllers: "// Controllers",
		Routes:      "// Rotas",
		Menu:        "// Novos Itens do Menu",
	}
}
