package ddl

// Logical column types. Backends map them to concrete SQL types through
// Dialect.MapType.
const (
	TypeBigInt    = "bigint"
	TypeDouble    = "double"
	TypeText      = "text"
	TypeTimestamp = "timestamp"
)

// ColumnDef describes a single column.
//
// Type is the logical type; SQLType, when set, overrides the dialect mapping.
// Default is emitted as raw SQL.
type ColumnDef struct {
	Name       string
	Type       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds a dotted table name ("schema.table") and its ordered
// columns. Renderers quote the name as their dialect requires.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Names returns the column names in order.
func (t TableDef) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
