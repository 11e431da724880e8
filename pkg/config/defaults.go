package config

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Output defaults.
const (
	DefaultOutputFormat = "table"
)

// DefaultModifiers are the Java access and storage modifiers.
//
//nolint:gochecknoglobals // Read-only default list.
var DefaultModifiers = []string{
	"public", "protected", "private", "static", "final", "abstract", "synchronized", "native", "transient", "volatile",
}

// DefaultGenerators runs only the all-subtrees generator.
//
//nolint:gochecknoglobals // Read-only default list.
var DefaultGenerators = []string{GeneratorAllSubTrees}
