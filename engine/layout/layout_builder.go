package layout

// GeneratorBuilderOption is a functional option for configuring a Generator.
type GeneratorBuilderOption func(*generator)

// WithTables replaces the canonical descriptor tables.
//
// Parameters:
//   - t: the tables to generate from; copied on construction
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the tables
func WithTables(t Tables) GeneratorBuilderOption {
	return func(g *generator) {
		g.tables = t
	}
}

// WithQuiet suppresses descriptor warnings.
//
// Parameters:
//   - quiet: true to stop logging clamped descriptors
//
// Returns:
//   - GeneratorBuilderOption: functional option to set quiet mode
func WithQuiet(quiet bool) GeneratorBuilderOption {
	return func(g *generator) {
		g.quiet = quiet
	}
}
