package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column describes one display column: the feed column name and the header
// label shown to users (usually identical for this dataset).
type Column struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

// Link is a fixed outbound navigation target ("request a variant exercise"
// and friends). Opaque to the pipeline.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Definition is the static shape of the index: which column is searched,
// which columns filter (in hierarchy order), what is displayed, and the
// tie-break chain for source ordering.
type Definition struct {
	// SearchColumn is the single free-text searchable column.
	SearchColumn string `yaml:"search_column"`

	// FilterColumns is the ordered hierarchical filter chain
	// (textbook -> major unit -> minor unit).
	FilterColumns []string `yaml:"filter_columns"`

	// DisplayColumns is the ordered set of rendered columns. The first one
	// is the primary display column and the default sort key.
	DisplayColumns []Column `yaml:"display_columns"`

	// SourceChain is the tie-break chain used by SortBySource.
	SourceChain []string `yaml:"source_chain"`

	// Links are outbound collaborator links rendered alongside the table.
	Links []Link `yaml:"links"`
}

//go:embed catalog.yaml
var defaultDefinition []byte

// Default returns the built-in index definition.
func Default() *Definition {
	def, err := parseDefinition(defaultDefinition)
	if err != nil {
		// The embedded definition is validated by tests; reaching this
		// means a broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded catalog definition invalid: %v", err))
	}
	return def
}

// LoadDefinition reads a definition override from a YAML file, falling back
// to the embedded default when path is empty.
func LoadDefinition(path string) (*Definition, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog definition: %w", err)
	}
	def, err := parseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("catalog definition %s: %w", path, err)
	}
	return def, nil
}

func parseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks internal consistency. Every referenced column must appear
// in DisplayColumns so the pipeline never keys on a column the normalizer
// does not produce.
func (d *Definition) Validate() error {
	var errs []string

	if d.SearchColumn == "" {
		errs = append(errs, "search_column is required")
	}
	if len(d.DisplayColumns) == 0 {
		errs = append(errs, "display_columns must not be empty")
	}
	if len(d.FilterColumns) == 0 {
		errs = append(errs, "filter_columns must not be empty")
	}
	if len(d.SourceChain) == 0 {
		errs = append(errs, "source_chain must not be empty")
	}

	known := make(map[string]bool, len(d.DisplayColumns))
	for _, col := range d.DisplayColumns {
		if col.Name == "" {
			errs = append(errs, "display column with empty name")
			continue
		}
		if known[col.Name] {
			errs = append(errs, fmt.Sprintf("duplicate display column %q", col.Name))
		}
		known[col.Name] = true
	}

	if d.SearchColumn != "" && !known[d.SearchColumn] {
		errs = append(errs, fmt.Sprintf("search_column %q is not a display column", d.SearchColumn))
	}
	for _, col := range d.FilterColumns {
		if !known[col] {
			errs = append(errs, fmt.Sprintf("filter column %q is not a display column", col))
		}
	}
	for _, col := range d.SourceChain {
		if !known[col] {
			errs = append(errs, fmt.Sprintf("source_chain column %q is not a display column", col))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid definition:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// TitleColumn returns the primary display column, the default sort key.
func (d *Definition) TitleColumn() string {
	return d.DisplayColumns[0].Name
}

// ColumnNames returns the display column names in order.
func (d *Definition) ColumnNames() []string {
	names := make([]string, len(d.DisplayColumns))
	for i, col := range d.DisplayColumns {
		names[i] = col.Name
	}
	return names
}

// IsFilterable reports whether the column participates in the filter chain.
func (d *Definition) IsFilterable(column string) bool {
	for _, col := range d.FilterColumns {
		if col == column {
			return true
		}
	}
	return false
}
