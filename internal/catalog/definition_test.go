package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_EmbeddedDefinition(t *testing.T) {
	def := Default()

	if def.SearchColumn != "작품명" {
		t.Errorf("SearchColumn = %q, want 작품명", def.SearchColumn)
	}
	if def.TitleColumn() != "작품명" {
		t.Errorf("TitleColumn = %q, want 작품명", def.TitleColumn())
	}

	wantChain := []string{"교과서", "대단원", "소단원"}
	if len(def.FilterColumns) != len(wantChain) {
		t.Fatalf("FilterColumns = %v, want %v", def.FilterColumns, wantChain)
	}
	for i, col := range wantChain {
		if def.FilterColumns[i] != col {
			t.Errorf("FilterColumns[%d] = %q, want %q", i, def.FilterColumns[i], col)
		}
	}

	if len(def.Links) == 0 {
		t.Error("embedded definition has no outbound links")
	}
}

func TestLoadDefinition_EmptyPathUsesDefault(t *testing.T) {
	def, err := LoadDefinition("")
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if def.SearchColumn != Default().SearchColumn {
		t.Errorf("SearchColumn = %q", def.SearchColumn)
	}
}

func TestLoadDefinition_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `
search_column: title
filter_columns: [book]
display_columns:
  - {name: title, label: Title}
  - {name: book, label: Book}
source_chain: [book]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if def.SearchColumn != "title" || !def.IsFilterable("book") {
		t.Errorf("unexpected definition: %+v", def)
	}
}

func TestValidate_RejectsUnknownColumns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"search not displayed", func(d *Definition) { d.SearchColumn = "없는열" }},
		{"filter not displayed", func(d *Definition) { d.FilterColumns = []string{"없는열"} }},
		{"chain not displayed", func(d *Definition) { d.SourceChain = []string{"없는열"} }},
		{"no display columns", func(d *Definition) { d.DisplayColumns = nil }},
		{"duplicate display column", func(d *Definition) {
			d.DisplayColumns = append(d.DisplayColumns, Column{Name: "작품명", Label: "x"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := testDefinition()
			tt.mutate(def)
			if err := def.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
