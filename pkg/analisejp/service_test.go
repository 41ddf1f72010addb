package analisejp

import (
	"reflect"
	"testing"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"
)

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory("banco_horas"); err != nil {
		t.Fatalf("banco_horas should be valid: %v", err)
	}
	if err := ValidateCategory("categoria_inexistente"); err != ErrCategoriaInvalida {
		t.Fatalf("expected ErrCategoriaInvalida got %v", err)
	}
	if err := ValidateCategory(""); err != ErrCategoriaInvalida {
		t.Fatalf("expected ErrCategoriaInvalida for empty slug got %v", err)
	}
}

func TestSlugToLabel(t *testing.T) {
	if got := SlugToLabel("banco_horas"); got != "Banco Horas" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := SlugToLabel("servicos_contabil_det"); got != "Servicos Contabil Det" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestExtractRecords(t *testing.T) {
	table := &tabular.Table{
		Headers: []string{"Cliente", "Valor"},
		Rows: [][]string{
			{"Empresa A", "100"},
			{"Empresa B", ""},
		},
	}
	records, err := ExtractRecords(table)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records got %d", len(records))
	}
	if records[0]["Cliente"] != "Empresa A" || records[0]["Valor"] != "100" {
		t.Fatalf("unexpected record %v", records[0])
	}
}

func TestExtractRecordsEmptyHeaderPlaceholder(t *testing.T) {
	table := &tabular.Table{
		Headers: []string{"Cliente", ""},
		Rows:    [][]string{{"Empresa A", "100"}},
	}
	records, err := ExtractRecords(table)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if records[0]["Coluna sem nome"] != "100" {
		t.Fatalf("placeholder header missing: %v", records[0])
	}
}

func TestExtractRecordsAllBlank(t *testing.T) {
	table := &tabular.Table{
		Headers: []string{"Cliente", "Valor"},
		Rows:    [][]string{{"", ""}},
	}
	if _, err := ExtractRecords(table); err != ErrSemRegistros {
		t.Fatalf("expected ErrSemRegistros got %v", err)
	}
}

func TestNormalizeIndices(t *testing.T) {
	got := NormalizeIndices([]int{5, 1, 1, -3, 2, 5})
	if !reflect.DeepEqual(got, []int{1, 2, 5}) {
		t.Fatalf("unexpected indices %v", got)
	}
}

func TestVisibleRecords(t *testing.T) {
	records := []Record{
		{"Cliente": "A"},
		{"Cliente": "B"},
		{"Cliente": "C"},
	}
	visible := VisibleRecords(records, []int{1})
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible got %d", len(visible))
	}
	if visible[0]["Cliente"] != "A" || visible[1]["Cliente"] != "C" {
		t.Fatalf("order broken: %v", visible)
	}
	// out-of-range hidden indices are harmless
	if got := VisibleRecords(records, []int{10}); len(got) != 3 {
		t.Fatalf("expected 3 visible got %d", len(got))
	}
}
