// Package analisejp handles the fixed-category report uploads: records are
// stored exactly as decoded (no derived fields) with a soft hidden-row
// overlay applied at read time.
package analisejp

import (
	"errors"
	"sort"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"
)

// Categories is the closed set of report slugs accepted for uploads.
var Categories = []string{
	"simples_nacional",
	"lucro_real",
	"banco_horas",
	"notas",
	"lucro_presumido",
	"departamento_pessoal",
	"colaboradores",
	"impostos_fiscal",
	"empresas_mes",
	"servicos_simples",
	"servicos_lucro_presumido",
	"servicos_contabil",
	"servicos_contabil_det",
}

var (
	ErrCategoriaInvalida = errors.New("Categoria inválida.")
	ErrSemRegistros      = errors.New("Nenhum registro válido encontrado.")
)

// Record is one stored row: column header -> trimmed raw value.
type Record map[string]string

// ValidateCategory rejects slugs outside the fixed category set.
func ValidateCategory(categoria string) error {
	for _, slug := range Categories {
		if slug == categoria {
			return nil
		}
	}
	return ErrCategoriaInvalida
}

// SlugToLabel renders a category slug as a display label
// ("banco_horas" -> "Banco Horas").
func SlugToLabel(slug string) string {
	parts := strings.Split(slug, "_")
	labels := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		labels = append(labels, strings.ToUpper(part[:1])+part[1:])
	}
	if len(labels) == 0 {
		return slug
	}
	return strings.Join(labels, " ")
}

// FieldNames returns the table headers as stored, replacing empty ones with
// a placeholder. The order mirrors the source file columns.
func FieldNames(t *tabular.Table) []string {
	headers := make([]string, len(t.Headers))
	for i, header := range t.Headers {
		if header == "" {
			header = "Coluna sem nome"
		}
		headers[i] = header
	}
	return headers
}

// ExtractRecords flattens a decoded table into stored records. Headers keep
// whatever the source file had; an empty header gets a placeholder name.
func ExtractRecords(t *tabular.Table) ([]Record, error) {
	headers := FieldNames(t)

	var records []Record
	for _, row := range t.Rows {
		record := make(Record, len(headers))
		empty := true
		for i, header := range headers {
			value := row[i]
			if value != "" {
				empty = false
			}
			record[header] = value
		}
		if !empty {
			records = append(records, record)
		}
	}

	if len(records) == 0 {
		return nil, ErrSemRegistros
	}
	return records, nil
}

// NormalizeIndices deduplicates row indices, drops negatives and returns
// them in ascending order.
func NormalizeIndices(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	indices := make([]int, 0, len(values))
	for _, index := range values {
		if index < 0 {
			continue
		}
		if _, ok := seen[index]; ok {
			continue
		}
		seen[index] = struct{}{}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// VisibleRecords filters out soft-hidden rows, preserving order.
func VisibleRecords(records []Record, hiddenIndices []int) []Record {
	hidden := make(map[int]struct{}, len(hiddenIndices))
	for _, index := range NormalizeIndices(hiddenIndices) {
		hidden[index] = struct{}{}
	}

	visible := make([]Record, 0, len(records))
	for index, record := range records {
		if _, ok := hidden[index]; ok {
			continue
		}
		if record == nil {
			continue
		}
		visible = append(visible, record)
	}
	return visible
}
