package main

import (
	"reflect"
	"testing"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"

	"gorm.io/datatypes"
)

func TestAnaliseDatasetLegacyFieldOrder(t *testing.T) {
	// uploads that predate the colunas column: field order must come from
	// the stored record JSON, not from sorting the map keys
	upload := &models.AnaliseUpload{
		Categoria:      "banco_horas",
		NomeArquivo:    "dados.csv",
		DadosExtraidos: datatypes.JSON(`[{"Zona":"Sul","Area":"Fiscal","Valor":"10"}]`),
		LinhasOcultas:  datatypes.JSON(`[]`),
	}
	dataset := analiseDataset(upload)
	fields, _ := dataset["fields"].([]string)
	if !reflect.DeepEqual(fields, []string{"Zona", "Area", "Valor"}) {
		t.Fatalf("source column order lost: %v", fields)
	}
}

func TestAnaliseDatasetColunasTakePrecedence(t *testing.T) {
	upload := &models.AnaliseUpload{
		Categoria:      "banco_horas",
		NomeArquivo:    "dados.csv",
		DadosExtraidos: datatypes.JSON(`[{"A":"1","B":"2"}]`),
		Colunas:        datatypes.JSON(`["B","A"]`),
		LinhasOcultas:  datatypes.JSON(`[]`),
	}
	dataset := analiseDataset(upload)
	fields, _ := dataset["fields"].([]string)
	if !reflect.DeepEqual(fields, []string{"B", "A"}) {
		t.Fatalf("stored colunas ignored: %v", fields)
	}
}

func TestFieldsFromStoredRecordsMalformed(t *testing.T) {
	if got := fieldsFromStoredRecords(datatypes.JSON(`not json`)); got != nil {
		t.Fatalf("expected nil got %v", got)
	}
	if got := fieldsFromStoredRecords(datatypes.JSON(`[]`)); got != nil {
		t.Fatalf("expected nil for empty list got %v", got)
	}
}
