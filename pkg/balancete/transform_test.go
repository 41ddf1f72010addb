package balancete

import (
	"testing"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"
)

func table(headers []string, rows ...[]string) *tabular.Table {
	return &tabular.Table{Headers: headers, Rows: rows}
}

func TestBuildPayloadDerivation(t *testing.T) {
	payload, err := BuildPayload(table(
		[]string{"Indicador", "Janeiro", "Fevereiro"},
		[]string{"Receita", "100", "150"},
	))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if payload.TotalIndicadores != 1 {
		t.Fatalf("expected 1 indicador got %d", payload.TotalIndicadores)
	}
	row := payload.Indicadores[0]
	if row.DiferencaAbsoluta == nil || *row.DiferencaAbsoluta != 50 {
		t.Fatalf("expected diff 50 got %v", row.DiferencaAbsoluta)
	}
	if row.DiferencaPercentual == nil || *row.DiferencaPercentual != 50 {
		t.Fatalf("expected pct 50 got %v", row.DiferencaPercentual)
	}
	if row.Tendencia != TendenciaUp {
		t.Fatalf("expected up got %s", row.Tendencia)
	}
	if row.TipoValor != TipoCurrency {
		t.Fatalf("expected default currency got %s", row.TipoValor)
	}
}

func TestBuildPayloadFlatTrend(t *testing.T) {
	payload, err := BuildPayload(table(
		[]string{"Indicador", "P1", "P2"},
		[]string{"Receita", "100", "100"},
	))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	row := payload.Indicadores[0]
	if *row.DiferencaAbsoluta != 0 || row.Tendencia != TendenciaFlat {
		t.Fatalf("expected flat zero diff, got %v %s", *row.DiferencaAbsoluta, row.Tendencia)
	}
}

func TestBuildPayloadZeroBasePercent(t *testing.T) {
	// percent is undefined when period 1 is zero; absolute diff still computed
	payload, err := BuildPayload(table(
		[]string{"Indicador", "P1", "P2"},
		[]string{"Receita", "0", "50"},
	))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	row := payload.Indicadores[0]
	if row.DiferencaPercentual != nil {
		t.Fatalf("expected nil pct got %v", *row.DiferencaPercentual)
	}
	if row.DiferencaAbsoluta == nil || *row.DiferencaAbsoluta != 50 {
		t.Fatalf("expected abs 50 got %v", row.DiferencaAbsoluta)
	}
	if row.Tendencia != TendenciaUp {
		t.Fatalf("expected up got %s", row.Tendencia)
	}
}

func TestBuildPayloadUnparsableValues(t *testing.T) {
	payload, err := BuildPayload(table(
		[]string{"Indicador", "P1", "P2"},
		[]string{"Receita", "n/d", "150"},
	))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	row := payload.Indicadores[0]
	if row.ValorPeriodo1 != nil || row.DiferencaAbsoluta != nil || row.DiferencaPercentual != nil {
		t.Fatalf("expected nil derived fields: %+v", row)
	}
	if row.Tendencia != TendenciaFlat {
		t.Fatalf("expected flat got %s", row.Tendencia)
	}
}

func TestBuildPayloadDropsBlankIndicators(t *testing.T) {
	payload, err := BuildPayload(table(
		[]string{"Indicador", "P1", "P2"},
		[]string{"", "10", "20"},
		[]string{"Receita", "1", "2"},
	))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if payload.TotalIndicadores != 1 || payload.Indicadores[0].Indicador != "Receita" {
		t.Fatalf("blank indicator not dropped: %+v", payload.Indicadores)
	}
}

func TestBuildPayloadPeriodLabels(t *testing.T) {
	payload, err := BuildPayload(table(
		[]string{"Índice", "Janeiro/2024", ""},
		[]string{"Receita", "1", "2"},
	))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if payload.Periodo1Label != "Janeiro/2024" {
		t.Fatalf("unexpected label %q", payload.Periodo1Label)
	}
	if payload.Periodo2Label != "Periodo 2" {
		t.Fatalf("expected default label got %q", payload.Periodo2Label)
	}
}

func TestBuildPayloadTooFewColumns(t *testing.T) {
	_, err := BuildPayload(table([]string{"Indicador", "P1"}, []string{"Receita", "1"}))
	if err != ErrMinimoColunas {
		t.Fatalf("expected ErrMinimoColunas got %v", err)
	}
}

func TestBuildPayloadWrongFirstColumn(t *testing.T) {
	_, err := BuildPayload(table([]string{"Conta", "P1", "P2"}, []string{"Receita", "1", "2"}))
	if err != ErrPrimeiraColuna {
		t.Fatalf("expected ErrPrimeiraColuna got %v", err)
	}
}

func TestValidTipoValor(t *testing.T) {
	for _, tipo := range []string{TipoCurrency, TipoPercentage, TipoMultiplier} {
		if !ValidTipoValor(tipo) {
			t.Fatalf("%s should be valid", tipo)
		}
	}
	if ValidTipoValor("money") {
		t.Fatalf("unexpected tipo accepted")
	}
}
