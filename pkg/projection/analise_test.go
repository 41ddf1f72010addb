package projection

import (
	"testing"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/analisejp"
)

func sampleRecords() []analisejp.Record {
	return []analisejp.Record{
		{"Cliente": "Empresa A", "Valor": "100,50"},
		{"Cliente": "Empresa B", "Valor": "200"},
		{"Cliente": "Empresa C", "Valor": "abc"},
		{"Cliente": "", "Valor": "5"},
	}
}

func TestAnaliseChartDataDefaultHidesRows(t *testing.T) {
	data := AnaliseChartData(
		[]string{"Cliente"},
		[]Metric{{Key: "Valor"}},
		nil,
		sampleRecords(),
		[]int{1},
	)
	if len(data.Labels) != 3 {
		t.Fatalf("expected 3 labels got %v", data.Labels)
	}
	if data.Labels[0] != "Empresa A" || data.Labels[1] != "Empresa C" {
		t.Fatalf("hidden row leaked: %v", data.Labels)
	}
	series := data.Series[0]
	if series.Values[0] == nil || *series.Values[0] != 100.5 {
		t.Fatalf("coercion broken: %v", series.Values[0])
	}
	if series.Values[1] != nil {
		t.Fatalf("non-numeric value should coerce to nil")
	}
	if series.RawValues[1] != "abc" {
		t.Fatalf("raw value lost: %q", series.RawValues[1])
	}
}

func TestAnaliseChartDataRowIndicesIgnoreHidden(t *testing.T) {
	// an explicit selection indexes the full record list, hidden rows included
	data := AnaliseChartData(
		[]string{"Cliente"},
		[]Metric{{Key: "Valor"}},
		[]int{1, 0},
		sampleRecords(),
		[]int{1},
	)
	if len(data.Labels) != 2 {
		t.Fatalf("expected 2 labels got %v", data.Labels)
	}
	// indices come back normalized ascending
	if data.Labels[0] != "Empresa A" || data.Labels[1] != "Empresa B" {
		t.Fatalf("unexpected selection: %v", data.Labels)
	}
}

func TestAnaliseChartDataOutOfRangeIndices(t *testing.T) {
	data := AnaliseChartData(
		[]string{"Cliente"},
		[]Metric{{Key: "Valor"}},
		[]int{0, 99},
		sampleRecords(),
		nil,
	)
	if len(data.Labels) != 1 || data.Labels[0] != "Empresa A" {
		t.Fatalf("out-of-range index not dropped: %v", data.Labels)
	}
}

func TestAnaliseChartDataPositionalLabel(t *testing.T) {
	data := AnaliseChartData(
		[]string{"Cliente"},
		[]Metric{{Key: "Valor"}},
		[]int{3},
		sampleRecords(),
		nil,
	)
	// blank dimension cell falls back to the original 1-based row position
	if data.Labels[0] != "Linha 4" {
		t.Fatalf("expected Linha 4 got %q", data.Labels[0])
	}
}

func TestAnaliseChartDataJoinsDimensions(t *testing.T) {
	records := []analisejp.Record{{"Cliente": "Empresa A", "Mes": "Janeiro", "Valor": "1"}}
	data := AnaliseChartData(
		[]string{"Cliente", "Mes"},
		[]Metric{{Key: "Valor"}},
		nil,
		records,
		nil,
	)
	if data.Labels[0] != "Empresa A • Janeiro" {
		t.Fatalf("unexpected label %q", data.Labels[0])
	}
}

func TestAnaliseChartDataMetricLabelDefault(t *testing.T) {
	data := AnaliseChartData(
		[]string{"Cliente"},
		[]Metric{{Key: "Valor"}, {Key: "Valor", Label: "Faturamento"}},
		nil,
		sampleRecords(),
		nil,
	)
	if data.Series[0].Label != "Valor" || data.Series[1].Label != "Faturamento" {
		t.Fatalf("labels wrong: %q %q", data.Series[0].Label, data.Series[1].Label)
	}
}
