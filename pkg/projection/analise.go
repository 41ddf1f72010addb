package projection

import (
	"fmt"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/analisejp"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"
)

// AnaliseSeries carries one projected metric of an analise-jp chart.
// RawValues keeps the original strings; Values is their numeric coercion.
type AnaliseSeries struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Color     string     `json:"color,omitempty"`
	Values    []*float64 `json:"values"`
	RawValues []string   `json:"raw_values"`
}

// AnaliseData is the rendered view of an analise-jp chart.
type AnaliseData struct {
	Labels []string        `json:"labels"`
	Series []AnaliseSeries `json:"series"`
}

type indexedRecord struct {
	index  int
	record analisejp.Record
}

// AnaliseChartData projects a chart against the latest dataset of its
// category. An explicit row_indices selection always indexes into the full
// record list, hidden rows included; without it the hidden-filtered view is
// used. Positional fallback labels refer to the original record position.
func AnaliseChartData(dimensoes []string, metricas []Metric, rowIndices []int, records []analisejp.Record, hiddenIndices []int) *AnaliseData {
	var selected []indexedRecord
	if len(rowIndices) > 0 {
		for _, index := range analisejp.NormalizeIndices(rowIndices) {
			if index < len(records) {
				selected = append(selected, indexedRecord{index, records[index]})
			}
		}
	} else {
		hidden := make(map[int]struct{}, len(hiddenIndices))
		for _, index := range analisejp.NormalizeIndices(hiddenIndices) {
			hidden[index] = struct{}{}
		}
		for index, record := range records {
			if _, ok := hidden[index]; ok {
				continue
			}
			selected = append(selected, indexedRecord{index, record})
		}
	}

	labels := make([]string, 0, len(selected))
	for _, item := range selected {
		var parts []string
		for _, dimension := range dimensoes {
			if value := strings.TrimSpace(item.record[dimension]); value != "" {
				parts = append(parts, value)
			}
		}
		if len(parts) == 0 {
			parts = append(parts, fmt.Sprintf("Linha %d", item.index+1))
		}
		labels = append(labels, strings.Join(parts, " • "))
	}

	series := make([]AnaliseSeries, 0, len(metricas))
	for _, metric := range metricas {
		label := metric.Label
		if label == "" {
			label = metric.Key
		}

		values := make([]*float64, len(selected))
		raw := make([]string, len(selected))
		for i, item := range selected {
			value := item.record[metric.Key]
			raw[i] = value
			values[i] = tabular.CoerceFloat(value)
		}

		series = append(series, AnaliseSeries{
			Key:       metric.Key,
			Label:     label,
			Color:     metric.Color,
			Values:    values,
			RawValues: raw,
		})
	}

	return &AnaliseData{Labels: labels, Series: series}
}
