// Package projection recomputes chart payloads from a stored definition and
// the current dataset. Nothing here is ever cached: a chart holds only
// column and metric references, so re-uploading data changes what every
// chart renders on the next read.
package projection

import (
	"fmt"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/balancete"
)

// Metric is one selected series of a chart definition.
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// BalanceteSeries carries the projected values of one balancete metric.
// Values and RawValues are identical here: the stored dataset is already
// numeric.
type BalanceteSeries struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Color     string     `json:"color,omitempty"`
	ValueKind string     `json:"value_kind"`
	Values    []*float64 `json:"values"`
	RawValues []*float64 `json:"raw_values"`
}

// BalanceteData is the rendered view of a balancete chart.
type BalanceteData struct {
	Labels         []string          `json:"labels"`
	Series         []BalanceteSeries `json:"series"`
	IndicatorTipos map[string]string `json:"indicator_tipos"`
}

type balanceteMetricMeta struct {
	fallbackLabel string
	valueKind     string
}

var balanceteMetrics = map[string]balanceteMetricMeta{
	"valor_periodo_1":      {"Período 1", balancete.TipoCurrency},
	"valor_periodo_2":      {"Período 2", balancete.TipoCurrency},
	"diferenca_absoluta":   {"Diferença Absoluta", balancete.TipoCurrency},
	"diferenca_percentual": {"Diferença %", balancete.TipoPercentage},
}

// ValidBalanceteMetric reports whether key belongs to the fixed metric set.
func ValidBalanceteMetric(key string) bool {
	_, ok := balanceteMetrics[key]
	return ok
}

// BalanceteMetricLabel resolves the display label of a metric key against
// the dataset period labels, falling back to a fixed label.
func BalanceteMetricLabel(key string, payload *balancete.Payload) string {
	switch key {
	case "valor_periodo_1":
		if payload != nil && payload.Periodo1Label != "" {
			return payload.Periodo1Label
		}
	case "valor_periodo_2":
		if payload != nil && payload.Periodo2Label != "" {
			return payload.Periodo2Label
		}
	}
	return balanceteMetrics[key].fallbackLabel
}

// BalanceteMetricValueKind returns the kind rendered for a metric key.
func BalanceteMetricValueKind(key string) string {
	return balanceteMetrics[key].valueKind
}

// BalanceteChartData projects a chart definition against the current
// dataset. Indicators referenced by the chart but absent from the dataset
// are silently skipped; when none of the referenced indicators exist the
// projection falls back to all current rows so the chart stays informative.
func BalanceteChartData(indicadores []string, metricas []Metric, payload *balancete.Payload) *BalanceteData {
	rows := payload.Indicadores
	lookup := make(map[string]*balancete.Indicador, len(rows))
	for i := range rows {
		lookup[rows[i].Indicador] = &rows[i]
	}

	labels := make([]string, 0, len(indicadores))
	filtered := make([]*balancete.Indicador, 0, len(indicadores))
	tipos := make(map[string]string, len(indicadores))

	for _, nome := range indicadores {
		row, ok := lookup[nome]
		if !ok {
			continue
		}
		labels = append(labels, nome)
		filtered = append(filtered, row)
		tipos[nome] = indicadorTipo(row)
	}

	if len(labels) == 0 {
		for i := range rows {
			nome := rows[i].Indicador
			if nome == "" {
				nome = fmt.Sprintf("Indicador %d", i+1)
			} else {
				tipos[nome] = indicadorTipo(&rows[i])
			}
			labels = append(labels, nome)
			filtered = append(filtered, &rows[i])
		}
	}

	series := make([]BalanceteSeries, 0, len(metricas))
	for _, metric := range metricas {
		if !ValidBalanceteMetric(metric.Key) {
			continue
		}
		label := metric.Label
		if label == "" {
			label = BalanceteMetricLabel(metric.Key, payload)
		}

		values := make([]*float64, len(filtered))
		for i, row := range filtered {
			values[i] = metricValue(row, metric.Key)
		}

		series = append(series, BalanceteSeries{
			Key:       metric.Key,
			Label:     label,
			Color:     metric.Color,
			ValueKind: BalanceteMetricValueKind(metric.Key),
			Values:    values,
			RawValues: values,
		})
	}

	return &BalanceteData{
		Labels:         labels,
		Series:         series,
		IndicatorTipos: tipos,
	}
}

func metricValue(row *balancete.Indicador, key string) *float64 {
	switch key {
	case "valor_periodo_1":
		return row.ValorPeriodo1
	case "valor_periodo_2":
		return row.ValorPeriodo2
	case "diferenca_absoluta":
		return row.DiferencaAbsoluta
	case "diferenca_percentual":
		return row.DiferencaPercentual
	}
	return nil
}

func indicadorTipo(row *balancete.Indicador) string {
	if row.TipoValor == "" {
		return balancete.TipoCurrency
	}
	return row.TipoValor
}
