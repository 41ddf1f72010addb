// Package balancete turns a decoded two-period comparison table into the
// stored dataset payload, deriving absolute/percentual differences and a
// trend per indicator row.
package balancete

import (
	"errors"

	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"
)

// Classification of an indicator's values, user-editable after the upload.
const (
	TipoCurrency   = "currency"
	TipoPercentage = "percentage"
	TipoMultiplier = "multiplier"
)

const (
	TendenciaUp   = "up"
	TendenciaDown = "down"
	TendenciaFlat = "flat"
)

var (
	ErrMinimoColunas  = errors.New("Arquivo deve conter pelo menos tres colunas: indicador e dois periodos.")
	ErrPrimeiraColuna = errors.New("Primeira coluna deve corresponder ao indicador.")
)

// Indicador is one stored dataset row. Numeric fields are nil when the
// source cell was blank or unparsable.
type Indicador struct {
	Indicador           string   `json:"indicador"`
	ValorPeriodo1       *float64 `json:"valor_periodo_1"`
	ValorPeriodo2       *float64 `json:"valor_periodo_2"`
	DiferencaAbsoluta   *float64 `json:"diferenca_absoluta"`
	DiferencaPercentual *float64 `json:"diferenca_percentual"`
	Tendencia           string   `json:"tendencia"`
	TipoValor           string   `json:"tipo_valor"`
}

// Payload is the extracted dataset persisted with a balancete upload.
type Payload struct {
	Periodo1Label    string      `json:"periodo_1_label"`
	Periodo2Label    string      `json:"periodo_2_label"`
	TotalIndicadores int         `json:"total_indicadores"`
	Indicadores      []Indicador `json:"indicadores"`
}

// ValidTipoValor reports whether s is an accepted indicator classification.
func ValidTipoValor(s string) bool {
	return s == TipoCurrency || s == TipoPercentage || s == TipoMultiplier
}

// BuildPayload validates the expected 3-column shape and computes the
// derived comparison fields for every indicator row. Rows with an empty
// indicator cell are dropped entirely.
func BuildPayload(t *tabular.Table) (*Payload, error) {
	if len(t.Headers) < 3 {
		return nil, ErrMinimoColunas
	}

	indicadorHeader := t.Headers[0]
	if indicadorHeader == "" {
		indicadorHeader = "Indicador"
	}
	switch tabular.NormalizeHeader(indicadorHeader) {
	case "indicador", "indice", "":
	default:
		return nil, ErrPrimeiraColuna
	}

	periodo1Label := t.Headers[1]
	if periodo1Label == "" {
		periodo1Label = "Periodo 1"
	}
	periodo2Label := t.Headers[2]
	if periodo2Label == "" {
		periodo2Label = "Periodo 2"
	}

	indicadores := make([]Indicador, 0, len(t.Rows))
	for _, row := range t.Rows {
		nome := row[0]
		if nome == "" {
			continue
		}

		valor1 := tabular.CoerceFloat(row[1])
		valor2 := tabular.CoerceFloat(row[2])

		var diffAbs, diffPct *float64
		if valor1 != nil && valor2 != nil {
			d := *valor2 - *valor1
			diffAbs = &d
		}
		if valor1 != nil && *valor1 != 0 && valor2 != nil {
			p := (*valor2 - *valor1) / *valor1 * 100
			diffPct = &p
		}

		tendencia := TendenciaFlat
		if diffAbs != nil {
			if *diffAbs > 0 {
				tendencia = TendenciaUp
			} else if *diffAbs < 0 {
				tendencia = TendenciaDown
			}
		}

		indicadores = append(indicadores, Indicador{
			Indicador:           nome,
			ValorPeriodo1:       valor1,
			ValorPeriodo2:       valor2,
			DiferencaAbsoluta:   diffAbs,
			DiferencaPercentual: diffPct,
			Tendencia:           tendencia,
			TipoValor:           TipoCurrency,
		})
	}

	return &Payload{
		Periodo1Label:    periodo1Label,
		Periodo2Label:    periodo2Label,
		TotalIndicadores: len(indicadores),
		Indicadores:      indicadores,
	}, nil
}
