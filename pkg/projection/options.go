package projection

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Options is the free-form configuration stored with a chart. Only a small
// closed set of fields is recognized; unknown fields are preserved opaquely
// so definitions written by older frontends keep round-tripping.
type Options struct {
	RowIndices      []int
	IndicatorColors map[string]string

	extra map[string]json.RawMessage
}

// ParseOptions decodes stored chart options, returning empty Options for
// missing or malformed data.
func ParseOptions(data []byte) Options {
	var options Options
	if len(data) > 0 {
		_ = json.Unmarshal(data, &options)
	}
	return options
}

func (o *Options) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["row_indices"]; ok {
		var items []any
		if err := json.Unmarshal(raw, &items); err == nil {
			o.RowIndices = coerceIndices(items)
		}
		delete(fields, "row_indices")
	}
	if raw, ok := fields["indicator_colors"]; ok {
		var colors map[string]string
		if err := json.Unmarshal(raw, &colors); err == nil {
			o.IndicatorColors = colors
		}
		delete(fields, "indicator_colors")
	}

	if len(fields) > 0 {
		o.extra = fields
	}
	return nil
}

func (o Options) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(o.extra)+2)
	for key, raw := range o.extra {
		fields[key] = raw
	}
	if len(o.RowIndices) > 0 {
		raw, err := json.Marshal(o.RowIndices)
		if err != nil {
			return nil, err
		}
		fields["row_indices"] = raw
	}
	if len(o.IndicatorColors) > 0 {
		raw, err := json.Marshal(o.IndicatorColors)
		if err != nil {
			return nil, err
		}
		fields["indicator_colors"] = raw
	}
	return json.Marshal(fields)
}

// coerceIndices accepts numbers or numeric strings, dropping anything else.
func coerceIndices(items []any) []int {
	indices := make([]int, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			indices = append(indices, int(v))
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				indices = append(indices, int(f))
			}
		}
	}
	return indices
}
