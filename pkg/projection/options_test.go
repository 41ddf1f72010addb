package projection

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseOptionsKnownFields(t *testing.T) {
	options := ParseOptions([]byte(`{"row_indices":[2,0,"1"],"indicator_colors":{"Receita":"#ff0000"}}`))
	if !reflect.DeepEqual(options.RowIndices, []int{2, 0, 1}) {
		t.Fatalf("unexpected indices %v", options.RowIndices)
	}
	if options.IndicatorColors["Receita"] != "#ff0000" {
		t.Fatalf("colors lost: %v", options.IndicatorColors)
	}
}

func TestParseOptionsTolerant(t *testing.T) {
	options := ParseOptions([]byte(`{"row_indices":"garbage"}`))
	if options.RowIndices != nil {
		t.Fatalf("expected nil indices got %v", options.RowIndices)
	}
	options = ParseOptions(nil)
	if options.RowIndices != nil || options.IndicatorColors != nil {
		t.Fatalf("expected zero options")
	}
	options = ParseOptions([]byte(`not json`))
	if options.RowIndices != nil {
		t.Fatalf("malformed json should yield zero options")
	}
}

func TestOptionsPreserveUnknownFields(t *testing.T) {
	input := []byte(`{"row_indices":[1],"stacked":true,"legend":{"position":"top"}}`)
	options := ParseOptions(input)

	out, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var round map[string]json.RawMessage
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(round["stacked"]) != "true" {
		t.Fatalf("unknown field dropped: %s", out)
	}
	if _, ok := round["legend"]; !ok {
		t.Fatalf("nested unknown field dropped: %s", out)
	}
	if string(round["row_indices"]) != "[1]" {
		t.Fatalf("known field mangled: %s", out)
	}
}
