package tabular

import "testing"

func TestCoerceFloatBrazilianFormat(t *testing.T) {
	v := CoerceFloat("1.234,56")
	if v == nil || *v != 1234.56 {
		t.Fatalf("expected 1234.56 got %v", v)
	}
	v2 := CoerceFloat("1234.56")
	if v2 == nil || *v2 != 1234.56 {
		t.Fatalf("expected 1234.56 got %v", v2)
	}
}

func TestCoerceFloatCurrencyAndPercent(t *testing.T) {
	v := CoerceFloat("R$ 1.500,00")
	if v == nil || *v != 1500 {
		t.Fatalf("expected 1500 got %v", v)
	}
	v = CoerceFloat("12,5%")
	if v == nil || *v != 12.5 {
		t.Fatalf("expected 12.5 got %v", v)
	}
	// non-breaking space between currency marker and digits
	v = CoerceFloat("R$\u00a0200")
	if v == nil || *v != 200 {
		t.Fatalf("expected 200 got %v", v)
	}
}

func TestCoerceFloatCommaDecimal(t *testing.T) {
	v := CoerceFloat("0,75")
	if v == nil || *v != 0.75 {
		t.Fatalf("expected 0.75 got %v", v)
	}
}

func TestCoerceFloatInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12a", "NaN"} {
		if v := CoerceFloat(input); v != nil {
			t.Fatalf("expected nil for %q got %v", input, *v)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Indicador":       "indicador",
		"  ÍNDICE  ":      "indice",
		"Período 1":       "periodo_1",
		"Receita/Despesa": "receita_despesa",
		"Margem %":        "margem",
		"":                "",
	}
	for input, want := range cases {
		if got := NormalizeHeader(input); got != want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", input, got, want)
		}
	}
}
