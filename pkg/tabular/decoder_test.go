package tabular

import (
	"errors"
	"testing"
)

func TestDecodeCSVCommaDelimited(t *testing.T) {
	data := []byte("Indicador,Jan,Fev\nReceita,100,150\nDespesa,80,90\n")
	table, err := Decode(data, ".csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(table.Headers) != 3 || table.Headers[0] != "Indicador" {
		t.Fatalf("unexpected headers %v", table.Headers)
	}
	if len(table.Rows) != 2 || table.Rows[0][1] != "100" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
}

func TestDecodeCSVSemicolonDelimited(t *testing.T) {
	data := []byte("Indicador;Jan;Fev\nReceita;1.000,50;2.000,00\n")
	table, err := Decode(data, ".csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(table.Headers) != 3 {
		t.Fatalf("delimiter not sniffed, headers %v", table.Headers)
	}
	if table.Rows[0][1] != "1.000,50" {
		t.Fatalf("cell mangled: %q", table.Rows[0][1])
	}
}

func TestDecodeCSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Indicador,Jan,Fev\nReceita,1,2\n")...)
	table, err := Decode(data, ".csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if table.Headers[0] != "Indicador" {
		t.Fatalf("BOM leaked into header: %q", table.Headers[0])
	}
}

func TestDecodeCSVLatin1Fallback(t *testing.T) {
	// "Descrição" encoded as Latin-1 (invalid UTF-8 bytes)
	data := []byte("Descri\xe7\xe3o,Jan,Fev\nReceita,1,2\n")
	table, err := Decode(data, ".csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if table.Headers[0] != "Descrição" {
		t.Fatalf("latin-1 fallback broken: %q", table.Headers[0])
	}
}

func TestDecodeDropsBlankRows(t *testing.T) {
	data := []byte("Indicador,Jan,Fev\n,,\nReceita,1,2\n , , \n")
	table, err := Decode(data, ".csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(table.Rows))
	}
}

func TestDecodePadsShortRows(t *testing.T) {
	data := []byte("Indicador,Jan,Fev\nReceita,1\n")
	table, err := Decode(data, ".csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(table.Rows[0]) != 3 || table.Rows[0][2] != "" {
		t.Fatalf("row not padded: %v", table.Rows[0])
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	if _, err := Decode(nil, ".csv"); !errors.Is(err, ErrArquivoVazio) {
		t.Fatalf("expected ErrArquivoVazio got %v", err)
	}
}

func TestDecodeUnknownExtension(t *testing.T) {
	if _, err := Decode([]byte("a,b"), ".pdf"); !errors.Is(err, ErrFormatoInvalido) {
		t.Fatalf("expected ErrFormatoInvalido got %v", err)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	if _, err := Decode([]byte("Indicador,Jan,Fev\n"), ".csv"); !errors.Is(err, ErrSemDados) {
		t.Fatalf("expected ErrSemDados got %v", err)
	}
}
