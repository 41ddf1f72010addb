package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Table holds a decoded spreadsheet: trimmed headers and rows of raw string
// cells, each row padded to the header width. No type inference happens here.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Decode turns uploaded bytes into a Table based on the declared extension.
// Rows that are blank across every column are dropped.
func Decode(data []byte, extension string) (*Table, error) {
	if len(data) == 0 {
		return nil, ErrArquivoVazio
	}
	switch strings.ToLower(extension) {
	case ".csv":
		return decodeCSV(data)
	case ".xlsx":
		return decodeXLSX(data)
	default:
		return nil, ErrFormatoInvalido
	}
}

func decodeCSV(data []byte) (*Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("falha ao ler CSV: %w", err)
	}
	return buildTable(records)
}

func decodeXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrSemDados
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("falha ao ler planilha: %w", err)
	}
	return buildTable(rows)
}

// decodeText interprets the payload as UTF-8 (BOM tolerated) and falls back
// to Latin-1, which accepts any byte sequence.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("falha ao decodificar arquivo: %w", err)
	}
	return string(decoded), nil
}

var delimiterCandidates = []rune{',', ';', '\t', '|'}

// sniffDelimiter picks the most frequent candidate separator on the first
// non-blank line, defaulting to comma.
func sniffDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		best := ','
		bestCount := 0
		for _, candidate := range delimiterCandidates {
			if n := strings.Count(line, string(candidate)); n > bestCount {
				best = candidate
				bestCount = n
			}
		}
		return best
	}
	return ','
}

func buildTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrSemDados
	}

	headers := make([]string, len(records[0]))
	for i, header := range records[0] {
		headers[i] = strings.TrimSpace(header)
	}

	var rows [][]string
	for _, record := range records[1:] {
		row := make([]string, len(headers))
		blank := true
		for i := range headers {
			var cell string
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			if cell != "" {
				blank = false
			}
			row[i] = cell
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrSemDados
	}
	return &Table{Headers: headers, Rows: rows}, nil
}
