package tabular

import "errors"

// Controlled decode errors; their messages go straight to the API client.
var (
	ErrFormatoInvalido = errors.New("Formato inválido. Utilize arquivos CSV ou XLSX.")
	ErrArquivoVazio    = errors.New("Arquivo vazio.")
	ErrSemDados        = errors.New("Arquivo sem dados para processar.")
)
