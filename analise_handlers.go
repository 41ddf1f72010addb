package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/analisejp"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/projection"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func listAnaliseCategoriesHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoAnaliseJP) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": analiseCategorySummaries(workflow.ID)})
}

// analiseCategorySummaries lists every category with its current dataset,
// recomputed from the latest upload on each call.
func analiseCategorySummaries(workflowID uint) []gin.H {
	summaries := make([]gin.H, 0, len(analisejp.Categories))
	for _, slug := range analisejp.Categories {
		summary := gin.H{
			"slug":       slug,
			"label":      analisejp.SlugToLabel(slug),
			"has_upload": false,
		}
		if upload := latestAnaliseUpload(workflowID, slug); upload != nil {
			summary["has_upload"] = true
			summary["dataset"] = analiseDataset(upload)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func latestAnaliseUpload(workflowID uint, categoria string) *models.AnaliseUpload {
	var upload models.AnaliseUpload
	err := db.Where("workflow_id = ? AND categoria = ?", workflowID, categoria).
		Order("created_at desc, id desc").
		First(&upload).Error
	if err != nil {
		return nil
	}
	return &upload
}

func analiseRecordsFromUpload(upload *models.AnaliseUpload) []analisejp.Record {
	var records []analisejp.Record
	if err := json.Unmarshal(upload.DadosExtraidos, &records); err != nil {
		log.Printf("registros inválidos no upload %d: %v", upload.ID, err)
		return nil
	}
	return records
}

// analiseDataset builds the per-category view: visible records, column
// metadata and visibility totals. Hidden rows are filtered out but counted.
func analiseDataset(upload *models.AnaliseUpload) gin.H {
	records := analiseRecordsFromUpload(upload)
	hidden := analisejp.NormalizeIndices(jsonInts(upload.LinhasOcultas))
	visible := analisejp.VisibleRecords(records, hidden)

	fields := jsonStrings(upload.Colunas)
	if len(fields) == 0 {
		fields = fieldsFromStoredRecords(upload.DadosExtraidos)
	}

	return gin.H{
		"upload": gin.H{
			"id":           upload.ID,
			"nome_arquivo": upload.NomeArquivo,
			"created_at":   upload.CreatedAt,
		},
		"categoria":      upload.Categoria,
		"label":          analisejp.SlugToLabel(upload.Categoria),
		"fields":         fields,
		"numeric_fields": numericFields(fields, visible),
		"records":        visible,
		"linhas_ocultas": hidden,
		"totals": gin.H{
			"total":    len(records),
			"visiveis": len(visible),
			"ocultos":  len(records) - len(visible),
		},
	}
}

// fieldsFromStoredRecords recovers the source column order from the JSON of
// the first stored record. Uploads made before the colunas column existed
// carry no ordered header list of their own.
func fieldsFromStoredRecords(data datatypes.JSON) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
		return nil
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var fields []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil
		}
		fields = append(fields, key)
	}
	return fields
}

// numericFields returns the columns whose visible values all coerce to
// numbers, requiring at least one non-blank value.
func numericFields(fields []string, records []analisejp.Record) []string {
	numeric := make([]string, 0, len(fields))
	for _, field := range fields {
		seen := false
		ok := true
		for _, record := range records {
			value := strings.TrimSpace(record[field])
			if value == "" {
				continue
			}
			seen = true
			if tabular.CoerceFloat(value) == nil {
				ok = false
				break
			}
		}
		if seen && ok {
			numeric = append(numeric, field)
		}
	}
	return numeric
}

func getAnaliseDatasetHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoAnaliseJP) {
		return
	}
	categoria := c.Param("categoria")
	if err := analisejp.ValidateCategory(categoria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	upload := latestAnaliseUpload(workflow.ID, categoria)
	if upload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum upload encontrado para a categoria informada."})
		return
	}
	c.JSON(http.StatusOK, analiseDataset(upload))
}

// uploadAnaliseHandler ingests a CSV/XLSX for one category. The category is
// validated before any decoding happens; history is retained and reads use
// the newest upload.
func uploadAnaliseHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoAnaliseJP) {
		return
	}
	categoria := c.Param("categoria")
	if err := analisejp.ValidateCategory(categoria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum arquivo enviado."})
		return
	}
	if fileHeader.Size > maxUploadBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo excede o tamanho máximo permitido."})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": tabular.ErrFormatoInvalido.Error()})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}

	table, err := tabular.Decode(data, ext)
	if err != nil {
		respondDecodeError(c, err)
		return
	}
	records, err := analisejp.ExtractRecords(table)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dir := filepath.Join(uploadBaseDir(), "analise_jp", fmt.Sprint(workflow.ID), categoria)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}
	safeName := sanitizeFilename(fileHeader.Filename)
	path := filepath.Join(dir, fmt.Sprintf("%d_%s_%s", workflow.ID, categoria, safeName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}

	upload := models.AnaliseUpload{
		WorkflowID:     workflow.ID,
		Categoria:      categoria,
		NomeArquivo:    safeName,
		CaminhoArquivo: path,
		DadosExtraidos: mustJSON(records),
		Colunas:        mustJSON(analisejp.FieldNames(table)),
		LinhasOcultas:  mustJSON([]int{}),
	}
	if err := db.Create(&upload).Error; err != nil {
		deleteFileIfExists(path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Upload registrado com sucesso.",
		"dataset": analiseDataset(&upload),
	})
}

func deleteAnaliseUploadHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	categoria := c.Param("categoria")
	if err := analisejp.ValidateCategory(categoria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var upload models.AnaliseUpload
	err := db.Where("workflow_id = ? AND categoria = ? AND id = ?", workflow.ID, categoria, c.Param("upload_id")).
		First(&upload).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload não encontrado."})
		return
	}
	if err := db.Delete(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	deleteFileIfExists(upload.CaminhoArquivo)
	c.JSON(http.StatusOK, gin.H{"message": "Upload removido com sucesso."})
}

// updateLinhasOcultasHandler replaces the hidden-row list of the latest
// upload for the category. Indices reference the full stored record list.
func updateLinhasOcultasHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoAnaliseJP) {
		return
	}
	categoria := c.Param("categoria")
	if err := analisejp.ValidateCategory(categoria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req struct {
		LinhasOcultas []int `json:"linhas_ocultas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	upload := latestAnaliseUpload(workflow.ID, categoria)
	if upload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum upload encontrado para a categoria informada."})
		return
	}
	hidden := analisejp.NormalizeIndices(req.LinhasOcultas)
	upload.LinhasOcultas = mustJSON(hidden)
	if err := db.Save(upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Linhas ocultas atualizadas com sucesso.",
		"dataset": analiseDataset(upload),
	})
}

type analiseChartRequest struct {
	Nome      string              `json:"nome"`
	ChartType string              `json:"chart_type"`
	Categoria string              `json:"categoria"`
	Dimensoes []string            `json:"dimensoes"`
	Metricas  []projection.Metric `json:"metricas"`
	Options   json.RawMessage     `json:"options"`
}

func validateAnaliseChartRequest(req *analiseChartRequest) error {
	req.Nome = strings.TrimSpace(req.Nome)
	if req.Nome == "" {
		return errors.New("Informe o nome do gráfico.")
	}
	if !allowedChartTypes[req.ChartType] {
		return errors.New("Tipo de gráfico inválido.")
	}
	if err := analisejp.ValidateCategory(req.Categoria); err != nil {
		return errors.New("Selecione a categoria de origem.")
	}
	if len(req.Dimensoes) == 0 {
		return errors.New("Escolha pelo menos uma coluna para composição das linhas.")
	}
	if len(req.Metricas) == 0 {
		return errors.New("Defina ao menos uma coluna de valores.")
	}
	return nil
}

// analiseChartView hydrates a stored definition and projects it against the
// newest upload of its category. No dataset means data comes back null.
func analiseChartView(chart *models.AnaliseJPChart) gin.H {
	dimensoes := jsonStrings(chart.Dimensoes)
	metricas := jsonMetrics(chart.Metricas)
	options := projection.ParseOptions(chart.Options)

	view := gin.H{
		"id":          chart.ID,
		"workflow_id": chart.WorkflowID,
		"nome":        chart.Nome,
		"chart_type":  chart.ChartType,
		"categoria":   chart.Categoria,
		"dimensoes":   dimensoes,
		"metricas":    metricas,
		"options":     options,
		"created_at":  chart.CreatedAt,
		"updated_at":  chart.UpdatedAt,
	}
	upload := latestAnaliseUpload(chart.WorkflowID, chart.Categoria)
	if upload == nil {
		view["data"] = nil
		return view
	}
	records := analiseRecordsFromUpload(upload)
	hidden := jsonInts(upload.LinhasOcultas)
	view["data"] = projection.AnaliseChartData(dimensoes, metricas, options.RowIndices, records, hidden)
	return view
}

func analiseChartViews(workflowID uint) []gin.H {
	var charts []models.AnaliseJPChart
	db.Where("workflow_id = ?", workflowID).Order("created_at asc").Find(&charts)
	views := make([]gin.H, 0, len(charts))
	for i := range charts {
		views = append(views, analiseChartView(&charts[i]))
	}
	return views
}

func listAnaliseChartsHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoAnaliseJP) {
		return
	}
	views := analiseChartViews(workflow.ID)
	c.JSON(http.StatusOK, gin.H{"items": views, "count": len(views)})
}

func createAnaliseChartHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoAnaliseJP) {
		return
	}
	var req analiseChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAnaliseChartRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chart := models.AnaliseJPChart{
		WorkflowID: workflow.ID,
		Nome:       req.Nome,
		ChartType:  req.ChartType,
		Categoria:  req.Categoria,
		Dimensoes:  mustJSON(req.Dimensoes),
		Metricas:   mustJSON(req.Metricas),
		Options:    chartOptionsJSON(req.Options),
	}
	if err := db.Create(&chart).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Gráfico criado com sucesso.",
		"chart":   analiseChartView(&chart),
	})
}

func updateAnaliseChartHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	var chart models.AnaliseJPChart
	err := db.Where("workflow_id = ? AND id = ?", workflow.ID, c.Param("chart_id")).First(&chart).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gráfico não encontrado."})
		return
	}
	var req analiseChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAnaliseChartRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chart.Nome = req.Nome
	chart.ChartType = req.ChartType
	chart.Categoria = req.Categoria
	chart.Dimensoes = mustJSON(req.Dimensoes)
	chart.Metricas = mustJSON(req.Metricas)
	chart.Options = chartOptionsJSON(req.Options)
	if err := db.Save(&chart).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Gráfico atualizado com sucesso.",
		"chart":   analiseChartView(&chart),
	})
}

func deleteAnaliseChartHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	result := db.Where("workflow_id = ? AND id = ?", workflow.ID, c.Param("chart_id")).Delete(&models.AnaliseJPChart{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gráfico não encontrado."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gráfico removido com sucesso."})
}
