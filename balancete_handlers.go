package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/balancete"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/projection"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/tabular"

	"github.com/gin-gonic/gin"
)

var allowedChartTypes = map[string]bool{
	"bar":            true,
	"bar-horizontal": true,
	"line":           true,
	"area":           true,
	"pie":            true,
	"donut":          true,
	"table":          true,
}

// uploadBalanceteHandler ingests a CSV/XLSX balancete. A workflow holds a
// single dataset, so any previous uploads (rows and files) are replaced.
func uploadBalanceteHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoBalancete) {
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
	payload, err := balancete.BuildPayload(table)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Replace any previous dataset for this workflow.
	var previous []models.ArquivoImportado
	db.Where("workflow_id = ?", workflow.ID).Find(&previous)
	if len(previous) > 0 {
		if err := db.Where("workflow_id = ?", workflow.ID).Delete(&models.ArquivoImportado{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
			return
		}
		for _, old := range previous {
			deleteFileIfExists(old.CaminhoArquivo)
		}
	}

	dir := filepath.Join(uploadBaseDir(), "balancete", fmt.Sprint(workflow.ID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}
	safeName := sanitizeFilename(fileHeader.Filename)
	path := filepath.Join(dir, fmt.Sprintf("%d_%d_%s", workflow.ID, time.Now().UnixNano(), safeName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}

	upload := models.ArquivoImportado{
		WorkflowID:     workflow.ID,
		NomeArquivo:    safeName,
		CaminhoArquivo: path,
		DadosExtraidos: mustJSON(payload),
	}
	if err := db.Create(&upload).Error; err != nil {
		deleteFileIfExists(path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Upload processado com sucesso.",
		"dataset": balanceteDatasetFromUpload(&upload),
	})
}

func respondDecodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tabular.ErrFormatoInvalido),
		errors.Is(err, tabular.ErrArquivoVazio),
		errors.Is(err, tabular.ErrSemDados):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("decode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar o arquivo."})
	}
}

func latestBalanceteUpload(workflowID uint) *models.ArquivoImportado {
	var upload models.ArquivoImportado
	err := db.Where("workflow_id = ?", workflowID).
		Order("data_upload desc, id desc").
		First(&upload).Error
	if err != nil {
		return nil
	}
	return &upload
}

func balancetePayloadFromUpload(upload *models.ArquivoImportado) *balancete.Payload {
	var payload balancete.Payload
	if err := json.Unmarshal(upload.DadosExtraidos, &payload); err != nil {
		log.Printf("payload inválido no upload %d: %v", upload.ID, err)
		return nil
	}
	return &payload
}

// balanceteDatasetFromUpload projects the stored payload into the view the
// frontend consumes: period labels, selector options and the raw records.
func balanceteDatasetFromUpload(upload *models.ArquivoImportado) gin.H {
	payload := balancetePayloadFromUpload(upload)
	if payload == nil {
		return nil
	}

	indicatorOptions := make([]gin.H, 0, len(payload.Indicadores))
	for _, item := range payload.Indicadores {
		indicatorOptions = append(indicatorOptions, gin.H{
			"value":      item.Indicador,
			"label":      item.Indicador,
			"tipo_valor": item.TipoValor,
		})
	}
	valueOptions := make([]gin.H, 0, 4)
	for _, key := range []string{"valor_periodo_1", "valor_periodo_2", "diferenca_absoluta", "diferenca_percentual"} {
		valueOptions = append(valueOptions, gin.H{
			"value":      key,
			"label":      projection.BalanceteMetricLabel(key, payload),
			"value_kind": projection.BalanceteMetricValueKind(key),
		})
	}

	return gin.H{
		"upload": gin.H{
			"id":           upload.ID,
			"nome_arquivo": upload.NomeArquivo,
			"data_upload":  upload.DataUpload,
		},
		"period_labels": gin.H{
			"periodo_1": payload.Periodo1Label,
			"periodo_2": payload.Periodo2Label,
		},
		"indicator_options": indicatorOptions,
		"value_options":     valueOptions,
		"records":           payload.Indicadores,
		"total_indicadores": payload.TotalIndicadores,
	}
}

func getBalanceteDatasetHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoBalancete) {
		return
	}
	upload := latestBalanceteUpload(workflow.ID)
	if upload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum upload disponível para este workflow."})
		return
	}
	dataset := balanceteDatasetFromUpload(upload)
	if dataset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum upload disponível para este workflow."})
		return
	}
	c.JSON(http.StatusOK, dataset)
}

func deleteBalanceteUploadHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	var upload models.ArquivoImportado
	err := db.Where("workflow_id = ? AND id = ?", workflow.ID, c.Param("upload_id")).First(&upload).Error
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

// updateIndicadorTipoHandler reclassifies a single indicator's value kind on
// the stored dataset. Charts pick the change up on the next read.
func updateIndicadorTipoHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoBalancete) {
		return
	}
	var req struct {
		TipoValor string `json:"tipo_valor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !balancete.ValidTipoValor(req.TipoValor) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de valor inválido."})
		return
	}
	upload := latestBalanceteUpload(workflow.ID)
	if upload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum upload disponível para este workflow."})
		return
	}
	payload := balancetePayloadFromUpload(upload)
	if payload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum upload disponível para este workflow."})
		return
	}

	indicador := c.Param("indicador")
	found := false
	for i := range payload.Indicadores {
		if payload.Indicadores[i].Indicador == indicador {
			payload.Indicadores[i].TipoValor = req.TipoValor
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Indicador não encontrado."})
		return
	}

	upload.DadosExtraidos = mustJSON(payload)
	if err := db.Save(upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Tipo de valor atualizado com sucesso.",
		"indicador":  indicador,
		"tipo_valor": req.TipoValor,
	})
}

type balanceteChartRequest struct {
	Nome              string              `json:"nome"`
	ChartType         string              `json:"chart_type"`
	IndicadorDimensao string              `json:"indicador_dimensao"`
	Indicadores       []string            `json:"indicadores"`
	Metricas          []projection.Metric `json:"metricas"`
	Options           json.RawMessage     `json:"options"`
}

func validateBalanceteChartRequest(req *balanceteChartRequest) error {
	req.Nome = strings.TrimSpace(req.Nome)
	if req.Nome == "" {
		return errors.New("Informe o nome do gráfico.")
	}
	if !allowedChartTypes[req.ChartType] {
		return errors.New("Tipo de gráfico inválido.")
	}
	if len(req.Indicadores) == 0 {
		return errors.New("Selecione pelo menos um indicador.")
	}
	if len(req.Metricas) == 0 {
		return errors.New("Defina ao menos uma métrica.")
	}
	for _, metric := range req.Metricas {
		if !projection.ValidBalanceteMetric(metric.Key) {
			return errors.New("Métrica desconhecida.")
		}
	}
	if req.IndicadorDimensao == "" {
		req.IndicadorDimensao = "indicador"
	}
	return nil
}

// balanceteChartView hydrates a stored definition and, when the workflow has
// a dataset, attaches a freshly computed projection. Definitions are never
// rejected for referencing indicators absent from the current upload.
func balanceteChartView(chart *models.Dashboard, payload *balancete.Payload) gin.H {
	indicadores := jsonStrings(chart.Indicadores)
	metricas := jsonMetrics(chart.Metricas)
	for i := range metricas {
		if metricas[i].Label == "" {
			metricas[i].Label = projection.BalanceteMetricLabel(metricas[i].Key, payload)
		}
	}
	options := projection.ParseOptions(chart.Options)

	view := gin.H{
		"id":                 chart.ID,
		"workflow_id":        chart.WorkflowID,
		"nome":               chart.Nome,
		"chart_type":         chart.ChartType,
		"indicador_dimensao": chart.IndicadorDimensao,
		"indicadores":        indicadores,
		"metricas":           metricas,
		"options":            options,
		"created_at":         chart.CreatedAt,
		"updated_at":         chart.UpdatedAt,
	}
	if payload != nil {
		view["data"] = projection.BalanceteChartData(indicadores, metricas, payload)
	} else {
		view["data"] = nil
	}
	return view
}

func balanceteChartViews(workflowID uint) []gin.H {
	var charts []models.Dashboard
	db.Where("workflow_id = ?", workflowID).Order("created_at asc").Find(&charts)

	var payload *balancete.Payload
	if upload := latestBalanceteUpload(workflowID); upload != nil {
		payload = balancetePayloadFromUpload(upload)
	}

	views := make([]gin.H, 0, len(charts))
	for i := range charts {
		views = append(views, balanceteChartView(&charts[i], payload))
	}
	return views
}

func listBalanceteChartsHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoBalancete) {
		return
	}
	views := balanceteChartViews(workflow.ID)
	response := gin.H{"items": views, "count": len(views), "dataset": nil}
	if upload := latestBalanceteUpload(workflow.ID); upload != nil {
		if dataset := balanceteDatasetFromUpload(upload); dataset != nil {
			response["dataset"] = dataset
		}
	}
	c.JSON(http.StatusOK, response)
}

func createBalanceteChartHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	if !ensureWorkflowTipo(c, workflow, models.TipoBalancete) {
		return
	}
	var req balanceteChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateBalanceteChartRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chart := models.Dashboard{
		WorkflowID:        workflow.ID,
		Nome:              req.Nome,
		ChartType:         req.ChartType,
		IndicadorDimensao: req.IndicadorDimensao,
		Indicadores:       mustJSON(req.Indicadores),
		Metricas:          mustJSON(req.Metricas),
		Options:           chartOptionsJSON(req.Options),
	}
	if err := db.Create(&chart).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	var payload *balancete.Payload
	if upload := latestBalanceteUpload(workflow.ID); upload != nil {
		payload = balancetePayloadFromUpload(upload)
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Gráfico criado com sucesso.",
		"chart":   balanceteChartView(&chart, payload),
	})
}

func updateBalanceteChartHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	var chart models.Dashboard
	err := db.Where("workflow_id = ? AND id = ?", workflow.ID, c.Param("chart_id")).First(&chart).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gráfico não encontrado."})
		return
	}
	var req balanceteChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateBalanceteChartRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chart.Nome = req.Nome
	chart.ChartType = req.ChartType
	chart.IndicadorDimensao = req.IndicadorDimensao
	chart.Indicadores = mustJSON(req.Indicadores)
	chart.Metricas = mustJSON(req.Metricas)
	chart.Options = chartOptionsJSON(req.Options)
	if err := db.Save(&chart).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	var payload *balancete.Payload
	if upload := latestBalanceteUpload(workflow.ID); upload != nil {
		payload = balancetePayloadFromUpload(upload)
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Gráfico atualizado com sucesso.",
		"chart":   balanceteChartView(&chart, payload),
	})
}

func deleteBalanceteChartHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	result := db.Where("workflow_id = ? AND id = ?", workflow.ID, c.Param("chart_id")).Delete(&models.Dashboard{})
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
