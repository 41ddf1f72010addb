package main

import (
	"net/http"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"

	"github.com/gin-gonic/gin"
)

func listWorkflowsHandler(c *gin.Context) {
	query := db.Order("data_criacao desc")
	if empresaID := strings.TrimSpace(c.Query("empresa_id")); empresaID != "" {
		query = query.Where("empresa_id = ?", empresaID)
	}
	var items []models.Workflow
	if err := query.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func createWorkflowHandler(c *gin.Context) {
	var req struct {
		Nome      string `json:"nome"`
		Descricao string `json:"descricao"`
		Tipo      string `json:"tipo"`
		EmpresaID *uint  `json:"empresa_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe o nome do workflow."})
		return
	}
	if !models.ValidTipo(req.Tipo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de workflow inválido."})
		return
	}
	if req.EmpresaID != nil {
		var count int64
		db.Model(&models.Empresa{}).Where("id = ?", *req.EmpresaID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empresa não encontrada."})
			return
		}
	}
	workflow := models.Workflow{
		Nome:      nome,
		Descricao: strings.TrimSpace(req.Descricao),
		Tipo:      req.Tipo,
		EmpresaID: req.EmpresaID,
	}
	if err := db.Create(&workflow).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Já existe um workflow com este nome."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Workflow criado com sucesso.", "workflow": workflow})
}

// getWorkflowHandler returns the workflow together with its kind-specific
// view: current balancete dataset and charts, or the analise-jp category
// summary and charts. Everything is recomputed from the latest uploads.
func getWorkflowHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	response := gin.H{"workflow": workflow}
	switch workflow.Tipo {
	case models.TipoBalancete:
		detail := gin.H{"has_upload": false}
		if upload := latestBalanceteUpload(workflow.ID); upload != nil {
			if dataset := balanceteDatasetFromUpload(upload); dataset != nil {
				detail["has_upload"] = true
				detail["dataset"] = dataset
			}
		}
		detail["charts"] = balanceteChartViews(workflow.ID)
		response["balancete"] = detail
	case models.TipoAnaliseJP:
		response["analise_jp"] = gin.H{
			"categories": analiseCategorySummaries(workflow.ID),
			"charts":     analiseChartViews(workflow.ID),
		}
	}
	c.JSON(http.StatusOK, response)
}

func updateWorkflowHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}
	var req struct {
		Nome      *string `json:"nome"`
		Descricao *string `json:"descricao"`
		Tipo      *string `json:"tipo"`
		EmpresaID *uint   `json:"empresa_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Nome != nil {
		if nome := strings.TrimSpace(*req.Nome); nome != "" {
			workflow.Nome = nome
		}
	}
	if req.Descricao != nil {
		workflow.Descricao = strings.TrimSpace(*req.Descricao)
	}
	if req.Tipo != nil {
		if !models.ValidTipo(*req.Tipo) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de workflow inválido."})
			return
		}
		workflow.Tipo = *req.Tipo
	}
	if req.EmpresaID != nil {
		var count int64
		db.Model(&models.Empresa{}).Where("id = ?", *req.EmpresaID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empresa não encontrada."})
			return
		}
		workflow.EmpresaID = req.EmpresaID
	}
	if err := db.Save(workflow).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Já existe um workflow com este nome."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workflow atualizado com sucesso.", "workflow": workflow})
}

// deleteWorkflowHandler removes the workflow and everything hanging off it.
// File paths are collected before the row delete cascades, then removed
// best-effort so a filesystem error never leaves the database half-deleted.
func deleteWorkflowHandler(c *gin.Context) {
	workflow, ok := workflowFromParam(c)
	if !ok {
		return
	}

	var paths []string
	db.Model(&models.ArquivoImportado{}).Where("workflow_id = ?", workflow.ID).Pluck("caminho_arquivo", &paths)
	var analisePaths []string
	db.Model(&models.AnaliseUpload{}).Where("workflow_id = ?", workflow.ID).Pluck("caminho_arquivo", &analisePaths)
	paths = append(paths, analisePaths...)

	if err := db.Delete(workflow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	for _, path := range paths {
		deleteFileIfExists(path)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workflow removido com sucesso."})
}
