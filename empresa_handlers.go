package main

import (
	"net/http"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"

	"github.com/gin-gonic/gin"
)

func listEmpresasHandler(c *gin.Context) {
	var items []models.Empresa
	if err := db.Order("created_at desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func createEmpresaHandler(c *gin.Context) {
	var req struct {
		Nome      string `json:"nome"`
		Descricao string `json:"descricao"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe o nome da empresa."})
		return
	}
	empresa := models.Empresa{Nome: nome, Descricao: strings.TrimSpace(req.Descricao)}
	if err := db.Create(&empresa).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Já existe uma empresa com este nome."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Empresa criada com sucesso.", "empresa": empresa})
}

func empresaFromParam(c *gin.Context) (*models.Empresa, bool) {
	var empresa models.Empresa
	if err := db.First(&empresa, "id = ?", c.Param("empresa_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Empresa não encontrada."})
		return nil, false
	}
	return &empresa, true
}

func getEmpresaHandler(c *gin.Context) {
	empresa, ok := empresaFromParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, empresa)
}

func updateEmpresaHandler(c *gin.Context) {
	empresa, ok := empresaFromParam(c)
	if !ok {
		return
	}
	var req struct {
		Nome      *string `json:"nome"`
		Descricao *string `json:"descricao"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Nome != nil {
		if nome := strings.TrimSpace(*req.Nome); nome != "" {
			empresa.Nome = nome
		}
	}
	if req.Descricao != nil {
		empresa.Descricao = strings.TrimSpace(*req.Descricao)
	}
	if err := db.Save(empresa).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Já existe uma empresa com este nome."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Empresa atualizada com sucesso.", "empresa": empresa})
}

// deleteEmpresaHandler removes the empresa only; its workflows survive with
// the reference cleared (nullable FK, no cascade).
func deleteEmpresaHandler(c *gin.Context) {
	empresa, ok := empresaFromParam(c)
	if !ok {
		return
	}
	if err := db.Model(&models.Workflow{}).Where("empresa_id = ?", empresa.ID).Update("empresa_id", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if err := db.Delete(empresa).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Empresa removida com sucesso."})
}

func listEmpresaWorkflowsHandler(c *gin.Context) {
	empresa, ok := empresaFromParam(c)
	if !ok {
		return
	}
	var items []models.Workflow
	if err := db.Where("empresa_id = ?", empresa.ID).Order("data_criacao desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
