package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"
	"github.com/A3ON-Tecnologia/dashboard-bi/pkg/projection"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// workflowFromParam loads the workflow addressed by the route or replies 404.
func workflowFromParam(c *gin.Context) (*models.Workflow, bool) {
	var workflow models.Workflow
	if err := db.First(&workflow, "id = ?", c.Param("workflow_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workflow não encontrado."})
		return nil, false
	}
	return &workflow, true
}

// ensureWorkflowTipo rejects operations issued against the wrong workflow kind.
func ensureWorkflowTipo(c *gin.Context, workflow *models.Workflow, expected string) bool {
	if workflow.Tipo != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Workflow não suporta operação para o tipo '%s'.", expected)})
		return false
	}
	return true
}

// deleteFileIfExists removes a stored upload file. Failures are logged and
// swallowed so filesystem state never blocks a logical delete.
func deleteFileIfExists(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Falha ao remover arquivo %s: %v", path, err)
	}
}

// sanitizeFilename keeps only the base name and neutralizes path tricks.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	return strings.ReplaceAll(name, " ", "_")
}

func mustJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("json marshal failed: %v", err)
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

// chartOptionsJSON normalizes incoming chart options before storage. Known
// fields get their canonical shape; anything else round-trips untouched.
func chartOptionsJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON("{}")
	}
	options := projection.ParseOptions(raw)
	return mustJSON(options)
}

func jsonStrings(data datatypes.JSON) []string {
	var values []string
	if len(data) > 0 {
		_ = json.Unmarshal(data, &values)
	}
	return values
}

func jsonMetrics(data datatypes.JSON) []projection.Metric {
	var metrics []projection.Metric
	if len(data) > 0 {
		_ = json.Unmarshal(data, &metrics)
	}
	return metrics
}

// jsonInts reads a stored index list, tolerating numbers or numeric strings.
func jsonInts(data datatypes.JSON) []int {
	var raw []any
	if len(data) == 0 || json.Unmarshal(data, &raw) != nil {
		return nil
	}
	return intsFromAny(raw)
}

func intsFromAny(raw []any) []int {
	values := make([]int, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case float64:
			values = append(values, int(v))
		case json.Number:
			if i, err := v.Int64(); err == nil {
				values = append(values, int(i))
			}
		case string:
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &f); err == nil {
				values = append(values, int(f))
			}
		}
	}
	return values
}
