package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pastillero-service/database"
	"pastillero-service/errs"
	"pastillero-service/services"
	"pastillero-service/utils"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	diagnostics *services.DiagnosticsService
	baseURL     string
}

// NewSystemHandler builds the root and diagnostics endpoints. baseURL is
// used in the example invocations of the root document.
func NewSystemHandler(diagnostics *services.DiagnosticsService, baseURL string) *SystemHandler {
	return &SystemHandler{diagnostics: diagnostics, baseURL: strings.TrimRight(baseURL, "/")}
}

// Root describes the API.
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": ` API Pastillero Avanzado - CONEXIÓN A "modulo 1"`,
		"endpoints": gin.H{
			"agregarTodas":         "POST /api/agregar-todas",
			"buscarPastilla":       "GET /api/pastilla/:nombre",
			"verTodas":             "GET /api/pastillas",
			"diagnostico":          "GET /api/diagnostico",
			"limpiar":              "DELETE /api/limpiar",
			"limpiarEstadisticas":  "DELETE /api/limpiar-estadisticas",
			"publicarDatos":        "POST /api/publicarDatos",
			"verEstadisticas":      "GET /api/estadisticas",
			"exportarEstadisticas": "GET /api/estadisticas/export",
		},
		"ejemplos": gin.H{
			"agregar":             "POST " + h.baseURL + "/api/agregar-todas",
			"buscar":              "GET " + h.baseURL + "/api/pastilla/Paracetamol",
			"diagnosticar":        "GET " + h.baseURL + "/api/diagnostico",
			"verTodas":            "GET " + h.baseURL + "/api/pastillas",
			"limpiarEstadisticas": "DELETE " + h.baseURL + "/api/limpiar-estadisticas",
		},
		"coleccion": database.PillCollection,
	})
}

// Health is the liveness probe.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Diagnostics reports store connectivity and collection sizes.
func (h *SystemHandler) Diagnostics(c *gin.Context) {
	d, err := h.diagnostics.Check(c.Request.Context())
	if err != nil {
		message := err.Error()
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			message = appErr.Public()
		}
		c.JSON(http.StatusInternalServerError, utils.Response{
			Success: false,
			Error:   message,
			Data:    d,
		})
		return
	}
	utils.SuccessResponse(c, d)
}
