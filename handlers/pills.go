package handlers

import (
	"fmt"

	"pastillero-service/services"
	"pastillero-service/utils"

	"github.com/gin-gonic/gin"
)

const seedFailureDetails = "Revisa la conexión a la base de datos"

type PillHandler struct {
	service *services.PillService
}

func NewPillHandler(service *services.PillService) *PillHandler {
	return &PillHandler{service: service}
}

// SeedPills inserts the two default pill definitions in one bulk write.
func (h *PillHandler) SeedPills(c *gin.Context) {
	pills, err := h.service.Seed(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, err, seedFailureDetails)
		return
	}

	utils.SuccessMessageResponse(c,
		fmt.Sprintf("%d pastillas agregadas a la base de datos en colección pastillero", len(pills)),
		pills)
}

// ListPills returns every pill definition split into module 1 and module 2.
func (h *PillHandler) ListPills(c *gin.Context) {
	buckets, err := h.service.ListByModule(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, err, "")
		return
	}
	utils.SuccessResponse(c, buckets)
}

// GetPill returns the definitions registered under :nombre.
func (h *PillHandler) GetPill(c *gin.Context) {
	pills, err := h.service.FindByName(c.Request.Context(), c.Param("nombre"))
	if err != nil {
		utils.FailureResponse(c, err, "")
		return
	}
	utils.SuccessResponse(c, pills)
}
