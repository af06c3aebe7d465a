package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pastillero-service/database"
	"pastillero-service/errs"
	"pastillero-service/middleware"
	"pastillero-service/services"
	"pastillero-service/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatisticsHandler struct {
	service *services.StatisticsService
	logger  *zap.Logger
}

func NewStatisticsHandler(service *services.StatisticsService, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{service: service, logger: logger}
}

// PublishData records one dispense/pickup report from the dispenser unit.
func (h *StatisticsHandler) PublishData(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		utils.BadRequestResponse(c, services.MsgNoJSON)
		return
	}
	h.logger.Debug("Dispense report received",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.ByteString("body", raw),
	)

	report, err := services.ParseDispenseReport(raw)
	if err != nil {
		h.logger.Warn("Rejected dispense report",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		message := err.Error()
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			message = appErr.Public()
		}
		received := raw
		if message == services.MsgNoJSON {
			received = nil
		}
		utils.ValidationErrorResponse(c, message, received)
		return
	}

	stat, err := h.service.Record(c.Request.Context(), report)
	if err != nil {
		utils.FailureResponse(c, err, "")
		return
	}

	utils.SuccessMessageResponse(c, "Datos guardados correctamente en estadisticas", stat)
}

// ListStatistics returns recorded statistics, optionally for one ?modulo.
func (h *StatisticsHandler) ListStatistics(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	stats, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		utils.FailureResponse(c, err, "")
		return
	}
	utils.SuccessResponse(c, stats)
}

// ExportStatistics answers with the statistics as an .xlsx attachment.
func (h *StatisticsHandler) ExportStatistics(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	data, err := h.service.Export(c.Request.Context(), filter)
	if err != nil {
		if errs.KindOf(err) == "" {
			h.logger.Error("Failed to build statistics workbook", zap.Error(err))
		}
		utils.FailureResponse(c, err, "")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="estadisticas.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ClearStatistics deletes every recorded statistic.
func (h *StatisticsHandler) ClearStatistics(c *gin.Context) {
	deleted, err := h.service.Clear(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, err, "")
		return
	}

	utils.DeletedResponse(c,
		fmt.Sprintf("Se eliminaron %d registros de estadísticas correctamente", deleted),
		deleted)
}

func (h *StatisticsHandler) filter(c *gin.Context) (database.StatisticFilter, bool) {
	var filter database.StatisticFilter
	if value := c.Query("modulo"); value != "" {
		module, err := strconv.Atoi(value)
		if err != nil {
			utils.BadRequestResponse(c, services.MsgBadModule)
			return filter, false
		}
		filter.Module = &module
	}
	return filter, true
}
