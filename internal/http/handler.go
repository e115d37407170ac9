package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"policy-service/internal/http/middleware"
	"policy-service/internal/plate"
	"policy-service/internal/render"
	"policy-service/internal/service"
	"policy-service/internal/vehicles"
)

type Handler struct {
	textService   *service.TextService
	policyService *service.PolicyService
	catalog       *vehicles.Catalog
	log           zerolog.Logger
}

func NewHandler(
	textService *service.TextService,
	policyService *service.PolicyService,
	catalog *vehicles.Catalog,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		textService:   textService,
		policyService: policyService,
		catalog:       catalog,
		log:           log,
	}
}

// Register mounts the /api routes. The journal routes are only mounted when
// authMiddleware is not nil.
func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/validate-date", h.validateDate)
		api.POST("/transliterate", h.transliterate)
		api.POST("/convert-uppercase", h.convertUppercase)
		api.POST("/validate-license-plate", h.validateLicensePlate)
		api.POST("/generate-pdf", h.generatePDF)

		api.GET("/vehicle-brands", h.listBrands)
		api.GET("/vehicle-models/:brand_id", h.listModels)
		api.GET("/search-vehicles", h.searchVehicles)
	}

	if authMiddleware == nil {
		return
	}

	// журнал выданных полисов только для авторизованных
	journal := api.Group("/policies")
	journal.Use(authMiddleware)
	{
		journal.GET("", h.listPolicies)
		journal.GET("/:id", h.getPolicy)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "PDF Generator API is running",
	})
}

type validateDateRequest struct {
	Date string `json:"date"`
}

func (h *Handler) validateDate(c *gin.Context) {
	var req validateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "date is required"})
		return
	}

	if !h.textService.ValidateDate(req.Date) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "invalid date format, expected DD.MM.YYYY"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) transliterate(c *gin.Context) {
	var payload service.TextPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("no data"))
		return
	}

	result, err := h.textService.TransliteratePayload(&payload)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) convertUppercase(c *gin.Context) {
	var payload service.TextPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("no data"))
		return
	}

	result, err := h.textService.ConvertUppercase(&payload)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type validatePlateRequest struct {
	LicensePlate *plate.Plate `json:"license_plate"`
}

func (h *Handler) validateLicensePlate(c *gin.Context) {
	var req validatePlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	valid, message := h.textService.ValidatePlate(req.LicensePlate)
	if !valid {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

type generatePDFRequest struct {
	FIO         string   `json:"fio" binding:"required,max=200,cyrillic_text"`
	Address     string   `json:"address" binding:"required,max=300,cyrillic_text"`
	DateStart   string   `json:"date_start" binding:"required,policy_date"`
	DateEnd     string   `json:"date_end" binding:"required,policy_date"`
	RegNumber   string   `json:"reg_number" binding:"required,max=20"`
	VehicleType string   `json:"vehicle_type" binding:"required,oneof=A B C D E F1 F2 G"`
	BrandModel  string   `json:"brand_model" binding:"required,max=120"`
	FontSize    *float64 `json:"font_size" binding:"omitempty,min=6,max=16"`
	// принимается от фронта, в PDF печатается reg_number
	LicensePlate *plate.Plate `json:"license_plate"`
}

func (h *Handler) generatePDF(c *gin.Context) {
	var req generatePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(validationMessage(err)))
		return
	}

	input := service.GenerateInput{
		FIO:         req.FIO,
		Address:     req.Address,
		DateStart:   req.DateStart,
		DateEnd:     req.DateEnd,
		RegNumber:   req.RegNumber,
		VehicleType: req.VehicleType,
		BrandModel:  req.BrandModel,
	}
	if req.FontSize != nil {
		input.FontSize = *req.FontSize
	}

	policy, err := h.policyService.Generate(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", policy.Filename))
	if policy.Record != nil {
		c.Header("X-Policy-ID", policy.Record.ID.String())
	}
	c.Data(http.StatusOK, "application/pdf", policy.Content)
}

func (h *Handler) listBrands(c *gin.Context) {
	brands, err := h.catalog.Brands()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load vehicle brands")
		c.JSON(http.StatusInternalServerError, errorResponse("failed to load vehicle brands"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *Handler) listModels(c *gin.Context) {
	models, err := h.catalog.Models(c.Param("brand_id"))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load vehicle models")
		c.JSON(http.StatusInternalServerError, errorResponse("failed to load vehicle models"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

func (h *Handler) searchVehicles(c *gin.Context) {
	results, err := h.catalog.Search(c.Query("q"))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to search vehicles")
		c.JSON(http.StatusInternalServerError, errorResponse("failed to search vehicles"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) listPolicies(c *gin.Context) {
	input := service.ListRecordsInput{
		PlateNumber: c.Query("plate"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("limit must be a number"))
			return
		}
		input.Limit = limit
	}

	records, err := h.policyService.ListRecords(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(records))
}

func (h *Handler) getPolicy(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	record, err := h.policyService.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Debug().Str("request_id", principal.RequestID).Str("user_id", principal.UserID).Str("policy_id", record.ID.String()).Msg("policy record viewed")
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, render.ErrTemplateMissing):
		h.log.Error().Err(err).Msg("pdf template missing")
		c.JSON(http.StatusInternalServerError, errorResponse("pdf template not found"))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
