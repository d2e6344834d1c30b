package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"flex_report/internal/engine"
	"flex_report/internal/models"
	"flex_report/internal/service"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List known fluids
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, fluids"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/fluids [get]
// @Security     BearerAuth
func (h *Handler) listFluids(c *gin.Context) {
	names := h.services.Fluids()
	c.JSON(http.StatusOK, gin.H{"count": len(names), "fluids": names})
}

// @Summary      Get fluid decay parameters
// @Tags         catalog
// @Produce      json
// @Param        name  path      string  true  "Fluid name"  example(Mobil DTE 832)
// @Success      200   {object}  models.OilProfile
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/fluids/{name} [get]
// @Security     BearerAuth
func (h *Handler) getFluid(c *gin.Context) {
	p, err := h.services.Fluid(c.Param("name"))
	if err != nil {
		h.respondError(c, "fluid_lookup_failed", err, "fluid", c.Param("name"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Project the adjusted degradation curve
// @Tags         catalog
// @Produce      json
// @Param        name           path   string  true   "Fluid name"
// @Param        application    query  string  false  "Application category"
// @Param        manufacturer   query  string  false  "Equipment manufacturer"
// @Param        category       query  string  false  "Equipment category"
// @Param        model          query  string  false  "Equipment model"
// @Param        severity       query  number  false  "Severity override"
// @Param        horizon_hours  query  number  false  "Last sampled hour"
// @Param        points         query  int     false  "Number of samples (2..500)"
// @Success      200  {object}  service.Curve
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/fluids/{name}/curve [get]
// @Security     BearerAuth
func (h *Handler) getCurve(c *gin.Context) {
	q, err := parseCurveQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_query"})
		return
	}
	curve, err := h.services.Curve(q)
	if err != nil {
		h.respondError(c, "curve_failed", err, "fluid", q.Fluid)
		return
	}
	c.JSON(http.StatusOK, curve)
}

func parseCurveQuery(c *gin.Context) (service.CurveQuery, error) {
	q := service.CurveQuery{
		Fluid:    c.Param("name"),
		Severity: engine.SeverityInput{Application: strings.TrimSpace(c.Query("application"))},
	}

	ref := models.EquipmentRef{
		Manufacturer: c.Query("manufacturer"),
		Category:     c.Query("category"),
		Model:        c.Query("model"),
	}
	if ref != (models.EquipmentRef{}) {
		if ref.Manufacturer == "" || ref.Category == "" || ref.Model == "" {
			return q, fmt.Errorf("manufacturer, category and model must be given together")
		}
		q.Severity.Equipment = &ref
	}

	if s := c.Query("severity"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, fmt.Errorf("invalid 'severity': %q", s)
		}
		q.Severity.Override = &v
	}
	if s := c.Query("horizon_hours"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, fmt.Errorf("invalid 'horizon_hours': %q", s)
		}
		q.HorizonHours = v
	}
	if s := c.Query("points"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("invalid 'points': %q", s)
		}
		q.Points = v
	}
	return q, nil
}

// @Summary      List equipment profiles
// @Description  manufacturer -> category -> models
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]map[string][]string
// @Router       /api/v1/equipment [get]
// @Security     BearerAuth
func (h *Handler) listEquipment(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Equipment())
}

// @Summary      List application categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/applications [get]
// @Security     BearerAuth
func (h *Handler) listApplications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"applications": h.services.Applications()})
}
