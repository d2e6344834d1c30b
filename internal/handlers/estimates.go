package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"flex_report/internal/engine"
	"flex_report/internal/models"
	"flex_report/internal/service"

	"github.com/gin-gonic/gin"
)

// EstimateRequest is the JSON body of a remaining-life query.
type EstimateRequest struct {
	Fluid        string               `json:"fluid" binding:"required" example:"Mobil DTE 832"`
	ElapsedHours float64              `json:"elapsed_hours" example:"12000"`
	Equipment    *models.EquipmentRef `json:"equipment,omitempty"`
	Application  string               `json:"application,omitempty" example:"Large Gas Turbine"`
	// Takes precedence over equipment and application.
	SeverityOverride *float64 `json:"severity_override,omitempty" example:"1.2"`
	ThresholdPct     *float64 `json:"threshold_pct,omitempty" example:"25"`
	RPVOTPct         *float64 `json:"rpvot_pct,omitempty" example:"55"`
	AminicPct        *float64 `json:"aminic_pct,omitempty" example:"60"`
	DeltaE           *float64 `json:"delta_e,omitempty" example:"22"`
}

func (r EstimateRequest) toEngine() engine.Request {
	return engine.Request{
		Fluid:        r.Fluid,
		ElapsedHours: r.ElapsedHours,
		SeverityInput: engine.SeverityInput{
			Equipment:   r.Equipment,
			Application: r.Application,
			Override:    r.SeverityOverride,
		},
		ThresholdPct: r.ThresholdPct,
		Measured: engine.Measurements{
			RPVOTPct:  r.RPVOTPct,
			AminicPct: r.AminicPct,
			DeltaE:    r.DeltaE,
		},
	}
}

// BatchRequest is the JSON body of a batch query.
type BatchRequest struct {
	Items []EstimateRequest `json:"items"`
}

// BatchItemResponse is one entry of a batch or import response.
type BatchItemResponse struct {
	Index    int                 `json:"index"`
	Row      int                 `json:"row,omitempty"`
	Estimate *models.RULEstimate `json:"estimate,omitempty"`
	Error    string              `json:"error,omitempty"`
	Code     string              `json:"code,omitempty"`
}

type batchResponse struct {
	Count     int                 `json:"count"`
	Failed    int                 `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
	RowErrors []service.RowError  `json:"row_errors,omitempty"`
}

// @Summary      Estimate remaining useful life
// @Description  An estimate whose curve never reaches the threshold is returned with undetermined=true.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        body  body      EstimateRequest  true  "Query"
// @Success      200   {object}  models.RULEstimate
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/estimates [post]
// @Security     BearerAuth
func (h *Handler) createEstimate(c *gin.Context) {
	var input EstimateRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	est, err := h.services.Estimate(c.Request.Context(), input.toEngine())
	if err != nil {
		h.respondError(c, "estimate_failed", err, "fluid", input.Fluid)
		return
	}
	c.JSON(http.StatusOK, est)
}

// @Summary      Estimate a batch
// @Description  Items are answered in request order; a failing item does not fail the batch.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        body  body      BatchRequest  true  "Queries"
// @Success      200   {object}  batchResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /api/v1/estimates/batch [post]
// @Security     BearerAuth
func (h *Handler) createBatch(c *gin.Context) {
	var input BatchRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	reqs := make([]engine.Request, len(input.Items))
	for i, it := range input.Items {
		reqs[i] = it.toEngine()
	}
	items, err := h.services.EstimateBatch(c.Request.Context(), reqs)
	if err != nil {
		h.respondError(c, "batch_failed", err, "items", len(reqs))
		return
	}
	c.JSON(http.StatusOK, toBatchResponse(items, nil, nil))
}

// @Summary      Estimate every row of an XLSX workbook
// @Description  Header row then columns fluid, hours, application, manufacturer, category, model, severity, rpvot, aminic, delta_e.
// @Tags         estimates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Workbook (.xlsx)"
// @Success      200   {object}  batchResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /api/v1/estimates/import [post]
// @Security     BearerAuth
func (h *Handler) importWorkbook(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required", "code": "invalid_body"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "import_open_failed", err, "file", fh.Filename)
		return
	}
	defer f.Close()

	rows, rowErrs, err := h.services.ImportWorkbook(f)
	if err != nil {
		h.respondError(c, "import_failed", err, "file", fh.Filename)
		return
	}

	reqs := make([]engine.Request, len(rows))
	rowNums := make([]int, len(rows))
	for i, r := range rows {
		reqs[i] = r.Request
		rowNums[i] = r.Row
	}
	items, err := h.services.EstimateBatch(c.Request.Context(), reqs)
	if err != nil {
		h.respondError(c, "import_failed", err, "file", fh.Filename, "rows", len(rows))
		return
	}
	if h.log != nil {
		h.log.Infow("workbook_imported", "file", fh.Filename, "rows", len(rows), "row_errors", len(rowErrs))
	}
	c.JSON(http.StatusOK, toBatchResponse(items, rowNums, rowErrs))
}

func toBatchResponse(items []service.BatchItem, rows []int, rowErrs []service.RowError) batchResponse {
	out := batchResponse{Count: len(items), Items: make([]BatchItemResponse, len(items)), RowErrors: rowErrs}
	for i, it := range items {
		r := BatchItemResponse{Index: it.Index, Estimate: it.Estimate}
		if rows != nil {
			r.Row = rows[i]
		}
		if it.Err != nil {
			_, code := classify(it.Err)
			r.Error = it.Err.Error()
			r.Code = code
			out.Failed++
		}
		out.Items[i] = r
	}
	return out
}

// @Summary      Render the FLEX REPORT as PDF
// @Tags         estimates
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  EstimateRequest  true  "Query"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/estimates/report [post]
// @Security     BearerAuth
func (h *Handler) createReport(c *gin.Context) {
	var input EstimateRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	est, err := h.services.Estimate(c.Request.Context(), input.toEngine())
	if err != nil {
		h.respondError(c, "report_estimate_failed", err, "fluid", input.Fluid)
		return
	}

	var buf bytes.Buffer
	err = h.services.RenderReport(&buf, service.ReportInput{
		Estimate:    &est,
		Equipment:   input.Equipment,
		Application: input.Application,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "report_render_failed", err, "analysis_id", est.AnalysisID)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="flex-report-%s.pdf"`, est.AnalysisID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
