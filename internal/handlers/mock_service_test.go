package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"flex_report/internal/config"
	"flex_report/internal/engine"
	"flex_report/internal/models"
	"flex_report/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockEstimation struct {
	estimate models.RULEstimate
	err      error
	items    []service.BatchItem
	batchErr error

	lastReq   engine.Request
	lastBatch []engine.Request
}

func (m *mockEstimation) Estimate(_ context.Context, req engine.Request) (models.RULEstimate, error) {
	m.lastReq = req
	return m.estimate, m.err
}
func (m *mockEstimation) EstimateBatch(_ context.Context, reqs []engine.Request) ([]service.BatchItem, error) {
	m.lastBatch = reqs
	return m.items, m.batchErr
}

type mockCatalog struct {
	fluids       []string
	profile      models.OilProfile
	profileErr   error
	curve        service.Curve
	curveErr     error
	equipment    map[string]map[string][]string
	applications []string

	lastCurve service.CurveQuery
}

func (m *mockCatalog) Fluids() []string { return m.fluids }
func (m *mockCatalog) Fluid(name string) (models.OilProfile, error) {
	return m.profile, m.profileErr
}
func (m *mockCatalog) Curve(q service.CurveQuery) (service.Curve, error) {
	m.lastCurve = q
	return m.curve, m.curveErr
}
func (m *mockCatalog) Equipment() map[string]map[string][]string { return m.equipment }
func (m *mockCatalog) Applications() []string                    { return m.applications }

type mockImporter struct {
	rows    []service.ImportedRow
	rowErrs []service.RowError
	err     error
	read    []byte
}

func (m *mockImporter) ImportWorkbook(r io.Reader) ([]service.ImportedRow, []service.RowError, error) {
	m.read, _ = io.ReadAll(r)
	return m.rows, m.rowErrs, m.err
}

type mockReporting struct {
	err  error
	last service.ReportInput
}

func (m *mockReporting) RenderReport(w io.Writer, in service.ReportInput) error {
	m.last = in
	if m.err != nil {
		return m.err
	}
	_, err := w.Write([]byte("%PDF-1.3 test"))
	return err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, config.RateLimitConfig{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// do sends an authenticated request with an optional JSON body.
func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
