package service

import (
	"context"
	"io"

	"flex_report/internal/config"
	"flex_report/internal/engine"
	"flex_report/internal/logger"
	"flex_report/internal/models"
	"flex_report/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Estimation answers remaining-life queries.
type Estimation interface {
	Estimate(ctx context.Context, req engine.Request) (models.RULEstimate, error)
	EstimateBatch(ctx context.Context, reqs []engine.Request) ([]BatchItem, error)
}

// Catalog exposes the reference tables and projected curves.
type Catalog interface {
	Fluids() []string
	Fluid(name string) (models.OilProfile, error)
	Curve(q CurveQuery) (Curve, error)
	Equipment() map[string]map[string][]string
	Applications() []string
}

// Importer turns an uploaded workbook into estimate requests.
type Importer interface {
	ImportWorkbook(r io.Reader) ([]ImportedRow, []RowError, error)
}

// Reporting renders the FLEX REPORT document.
type Reporting interface {
	RenderReport(w io.Writer, in ReportInput) error
}

type Service struct {
	Estimation
	Catalog
	Importer
	Reporting
	Authorization
}

// Deps carries everything NewService wires into the sub-services.
type Deps struct {
	Repos     *repository.Repository
	Estimator *engine.Estimator
	Log       *logger.Logger
	Auth      config.AuthConfig
	Batch     config.BatchConfig
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Estimation:    NewEstimationService(d.Estimator, d.Batch, log),
		Catalog:       NewCatalogService(d.Estimator),
		Importer:      NewImportService(),
		Reporting:     NewReportService(),
		Authorization: NewAuthService(d.Repos.Users, d.Auth),
	}
}
