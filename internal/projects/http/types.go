package http

import (
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/internal/fixtures"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/selection"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc      *service.ProjectService
	sessions *selection.Registry
	data     fixtures.Provider
	log      *zap.Logger
}

func New(svc *service.ProjectService, sessions *selection.Registry, data fixtures.Provider, log *zap.Logger) *Handler {
	if data == nil {
		data = fixtures.Empty{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, sessions: sessions, data: data, log: log}
}

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Progress    *int    `json:"progress"`
	Status      *string `json:"status"`
}
