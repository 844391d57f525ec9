package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/halvden/oblevel/internal/bootstrap"
	"github.com/halvden/oblevel/internal/dto"
	"github.com/halvden/oblevel/internal/eventbus"
	"github.com/halvden/oblevel/internal/pkg/buildinfo"
	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/schema"
	"github.com/halvden/oblevel/internal/service"
)

type apiServer struct {
	core      *bootstrap.Core
	hub       *eventbus.Hub
	startTime time.Time
}

func newAPI(core *bootstrap.Core, hub *eventbus.Hub) *apiServer {
	return &apiServer{
		core:      core,
		hub:       hub,
		startTime: time.Now(),
	}
}

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", a.wrapGET(a.getStatus))
	mux.HandleFunc("/api/sheet", a.wrapGET(a.getSheet))
	mux.HandleFunc("/api/levels", a.wrapGET(a.getLevels))

	mux.HandleFunc("/api/increment", a.wrapPOST(a.postIncrement))
	mux.HandleFunc("/api/save", a.wrapPOST(a.postSave))
	mux.HandleFunc("/api/discard", a.wrapPOST(a.postDiscard))
	mux.HandleFunc("/api/level/select", a.wrapPOST(a.postSelectLevel))
	mux.HandleFunc("/api/levelup", a.wrapPOST(a.postLevelUp))
	mux.HandleFunc("/api/majors", a.wrapPOST(a.postMajors))
}

func (a *apiServer) wrapGET(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapPOST(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

// writeServiceError maps the engine's error taxonomy onto HTTP statuses:
// missing levels are 404, state conflicts 409, storage trouble 500, and
// everything else is treated as a bad request.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *service.LevelNotFoundError
	var capacity *service.CapacityError
	var storageErr *repository.StorageError
	var schemaErr *repository.SchemaError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &capacity),
		errors.Is(err, service.ErrUnsavedChanges),
		errors.Is(err, service.ErrLevelExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &storageErr), errors.As(err, &schemaErr):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (a *apiServer) publishSheet() {
	level, _ := a.core.Engine.CurrentLevel()
	a.hub.Publish(eventbus.Event{Type: "sheet", Data: map[string]any{
		"level":     level,
		"dirty":     a.core.Engine.Dirty(),
		"readiness": a.core.Engine.Readiness(),
	}})
}

// writeSheet answers mutations and reads alike with the full current sheet;
// the UI rerenders from one payload shape.
func (a *apiServer) writeSheet(w http.ResponseWriter) {
	sheet, err := a.core.Engine.Sheet()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       a.core.Cfg.App.Name,
		"version":    buildinfo.Version,
		"started_at": a.startTime.Format(time.RFC3339),
	})
}

func (a *apiServer) getStatus(w http.ResponseWriter, r *http.Request) {
	e := a.core.Engine
	level, _ := e.CurrentLevel()
	writeJSON(w, http.StatusOK, dto.StatusDTO{
		App: dto.AppStatusDTO{
			Name:      a.core.Cfg.App.Name,
			Version:   buildinfo.Version,
			StartedAt: a.startTime.Format(time.RFC3339),
		},
		Storage: dto.StorageStatusDTO{
			Path:          e.Path(),
			SchemaVersion: schema.SchemaVersion,
		},
		Sheet: dto.SheetStatusDTO{
			Level:           level,
			Dirty:           e.Dirty(),
			Readiness:       e.Readiness(),
			ReadinessTarget: e.ReadinessTarget(),
			CanLevelUp:      e.CanLevelUp(),
		},
	})
}

func (a *apiServer) getSheet(w http.ResponseWriter, r *http.Request) {
	a.writeSheet(w)
}

func (a *apiServer) getLevels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	levels, err := a.core.Engine.Levels(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (a *apiServer) postIncrement(w http.ResponseWriter, r *http.Request) {
	var req dto.IncrementRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pos, err := a.core.Engine.ResolveSkill(req.Skill)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, _, err := a.core.Engine.IncrementSkill(pos); err != nil {
		writeServiceError(w, err)
		return
	}
	a.publishSheet()
	a.writeSheet(w)
}

func (a *apiServer) postSave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := a.core.Engine.Save(ctx); err != nil {
		writeServiceError(w, err)
		return
	}
	a.publishSheet()
	a.writeSheet(w)
}

func (a *apiServer) postDiscard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := a.core.Engine.Discard(ctx); err != nil {
		writeServiceError(w, err)
		return
	}
	a.publishSheet()
	a.writeSheet(w)
}

func (a *apiServer) postSelectLevel(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectLevelRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := a.core.Engine.SelectLevel(ctx, req.Level, req.Create); err != nil {
		writeServiceError(w, err)
		return
	}
	a.hub.Publish(eventbus.Event{Type: "levels"})
	a.publishSheet()
	a.writeSheet(w)
}

func (a *apiServer) postLevelUp(w http.ResponseWriter, r *http.Request) {
	var req dto.LevelUpRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := a.core.Engine
	if !req.Force && !e.CanLevelUp() {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("readiness %d of %d; set force to level up anyway", e.Readiness(), e.ReadinessTarget()))
		return
	}

	overrides := make(map[uint]int, len(req.Attributes))
	for name, value := range req.Attributes {
		id, err := e.ResolveAttribute(name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		overrides[id] = value
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := e.LevelUp(ctx, overrides); err != nil {
		writeServiceError(w, err)
		return
	}
	a.hub.Publish(eventbus.Event{Type: "levels"})
	a.publishSheet()
	a.writeSheet(w)
}

func (a *apiServer) postMajors(w http.ResponseWriter, r *http.Request) {
	var req dto.MajorsRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := a.core.Engine.ReassignMajors(ctx, req.Skills); err != nil {
		writeServiceError(w, err)
		return
	}
	a.hub.Publish(eventbus.Event{Type: "majors"})
	a.publishSheet()
	a.writeSheet(w)
}
