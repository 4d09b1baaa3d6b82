package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/user"
)

// guruApi serves the guru portal. Every handler acts on behalf of the context user.
type guruApi struct {
	userSvc    user.Service
	santriSvc  *santri.Service
	setoranSvc *setoran.Service
	reportSvc  *report.Service
	validate   *validator.Validate
}

func registerGuruAPI(g *echo.Group, mw []echo.MiddlewareFunc, deps Deps) {
	api := guruApi{
		userSvc:    deps.UserSvc,
		santriSvc:  deps.SantriSvc,
		setoranSvc: deps.SetoranSvc,
		reportSvc:  deps.ReportSvc,
		validate:   deps.Validate,
	}

	gg := g.Group("/guru", mw...)
	gg.POST("/input-setoran", api.createRecord)
	gg.PUT("/setoran/:id", api.updateRecord)
	gg.DELETE("/delete-setoran/:id", api.deleteRecord)
	gg.GET("/riwayat", api.history)
	gg.GET("/santri-binaan", api.students)
	gg.GET("/last-setoran", api.lastSetoran)
	gg.GET("/stats", api.stats)
}

// Handlers

func (api *guruApi) createRecord(ctx echo.Context) error {
	var data setoran.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	rec, err := api.setoranSvc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating record")
	}
	return ctx.JSON(http.StatusOK, RecordResponse{Success: true, ID: rec.ID})
}

func (api *guruApi) updateRecord(ctx echo.Context) error {
	var data setoran.UpdateRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	rec, err := api.setoranSvc.Update(ctx.Request().Context(), ctxUsr.ID, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *guruApi) deleteRecord(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.setoranSvc.Delete(ctx.Request().Context(), ctxUsr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *guruApi) history(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	entries, err := api.setoranSvc.History(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "listing history")
	}
	if entries == nil {
		entries = []setoran.HistoryEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *guruApi) students(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	students, err := api.santriSvc.ListByGuru(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "listing assigned santri")
	}
	if students == nil {
		students = []santri.Santri{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *guruApi) lastSetoran(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	last, err := api.reportSvc.LastSetoran(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "listing last setoran")
	}
	return ctx.JSON(http.StatusOK, last)
}

func (api *guruApi) stats(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	stats, err := api.reportSvc.GuruStats(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "computing guru stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

type RecordResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
