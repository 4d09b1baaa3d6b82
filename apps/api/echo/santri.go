package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/user"
)

// santriApi serves the santri portal: read-only views of the context user's own progress.
type santriApi struct {
	userSvc   user.Service
	reportSvc *report.Service
}

func registerSantriAPI(g *echo.Group, mw []echo.MiddlewareFunc, deps Deps) {
	api := santriApi{
		userSvc:   deps.UserSvc,
		reportSvc: deps.ReportSvc,
	}

	sg := g.Group("/santri", mw...)
	sg.GET("/dashboard", api.dashboard)
	sg.GET("/logbook", api.logbook)
	sg.GET("/profile", api.profile)
}

func (api *santriApi) dashboard(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	dash, err := api.reportSvc.SantriDashboard(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *santriApi) logbook(ctx echo.Context) error {
	filter, err := bindLogbookFilter(ctx)
	if err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	book, err := api.reportSvc.SantriLogbook(ctx.Request().Context(), ctxUsr.ID, filter)
	if err != nil {
		return errors.Wrap(err, "building logbook")
	}
	return ctx.JSON(http.StatusOK, book)
}

func (api *santriApi) profile(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	prof, err := api.reportSvc.SantriProfile(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "building profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

// bindLogbookFilter reads `?juz=&surah=`; empty values mean no filter.
func bindLogbookFilter(ctx echo.Context) (report.LogbookFilter, error) {
	var filter report.LogbookFilter
	for param, dest := range map[string]*int{"juz": &filter.Juz, "surah": &filter.Surah} {
		val := ctx.QueryParam(param)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return report.LogbookFilter{}, core.NewFieldError(param, param+" must be a number")
		}
		*dest = n
	}
	return filter, nil
}
