package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/tag"
)

// lookupApi serves the reference data every signed-in user may read.
type lookupApi struct {
	classSvc *kelas.Service
	quranSvc *quran.Service
	tagSvc   *tag.Service
}

func registerLookupAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps Deps) {
	api := lookupApi{
		classSvc: deps.ClassSvc,
		quranSvc: deps.QuranSvc,
		tagSvc:   deps.TagSvc,
	}

	g.GET("/tags", api.tags, authed...)
	g.GET("/kelas", api.classes, authed...)
	g.GET("/quran", api.surahs, authed...)
}

func (api *lookupApi) tags(ctx echo.Context) error {
	return listTags(ctx, api.tagSvc)
}

func (api *lookupApi) classes(ctx echo.Context) error {
	classes, err := api.classSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	if classes == nil {
		classes = []kelas.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *lookupApi) surahs(ctx echo.Context) error {
	surahs, err := api.quranSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing surahs")
	}
	return ctx.JSON(http.StatusOK, surahs)
}

func listTags(ctx echo.Context, svc *tag.Service) error {
	filter := &tag.QueryFilter{Category: ctx.QueryParam("category")}
	tags, err := svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing tags")
	}
	if tags == nil {
		tags = []tag.MasterTag{}
	}
	return ctx.JSON(http.StatusOK, tags)
}
