package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/guru"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
)

type adminApi struct {
	userSvc   user.Service
	guruSvc   *guru.Service
	classSvc  *kelas.Service
	santriSvc *santri.Service
	tagSvc    *tag.Service
	reportSvc *report.Service
	validate  *validator.Validate
}

func registerAdminAPI(g *echo.Group, mw []echo.MiddlewareFunc, deps Deps) {
	api := adminApi{
		userSvc:   deps.UserSvc,
		guruSvc:   deps.GuruSvc,
		classSvc:  deps.ClassSvc,
		santriSvc: deps.SantriSvc,
		tagSvc:    deps.TagSvc,
		reportSvc: deps.ReportSvc,
		validate:  deps.Validate,
	}

	ag := g.Group("/admin", mw...)

	ag.GET("/guru", api.queryGuru)
	ag.POST("/guru", api.createGuru)
	ag.DELETE("/guru/:id", api.destroyGuru)

	ag.GET("/kelas", api.queryClasses)
	ag.POST("/kelas", api.createClass)
	ag.PUT("/kelas/:id", api.updateClass)
	ag.DELETE("/kelas/:id", api.destroyClass)

	ag.GET("/santri", api.querySantri)
	ag.POST("/santri", api.createSantri)
	ag.GET("/santri/:id", api.retrieveSantri)
	ag.PUT("/santri/:id", api.updateSantri)
	ag.DELETE("/santri/:id", api.destroySantri)
	ag.POST("/santri/:id/reset-password", api.resetSantriPassword)

	ag.POST("/mapping", api.mapping)

	ag.GET("/reports", api.reports)
	ag.GET("/stats", api.stats)

	ag.GET("/tags", api.queryTags)
	ag.POST("/tags", api.createTag)
	ag.DELETE("/tags/:id", api.destroyTag)

	ag.GET("/users", api.queryUsers)
	ag.GET("/roles", api.queryRoles)
	ag.POST("/users/:id/role", api.assignRole)
	ag.DELETE("/users/:id/role", api.removeRole)
}

// Guru

func (api *adminApi) queryGuru(ctx echo.Context) error {
	gurus, err := api.guruSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing guru")
	}
	if gurus == nil {
		gurus = []guru.Guru{}
	}
	return ctx.JSON(http.StatusOK, gurus)
}

func (api *adminApi) createGuru(ctx echo.Context) error {
	var data guru.NewGuru
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGuru")
	}
	nu, err := data.Validate(ctx.Request().Context(), api.validate, api.userSvc)
	if err != nil {
		return err
	}

	g, err := api.guruSvc.Create(ctx.Request().Context(), nu)
	if err != nil {
		return errors.Wrap(err, "creating guru")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *adminApi) destroyGuru(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.guruSvc.Delete(ctx.Request().Context(), ctxUsr, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting guru")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Kelas

func (api *adminApi) queryClasses(ctx echo.Context) error {
	classes, err := api.classSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	if classes == nil {
		classes = []kelas.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *adminApi) createClass(ctx echo.Context) error {
	var data kelas.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.classSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *adminApi) updateClass(ctx echo.Context) error {
	var data kelas.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.classSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *adminApi) destroyClass(ctx echo.Context) error {
	if err := api.classSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Santri

func (api *adminApi) querySantri(ctx echo.Context) error {
	filter := new(santri.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []santri.Santri{})
	}

	students, err := api.santriSvc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying santri")
	}
	if students == nil {
		students = []santri.Santri{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *adminApi) createSantri(ctx echo.Context) error {
	var data santri.NewSantri
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSantri")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	created, err := api.santriSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating santri")
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *adminApi) retrieveSantri(ctx echo.Context) error {
	s, err := api.santriSvc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding santri")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *adminApi) updateSantri(ctx echo.Context) error {
	var data santri.UpdateSantri
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSantri")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.santriSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating santri")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *adminApi) destroySantri(ctx echo.Context) error {
	if err := api.santriSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting santri")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) resetSantriPassword(ctx echo.Context) error {
	creds, err := api.santriSvc.ResetPassword(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "resetting santri password")
	}
	return ctx.JSON(http.StatusOK, creds)
}

func (api *adminApi) mapping(ctx echo.Context) error {
	var data santri.Mapping
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Mapping")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	n, err := api.santriSvc.AssignGuru(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "assigning guru")
	}
	return ctx.JSON(http.StatusOK, MappingResponse{Success: true, Updated: n})
}

// Reports

func (api *adminApi) reports(ctx echo.Context) error {
	filter := report.ReportFilter{ClassID: ctx.QueryParam("classId")}
	rep, err := api.reportSvc.AdminReport(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "building admin report")
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.reportSvc.AdminStats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing admin stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

// Tags

func (api *adminApi) queryTags(ctx echo.Context) error {
	return listTags(ctx, api.tagSvc)
}

func (api *adminApi) createTag(ctx echo.Context) error {
	var data tag.NewTag
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTag")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.tagSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating tag")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *adminApi) destroyTag(ctx echo.Context) error {
	if err := api.tagSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting tag")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Users & roles

func (api *adminApi) queryUsers(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	users, err := api.userSvc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) queryRoles(ctx echo.Context) error {
	roles, err := api.userSvc.QueryRoles(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying roles")
	}
	return ctx.JSON(http.StatusOK, roles)
}

func (api *adminApi) assignRole(ctx echo.Context) error {
	var data RoleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.userSvc.AssignRole(ctx.Request().Context(), ctx.Param("id"), data.RoleID)
	if err != nil {
		return errors.Wrap(err, "assigning role")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminApi) removeRole(ctx echo.Context) error {
	data := RoleRequest{RoleID: ctx.QueryParam("roleId")}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	usr, err := api.userSvc.RemoveRole(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data.RoleID)
	if err != nil {
		return errors.Wrap(err, "removing role")
	}
	return ctx.JSON(http.StatusOK, usr)
}

type (
	MappingResponse struct {
		Success bool `json:"success"`
		Updated int  `json:"updated"`
	}

	RoleRequest struct {
		RoleID string `json:"roleId" validate:"required"`
	}
)

func (rr *RoleRequest) Validate(validate *validator.Validate) error {
	rr.RoleID = core.CleanString(rr.RoleID)
	return validate.Struct(rr)
}
