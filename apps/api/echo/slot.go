package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmukandila/ratiba/core/slot"
	"github.com/tmukandila/ratiba/core/user"
)

type slotApi struct {
	svc    *slot.Service
	usrSvc *user.Service
}

func registerSlotAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *slot.Service, usrSvc *user.Service) {
	api := slotApi{svc: svc, usrSvc: usrSvc}

	// all slot endpoints require auth; the store holds nothing public
	sg := g.Group("/slots", jwt)

	sg.GET("", api.query)
	sg.POST("", api.create, staffMiddleware())

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, staffMiddleware())

	// lifecycle endpoints; role checks live in the transition rules,
	// the handlers only resolve the acting user
	dg.POST("/request", api.request)
	dg.POST("/cancel", api.cancel)
	dg.POST("/approve", api.approve, staffMiddleware())
	dg.POST("/reject", api.reject, staffMiddleware())
}

// Handlers

func (api *slotApi) query(ctx echo.Context) error {
	slots, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying slots")
	}
	if slots == nil {
		slots = []slot.Slot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *slotApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting slot")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *slotApi) create(ctx echo.Context) error {
	var data slot.Values
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to slot.Values")
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	s, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *slotApi) update(ctx echo.Context) error {
	var data slot.Values
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to slot.Values")
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	s, err := api.svc.Edit(ctx.Request().Context(), ctx.Param("id"), data, ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *slotApi) request(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Request)
}

func (api *slotApi) cancel(ctx echo.Context) error {
	return api.transition(ctx, api.svc.CancelRequest)
}

func (api *slotApi) approve(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Approve)
}

func (api *slotApi) reject(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Reject)
}

func (api *slotApi) transition(ctx echo.Context, op func(c context.Context, id string, actor user.User) (slot.Slot, error)) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	s, err := op(ctx.Request().Context(), ctx.Param("id"), ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}
