package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core/order"
	"github.com/pedidosgs/backend/core/user"
)

type orderApi struct {
	orders order.ServiceInterface
}

func registerOrderAPI(app *echo.Echo, jwt echo.MiddlewareFunc, orders order.ServiceInterface) {
	api := orderApi{orders: orders}

	// detail is shared: owners and assigned salespeople can see their own orders
	app.GET("/admin/order/:id", api.retrieve, jwt)
	app.GET("/admin/order/:id/export", api.export, jwt, roleMiddleware(user.RoleAdmin))
}

// Handlers

func (api *orderApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	detail, err := api.orders.GetDetail(id)
	if err != nil {
		if errors.Cause(err) == order.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding order by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !detail.ViewableBy(claims.asUser()) {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, detail)
}

// export streams the order sheet as a PDF. When no renderer is available the
// order data is returned instead with a notice, so the operator can fall back
// to the browser's print view.
func (api *orderApi) export(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	doc, err := api.orders.Export(id)
	if err != nil {
		switch errors.Cause(err) {
		case order.ErrNotFound:
			return errHttpNotFound
		case order.ErrExportDegraded:
			detail, dErr := api.orders.GetDetail(id)
			if dErr != nil {
				return errors.Wrap(dErr, "finding order by ID")
			}
			return ctx.JSON(http.StatusOK, echo.Map{
				"order":  detail,
				"notice": "PDF export is unavailable; use the print view instead.",
			})
		}
		return errors.Wrap(err, "exporting order")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=order_%d.pdf", id))
	return ctx.Blob(http.StatusOK, "application/pdf", doc)
}
