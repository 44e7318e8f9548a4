package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/order"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type schoolApi struct {
	schools  school.ServiceInterface
	orders   order.ServiceInterface
	validate *validator.Validate
}

func registerSchoolAPI(
	app *echo.Echo,
	jwt echo.MiddlewareFunc,
	schools school.ServiceInterface,
	orders order.ServiceInterface,
	validate *validator.Validate,
) {
	api := schoolApi{
		schools:  schools,
		orders:   orders,
		validate: validate,
	}

	g := app.Group("/school", jwt, roleMiddleware(user.RoleSchool))

	g.GET("", api.dashboard)
	g.GET("/profile", api.retrieveProfile)
	g.POST("/profile", api.updateProfile)
	g.GET("/order/new", api.newOrderForm)
	g.POST("/order/new", api.createOrder)
}

// Handlers

func (api *schoolApi) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var sch *school.School
	if s, err := api.schools.GetByUserID(claims.UserID()); err == nil {
		sch = &s
	} else if errors.Cause(err) != school.ErrNotFound {
		return errors.Wrap(err, "finding school")
	}

	orders, err := api.orders.QueryBySchoolUser(claims.UserID())
	if err != nil && errors.Cause(err) != order.ErrNoLinkedSchool {
		return errors.Wrap(err, "querying orders")
	}
	if orders == nil {
		orders = []order.Summary{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"school": sch, "orders": orders})
}

func (api *schoolApi) retrieveProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	sch, err := api.schools.GetByUserID(claims.UserID())
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) updateProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data school.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	data.Clean()

	if err = api.schools.UpdateProfile(claims.UserID(), data); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Profile updated."})
}

// newOrderForm returns the data the order form needs: the school snapshot and
// a handful of suggested delivery dates.
func (api *schoolApi) newOrderForm(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	sch, err := api.schools.GetByUserID(claims.UserID())
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return core.NewValidationError(order.ErrNoLinkedSchool)
		}
		return errors.Wrap(err, "finding school")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"school":          sch,
		"suggested_dates": suggestedDeliveryDates(time.Now(), 4),
		"delivery_modes":  []string{order.DeliveryPickup, order.DeliveryHome},
	})
}

func (api *schoolApi) createOrder(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data order.NewOrder
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrder")
	}
	data.Clean()

	ord, err := api.orders.Create(claims.UserID(), data)
	if err != nil {
		if errors.Cause(err) == order.ErrNoLinkedSchool {
			return core.NewValidationError(order.ErrNoLinkedSchool)
		}
		return errors.Wrap(err, "creating order")
	}
	return ctx.JSON(http.StatusCreated, ord)
}

// suggestedDeliveryDates returns the next n week-apart dates starting a week out.
func suggestedDeliveryDates(from time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		dates = append(dates, from.AddDate(0, 0, 7*i).Format("2006-01-02"))
	}
	return dates
}
