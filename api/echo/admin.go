package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/courier"
	"github.com/pedidosgs/backend/core/order"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type adminApi struct {
	orders   order.ServiceInterface
	schools  school.ServiceInterface
	couriers courier.ServiceInterface
	users    user.ServiceInterface
	validate *validator.Validate
}

func registerAdminAPI(
	app *echo.Echo,
	jwt echo.MiddlewareFunc,
	orders order.ServiceInterface,
	schools school.ServiceInterface,
	couriers courier.ServiceInterface,
	users user.ServiceInterface,
	validate *validator.Validate,
) {
	api := adminApi{
		orders:   orders,
		schools:  schools,
		couriers: couriers,
		users:    users,
		validate: validate,
	}

	g := app.Group("/admin", jwt, roleMiddleware(user.RoleAdmin))

	g.GET("", api.dashboard)
	g.GET("/orders", api.queryOrders)
	g.POST("/order/:id/status", api.setOrderStatus)
	g.POST("/order/:id/courier", api.assignCourier)

	g.GET("/couriers", api.queryCouriers)
	g.POST("/courier/new", api.createCourier)
	g.POST("/courier/:id/status", api.setCourierActive)

	g.GET("/pending-accounts", api.queryAccounts)
	g.POST("/pending-accounts/:id/:action", api.reviewAccount)

	g.GET("/schools", api.querySchools)
	g.GET("/school/:id/edit", api.retrieveSchool)
	g.POST("/school/:id/edit", api.editSchool)
	g.POST("/school/:id/toggle", api.toggleSchool)
	g.POST("/school/:id/delete", api.deleteSchool)
	g.POST("/school/:id/salesperson", api.assignSalesperson)
}

// Handlers

func (api *adminApi) dashboard(ctx echo.Context) error {
	stats, err := api.orders.Dashboard()
	if err != nil {
		return errors.Wrap(err, "querying dashboard stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) queryOrders(ctx echo.Context) error {
	orders, err := api.orders.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying orders")
	}
	if orders == nil {
		orders = []order.Summary{}
	}
	couriers, err := api.couriers.QueryActive()
	if err != nil {
		return errors.Wrap(err, "querying couriers")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"orders":   orders,
		"couriers": couriers,
		"statuses": order.AllStatuses,
	})
}

func (api *adminApi) setOrderStatus(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data StatusRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}

	if err = api.orders.SetStatus(id, data.Status); err != nil {
		if errors.Cause(err) == order.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting order status")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Status updated."})
}

func (api *adminApi) assignCourier(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data AssignCourierRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignCourierRequest")
	}

	if err = api.orders.AssignCourier(id, data.CourierID); err != nil {
		if errors.Cause(err) == order.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning courier")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Courier assigned."})
}

func (api *adminApi) queryCouriers(ctx echo.Context) error {
	couriers, err := api.couriers.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying couriers")
	}
	if couriers == nil {
		couriers = []courier.Courier{}
	}
	return ctx.JSON(http.StatusOK, couriers)
}

func (api *adminApi) createCourier(ctx echo.Context) error {
	var data courier.NewCourier
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourier")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crr, err := api.couriers.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating courier")
	}
	return ctx.JSON(http.StatusCreated, crr)
}

func (api *adminApi) setCourierActive(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data ActiveRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActiveRequest")
	}

	if err = api.couriers.SetActive(id, data.Active); err != nil {
		if errors.Cause(err) == courier.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting courier status")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Courier updated."})
}

func (api *adminApi) queryAccounts(ctx echo.Context) error {
	pending, err := api.schools.PendingAccounts()
	if err != nil {
		return errors.Wrap(err, "querying pending accounts")
	}
	if pending == nil {
		pending = []school.Account{}
	}
	active, err := api.schools.ActiveAccounts()
	if err != nil {
		return errors.Wrap(err, "querying active accounts")
	}
	if active == nil {
		active = []school.Account{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"pending": pending, "active": active})
}

// reviewAccount approves or rejects a pending school registration. Rejection
// deletes the user and everything hanging off it.
func (api *adminApi) reviewAccount(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	switch ctx.Param("action") {
	case "approve":
		err = api.schools.Approve(id)
	case "reject":
		err = api.schools.Reject(id)
	default:
		return core.NewValidationError(errors.New("invalid action"))
	}
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrNotFound, school.ErrNotFound:
			return errHttpNotFound
		}
		return errors.Wrap(err, "reviewing account")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Account reviewed."})
}

func (api *adminApi) querySchools(ctx echo.Context) error {
	accounts, err := api.schools.Accounts()
	if err != nil {
		return errors.Wrap(err, "querying school accounts")
	}
	if accounts == nil {
		accounts = []school.Account{}
	}
	return ctx.JSON(http.StatusOK, accounts)
}

func (api *adminApi) retrieveSchool(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	sch, err := api.schools.GetByID(id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding school by ID")
	}
	usr, err := api.users.GetByID(sch.UserID)
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return errors.Wrap(err, "finding school user")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"school": sch, "user": usr})
}

func (api *adminApi) editSchool(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data school.EditAccount
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditAccount")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.schools.Edit(id, data); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "editing school")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "School updated."})
}

func (api *adminApi) toggleSchool(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	active, err := api.schools.ToggleActive(id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "toggling school")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"active": active})
}

func (api *adminApi) deleteSchool(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.schools.Delete(id); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting school")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) assignSalesperson(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data AssignSalespersonRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignSalespersonRequest")
	}

	usr, err := api.users.GetByID(data.SalespersonID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "salesperson_id", Error: "unknown salesperson"})
		}
		return errors.Wrap(err, "finding salesperson")
	}
	if !usr.IsSalesperson() {
		return core.NewValidationError(nil, core.FieldError{Field: "salesperson_id", Error: "user is not a salesperson"})
	}

	if err = api.schools.AssignSalesperson(id, data.SalespersonID); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning salesperson")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Salesperson assigned."})
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

type (
	StatusRequest struct {
		Status string `json:"status" form:"status"`
	}

	AssignCourierRequest struct {
		CourierID int `json:"courier_id" form:"courier_id"`
	}

	ActiveRequest struct {
		Active bool `json:"active" form:"active"`
	}

	AssignSalespersonRequest struct {
		SalespersonID int `json:"salesperson_id" form:"salesperson_id"`
	}
)
