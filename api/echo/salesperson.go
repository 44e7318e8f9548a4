package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type salespersonApi struct {
	schools school.ServiceInterface
}

func registerSalespersonAPI(app *echo.Echo, jwt echo.MiddlewareFunc, schools school.ServiceInterface) {
	api := salespersonApi{schools: schools}

	g := app.Group("/salesperson", jwt, roleMiddleware(user.RoleSalesperson))

	g.GET("", api.dashboard)
}

// dashboard lists the schools assigned to the caller, with their order counts.
func (api *salespersonApi) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	schools, err := api.schools.AssignedTo(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "querying assigned schools")
	}
	if schools == nil {
		schools = []school.Summary{}
	}
	return ctx.JSON(http.StatusOK, schools)
}
