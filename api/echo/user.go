package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type authApi struct {
	sess     *sessionManager
	users    user.ServiceInterface
	schools  school.ServiceInterface
	validate *validator.Validate
}

func registerAuthAPI(
	app *echo.Echo,
	jwt echo.MiddlewareFunc,
	sess *sessionManager,
	users user.ServiceInterface,
	schools school.ServiceInterface,
	validate *validator.Validate,
) {
	api := authApi{
		sess:     sess,
		users:    users,
		schools:  schools,
		validate: validate,
	}

	// un-authed endpoints
	// TODO: rate limit `/forgot` & `/reset/:token`
	app.GET("/login", emptyForm)
	app.POST("/login", api.login)
	app.GET("/signup", emptyForm)
	app.POST("/signup", api.signup)
	app.GET("/forgot", emptyForm)
	app.POST("/forgot", api.forgotPassword)
	app.GET("/reset/:token", api.checkResetToken)
	app.POST("/reset/:token", api.confirmPasswordReset)

	// authed endpoints
	app.GET("/", api.home, jwt)
	app.GET("/logout", api.logout, jwt)
}

// Handlers

// emptyForm backs the GET side of the public forms; page rendering is the
// frontend's job, so there is nothing to return.
func emptyForm(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{})
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := authenticate(data.Email, data.Password, api.users)
	if err != nil {
		return err
	}
	if err = api.sess.login(ctx, usr); err != nil {
		return errors.Wrap(err, "opening session")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{User: usr, Dashboard: dashboardPath(usr.Role)})
}

func (api *authApi) logout(ctx echo.Context) error {
	api.sess.logout(ctx)
	return ctx.Redirect(http.StatusFound, "/login")
}

func (api *authApi) home(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.Redirect(http.StatusFound, dashboardPath(claims.Role))
}

// signup registers a school account; it stays inactive until an admin approves it.
func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.users); err != nil {
		return err
	}

	usr, err := api.users.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	if _, err = api.schools.CreateForUser(usr.ID, usr.Name); err != nil {
		return errors.Wrap(err, "creating school record")
	}

	return ctx.JSON(http.StatusCreated, SuccessResponse{
		Success: "Account created. You will be able to sign in once an administrator validates it.",
	})
}

func (api *authApi) forgotPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.users.RequestPasswordReset(data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with a school account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) checkResetToken(ctx echo.Context) error {
	token := ctx.Param("token")
	if _, err := api.users.CheckResetToken(token); err != nil {
		if errors.Cause(err) == user.ErrTokenInvalid {
			return core.NewValidationError(user.ErrTokenInvalid)
		}
		return errors.Wrap(err, "checking reset token")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	data := user.ConfirmPasswordReset{Token: ctx.Param("token")}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ConfirmPasswordReset")
	}
	data.Token = ctx.Param("token")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.users.ConfirmPasswordReset(data.Token, data.Password); err != nil {
		if errors.Cause(err) == user.ErrTokenInvalid {
			return core.NewValidationError(user.ErrTokenInvalid)
		}
		return errors.Wrap(err, "confirming password reset")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

type (
	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		User      user.User `json:"user"`
		Dashboard string    `json:"dashboard"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" form:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
