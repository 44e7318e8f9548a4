package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/user"
)

const (
	sessionCookieName = "session"
	claimsContextKey  = "sessionToken"
)

// Claims is the session payload carried in the signed cookie: who the caller
// is and which role gates apply.
type Claims struct {
	jwt.StandardClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

func (c Claims) UserID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

// asUser rebuilds the minimal user view ownership checks need; no DB hit.
func (c Claims) asUser() user.User {
	return user.User{ID: c.UserID(), Name: c.Name, Role: c.Role}
}

// sessionManager signs and reads the cookie-backed session.
type sessionManager struct {
	conf *core.Config
}

func newSessionManager(conf *core.Config) *sessionManager {
	return &sessionManager{conf: conf}
}

func (sm *sessionManager) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    sm.conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
		TokenLookup:   "cookie:" + sessionCookieName,
	}
}

func (sm *sessionManager) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(sm.jwtConfig())
}

func (sm *sessionManager) claims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    sm.conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			Id:        uuid.New().String(),
			ExpiresAt: now.Add(sm.conf.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name: usr.Name,
		Role: usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func (sm *sessionManager) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(sm.conf.SecretKey)
	return ss, errors.Wrap(err, "signing token")
}

func (sm *sessionManager) login(ctx echo.Context, usr user.User) error {
	token, err := sm.GenerateToken(sm.claims(usr))
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sm.conf.SessionExpirationDelta),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (sm *sessionManager) logout(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthenticated
}

// authenticate maps service auth failures onto the HTTP taxonomy.
func authenticate(email, pwd string, svc user.ServiceInterface) (user.User, error) {
	usr, err := svc.Authenticate(email, pwd)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials:
			return user.User{}, core.NewValidationError(user.ErrInvalidCredentials)
		case user.ErrAccountInactive:
			return user.User{}, errAccountInactive
		}
		return user.User{}, errors.Wrap(err, "authenticating")
	}
	return usr, nil
}

// dashboardPath routes a role to its landing page.
func dashboardPath(role string) string {
	switch role {
	case user.RoleAdmin:
		return "/admin"
	case user.RoleSalesperson:
		return "/salesperson"
	}
	return "/school"
}
