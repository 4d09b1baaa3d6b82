package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

var (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
	audience        = "SIM-Tahfidz"
	signingMethod   = middleware.AlgorithmHS256
)

// Claims represents the authorization claims transmitted via a JWT.
// StandardClaims.Id holds the session ID: deleting the session revokes the token.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64    `json:"oriat,omitempty"`
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	IsAdmin      bool     `json:"is_admin,omitempty"`  // -> ADMIN PORTAL
	IsGuru       bool     `json:"is_guru,omitempty"`   // -> GURU PORTAL
	IsSantri     bool     `json:"is_santri,omitempty"` // -> SANTRI PORTAL
	Roles        []string `json:"roles,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: signingMethod,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// GetUserClaims returns the claims of `usr` signed in through session `sessionID`.
func GetUserClaims(conf *core.Config, usr user.User, sessionID string, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sessionID,
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         usr.Name,
		Email:        usr.Email,
		IsAdmin:      usr.IsAdmin(),
		IsGuru:       usr.IsGuru(),
		IsSantri:     usr.IsSantri(),
		Roles:        usr.RoleNames(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, secretKey string) (string, error) {
	method := jwt.GetSigningMethod(signingMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if core.IsNotFound(err) {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// sessionMiddleware rejects tokens whose session was revoked or has expired.
// It runs after the JWT middleware.
func sessionMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if err = svc.ValidateSession(ctx.Request().Context(), claims.Id, claims.Subject); err != nil {
				switch errors.Cause(err) {
				case user.ErrSessionNotFound, user.ErrSessionExpired:
					return errSessionRevoked
				}
				return errors.Wrap(err, "validating session")
			}

			usr, err := getContextUser(ctx, svc, claims)
			if err != nil {
				return err
			}
			if !usr.IsActive {
				return errAccountDeactivated
			}
			return next(ctx)
		}
	}
}

func authenticate(ctx echo.Context, conf *core.Config, svc user.Service, email, pwd string) (string, error) {
	meta := user.SessionMeta{IPAddress: ctx.RealIP(), UserAgent: ctx.Request().UserAgent()}
	usr, sess, err := svc.Authenticate(ctx.Request().Context(), email, pwd, meta)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials:
			return "", errAuthenticationFailed
		case user.ErrAccountDeactivated:
			return "", errAccountDeactivated
		}
		return "", errors.Wrap(err, "authenticating")
	}
	return GenerateToken(GetUserClaims(conf, usr, sess.ID), conf.SecretKey)
}

func refreshToken(ctx echo.Context, conf *core.Config, svc user.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := getContextUser(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetUserClaims(conf, usr, claims.Id, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims, conf.SecretKey)
	return token, errors.Wrap(err, "generating token")
}
