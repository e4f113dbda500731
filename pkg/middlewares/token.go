package middlewares

import (
	"context"
	"net/http"
	"strings"

	"media_upload_service/pkg"
	"media_upload_service/pkg/logger"
	t_token "media_upload_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name, the identity provider's session cookie
	CookieToken = "__session"

	//TokenUserID get user from token, set c.locals name
	TokenUserID = "UserID"
	//TokenSessionID get session from token, set c.locals name
	TokenSessionID = "SessionID"

	// SignInPath where anonymous page requests are sent
	SignInPath = "/sign-in"
	// SignUpPath identity provider sign up flow
	SignUpPath = "/sign-up"
	// HomePath where signed in users land
	HomePath = "/home"
	// VideosAPIPath public listing API
	VideosAPIPath = "/api/videos"
)

// PublicRoutes reachable without a session
var PublicRoutes = []string{SignInPath, SignUpPath, VideosAPIPath}

// bypassRoutes never go through the routing policy
var bypassRoutes = []string{"/health", "/debug", "/swagger"}

// SessionChecker report whether a session id is still active at the identity provider
type SessionChecker interface {
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

// Authenticate resolve the caller from the session token without rejecting anyone,
// sessions may be nil to trust the token signature alone
func Authenticate(sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			return c.Next()
		}

		claims, err := t_token.ParseJWTFunc(tokenStr)
		if err != nil {
			logger.Log.Debug("invalid session token", zap.Error(err))
			return c.Next()
		}

		if sessions != nil {
			active, err := sessions.IsActive(c.UserContext(), claims.SessionID)
			if err != nil {
				logger.Log.Warn("session lookup failed", zap.String("session", claims.SessionID), zap.Error(err))
				return c.Next()
			}
			if !active {
				return c.Next()
			}
		}

		c.Locals(TokenUserID, claims.UserID)
		c.Locals(TokenSessionID, claims.SessionID)
		return c.Next()
	}
}

// RequireAuth answer 401 when Authenticate found no user
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}

// RoutePolicy redirect page requests by session state:
// "/" goes to sign-in or home, anonymous callers outside PublicRoutes go to sign-in
// (API paths answer 401 instead), signed in callers on PublicRoutes go home except the videos API
func RoutePolicy() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if skipPolicy(path) {
			return c.Next()
		}

		signedIn := UserID(c) != ""

		if path == "/" {
			if !signedIn {
				return c.Redirect(SignInPath, http.StatusTemporaryRedirect)
			}
			return c.Redirect(HomePath, http.StatusTemporaryRedirect)
		}

		public := pkg.Contains(PublicRoutes, path)

		if !signedIn && !public {
			if strings.HasPrefix(path, "/api/") {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			return c.Redirect(SignInPath, http.StatusTemporaryRedirect)
		}

		if signedIn && public && path != VideosAPIPath {
			return c.Redirect(HomePath, http.StatusTemporaryRedirect)
		}

		return c.Next()
	}
}

// UserID the authenticated user of the request, empty when anonymous
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(TokenUserID).(string)
	return id
}

func tokenFromRequest(c *fiber.Ctx) string {
	if tokenStr, err := t_token.BearerToken(c.Get(fiber.HeaderAuthorization)); err == nil {
		return tokenStr
	}
	if tokenStr := c.Cookies(CookieToken); tokenStr != "" {
		return tokenStr
	}
	return c.Query(QueryToken)
}

func skipPolicy(path string) bool {
	if pkg.UnderAny(path, bypassRoutes) {
		return true
	}
	// static files
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}
