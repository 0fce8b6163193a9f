package middleware

import (
	"net/http"
	"strings"

	"movecalc/internal/api/models"
	"movecalc/internal/calculator"
	"movecalc/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	scopeKey   = "movecalc.scope"
	sessionKey = "movecalc.session"
)

// Anonymous callers are told apart by a device id, sent back either as a
// header (API clients) or as a cookie (browsers).
const (
	DeviceHeader = "X-Device-ID"
	DeviceCookie = "movecalc_device"

	deviceCookieMaxAge = 365 * 24 * 60 * 60
)

// SessionLookup resolves bearer tokens. *identity.Directory implements it.
type SessionLookup interface {
	Lookup(token string) (*identity.Session, error)
}

// Scope picks the configuration store for the request. With no
// Authorization header the caller works in the local scope, owned by its
// device id; a bearer token that resolves selects the remote scope owned by
// that user. Anything else is rejected with 401.
func Scope(sessions SessionLookup, sel calculator.Selector) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			sc := sel.For(nil)
			sc.Owner = DeviceOwner(deviceID(c))
			c.Set(scopeKey, sc)
			c.Next()
			return
		}

		token, ok := BearerToken(header)
		var sess *identity.Session
		if ok && sessions != nil {
			sess, _ = sessions.Lookup(token)
		}
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_SESSION",
					Message: "Session token is invalid or has expired",
				},
			})
			return
		}

		c.Set(sessionKey, sess)
		c.Set(scopeKey, sel.For(sess))
		c.Next()
	}
}

// DeviceOwner is the local-scope owner for an anonymous device.
func DeviceOwner(id string) string {
	return calculator.LocalOwner + ":" + id
}

// deviceID returns the caller's device id, issuing a new one when the
// request carries none. Ids that are not UUIDs are replaced.
func deviceID(c *gin.Context) string {
	id := parseDeviceID(c.GetHeader(DeviceHeader))
	if id == "" {
		cookie, _ := c.Cookie(DeviceCookie)
		id = parseDeviceID(cookie)
	}
	if id == "" {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(DeviceCookie, id, deviceCookieMaxAge, "/", "", false, true)
	}
	c.Header(DeviceHeader, id)
	return id
}

func parseDeviceID(s string) string {
	u, err := uuid.Parse(s)
	if err != nil {
		return ""
	}
	return u.String()
}

// BearerToken extracts the token from an "Authorization: Bearer" value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ScopeFrom returns the scope set by Scope. It panics when the middleware
// is missing from the chain.
func ScopeFrom(c *gin.Context) calculator.Scope {
	return c.MustGet(scopeKey).(calculator.Scope)
}

// SessionFrom returns the caller's session, or nil when signed out.
func SessionFrom(c *gin.Context) *identity.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	return v.(*identity.Session)
}
