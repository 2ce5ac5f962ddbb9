package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

type pathKind int

const (
	pathOther pathKind = iota
	pathEntry
	pathProtected
	pathLogout
)

var (
	entryPaths     = []string{"/login", "/signup"}
	protectedPaths = []string{"/profile", "/dashboard", "/employeeDashboard"}
)

// hasPathPrefix matches prefix as a whole path segment, so /profile matches
// /profile and /profile/edit but not /profiles
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func classifyPath(path string) pathKind {
	for _, p := range entryPaths {
		if path == p {
			return pathEntry
		}
	}
	for _, p := range protectedPaths {
		if hasPathPrefix(path, p) {
			return pathProtected
		}
	}
	if path == "/logout" {
		return pathLogout
	}
	return pathOther
}

// RouteGate redirects signed-in callers away from login/signup pages and
// anonymous callers away from account pages. Sessions are verified, so an
// expired or forged cookie counts as no session.
func RouteGate(auth *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := classifyPath(c.Request.URL.Path)
		if kind == pathOther {
			c.Next()
			return
		}

		identity, err := auth.Identify(c.Request)
		signedIn := err == nil && identity != nil

		switch {
		case kind == pathEntry && signedIn:
			redirect(c, "/", url.Values{"message": {"You are already logged in"}})
		case kind == pathProtected && !signedIn:
			redirect(c, "/login", url.Values{
				"message":  {"Please login to access your profile"},
				"redirect": {c.Request.URL.Path},
			})
		case kind == pathLogout && !signedIn:
			redirect(c, "/login", url.Values{"message": {"You are not logged in"}})
		default:
			c.Next()
		}
	}
}

func redirect(c *gin.Context, path string, query url.Values) {
	c.Redirect(http.StatusTemporaryRedirect, path+"?"+query.Encode())
	c.Abort()
}
