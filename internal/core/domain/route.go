package domain

import "strings"

const (
	LoginPath   = "/login"
	RootPath    = "/"
	AdminPrefix = "/admin"
	AdminHome   = "/admin/usuarios"
)

// RouteDecision is the outcome of gating one navigation.
type RouteDecision int

const (
	RouteAllow RouteDecision = iota
	RouteRedirectLogin
	// RouteRedirectLoginClearSession also evicts the caller's session cookie.
	RouteRedirectLoginClearSession
	RouteRedirectAdminHome
)

func (d RouteDecision) String() string {
	switch d {
	case RouteAllow:
		return "allow"
	case RouteRedirectLogin:
		return "redirect_login"
	case RouteRedirectLoginClearSession:
		return "redirect_login_clear"
	case RouteRedirectAdminHome:
		return "redirect_admin_home"
	default:
		return "unknown"
	}
}

// IsAdminPath reports whether path is the admin area or below it.
func IsAdminPath(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// DecideRoute gates a navigation to path. Rules are evaluated in order:
//
//  1. login page with a session: admins go to the admin home, others stay
//  2. root without a session: go to login
//  3. admin area: no session goes to login; a non-admin session goes to
//     login and loses its cookie
//  4. anything else is allowed
func DecideRoute(path string, hasSession, isAdmin bool) RouteDecision {
	if path == LoginPath && hasSession {
		if isAdmin {
			return RouteRedirectAdminHome
		}
		return RouteAllow
	}

	if path == RootPath && !hasSession {
		return RouteRedirectLogin
	}

	if IsAdminPath(path) {
		if !hasSession {
			return RouteRedirectLogin
		}
		if !isAdmin {
			return RouteRedirectLoginClearSession
		}
	}

	return RouteAllow
}
