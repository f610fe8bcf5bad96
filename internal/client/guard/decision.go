package guard

import "github.com/dmitrijs2005/salonadmin/internal/client/models"

type Decision int

const (
	Loading Decision = iota
	RedirectLogin
	RedirectHome
	Render
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Render:
		return "render"
	}
	return "unknown"
}

// SessionView is the read side of the session store.
type SessionView interface {
	Loading() bool
	IsAuthenticated() bool
	Identity() *models.Identity
}

// Evaluate gates a protected view. The checks run in a fixed order: an
// unfinished restore wins over everything, then authentication, then role.
func Evaluate(s SessionView, required models.Role) Decision {
	if s.Loading() {
		return Loading
	}
	if !s.IsAuthenticated() {
		return RedirectLogin
	}
	if required != "" {
		id := s.Identity()
		if id == nil || id.Role != required {
			return RedirectHome
		}
	}
	return Render
}

// Navigate resolves path and evaluates it. Public routes always render.
func Navigate(s SessionView, path string) (RouteSpec, Decision) {
	r := Resolve(path)
	if r.Public {
		return r, Render
	}
	return r, Evaluate(s, r.Required)
}

// Accessible lists the protected routes the session may open right now.
func Accessible(s SessionView) []RouteSpec {
	var out []RouteSpec
	for _, r := range routes {
		if !r.Public && Evaluate(s, r.Required) == Render {
			out = append(out, r)
		}
	}
	return out
}
