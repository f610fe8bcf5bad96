// Package guard decides what the console shows for a route given the current
// session: a loading indicator, a redirect, or the view itself.
package guard

import (
	"strings"

	"github.com/dmitrijs2005/salonadmin/internal/client/models"
)

type Route string

const (
	RouteLogin        Route = "/login"
	RouteRegister     Route = "/register"
	RouteDashboard    Route = "/dashboard"
	RouteBookings     Route = "/bookings"
	RouteCustomers    Route = "/customers"
	RouteProducts     Route = "/products"
	RouteStaff        Route = "/staff"
	RouteSettings     Route = "/settings"
	RouteAdminTenants Route = "/admin/tenants"
	RouteAdminUsers   Route = "/admin/users"
	RouteAnalytics    Route = "/analytics"

	RouteHome = RouteDashboard
)

// RouteSpec describes one view. Required is empty when any signed-in user
// may open it.
type RouteSpec struct {
	Path     Route
	Title    string
	Public   bool
	Required models.Role
}

var routes = []RouteSpec{
	{Path: RouteLogin, Title: "Sign in", Public: true},
	{Path: RouteRegister, Title: "Create account", Public: true},
	{Path: RouteDashboard, Title: "Dashboard"},
	{Path: RouteBookings, Title: "Bookings"},
	{Path: RouteCustomers, Title: "Customers"},
	{Path: RouteProducts, Title: "Products"},
	{Path: RouteStaff, Title: "Staff"},
	{Path: RouteSettings, Title: "Settings"},
	{Path: RouteAdminTenants, Title: "Tenants", Required: models.RoleSuperAdmin},
	{Path: RouteAdminUsers, Title: "Users", Required: models.RoleSuperAdmin},
	{Path: RouteAnalytics, Title: "Analytics", Required: models.RoleSuperAdmin},
}

// Routes returns the route table in sidebar order.
func Routes() []RouteSpec {
	out := make([]RouteSpec, len(routes))
	copy(out, routes)
	return out
}

func Lookup(path string) (RouteSpec, bool) {
	p := Route(normalize(path))
	for _, r := range routes {
		if r.Path == p {
			return r, true
		}
	}
	return RouteSpec{}, false
}

// Resolve maps a requested path to a route. "/" and unknown paths land on
// the dashboard.
func Resolve(path string) RouteSpec {
	if r, ok := Lookup(path); ok {
		return r
	}
	r, _ := Lookup(string(RouteHome))
	return r
}

func normalize(path string) string {
	p := strings.TrimSpace(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return strings.ToLower(p)
}
