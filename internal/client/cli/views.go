package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/salonadmin/internal/client/guard"
)

// Open moves to the view at path, subject to the route guard.
func (a *App) Open(ctx context.Context, path string) error {
	r, decision := guard.Navigate(a.session, path)

	switch decision {
	case guard.Loading:
		a.out.Info("Loading...")
		return nil
	case guard.RedirectLogin:
		a.setRoute(guard.RouteLogin)
		a.out.Warning("Please log in to open %s.", r.Path)
		return nil
	case guard.RedirectHome:
		a.out.Warning("You do not have access to %s.", r.Path)
		a.setRoute(guard.RouteHome)
		return a.render(ctx, guard.Resolve(string(guard.RouteHome)))
	}

	a.setRoute(r.Path)
	return a.render(ctx, r)
}

func (a *App) render(ctx context.Context, r guard.RouteSpec) error {
	switch r.Path {
	case guard.RouteLogin:
		if a.isLoggedIn() {
			a.out.Info("You are already logged in.")
			return nil
		}
		return a.Login(ctx)
	case guard.RouteRegister:
		if a.isLoggedIn() {
			a.out.Info("You are already logged in.")
			return nil
		}
		return a.Register(ctx)
	case guard.RouteDashboard:
		return a.Dashboard(ctx)
	case guard.RouteAdminTenants:
		return a.Tenants(ctx)
	case guard.RouteSettings:
		return a.Profile(ctx)
	}

	a.out.Header(r.Title)
	a.out.Print("This section is not available in the console yet.")
	return nil
}

// Dashboard summarises who is signed in and where.
func (a *App) Dashboard(ctx context.Context) error {
	id := a.session.Identity()
	if id == nil {
		a.out.Warning("Please log in first.")
		return nil
	}

	tenant := "none"
	if t := a.tenants.Current(); t != nil {
		tenant = t.Name
	}

	a.out.Header("Dashboard")
	a.out.Print("Welcome, %s", a.out.Bold(a.displayName()))
	a.out.Table([]string{"Item", "Value"}, [][]string{
		{"Role", string(id.Role)},
		{"Active tenant", tenant},
		{"Tenants", strconv.Itoa(len(a.tenants.Tenants()))},
		{"Server", string(a.currentMode())},
	})
	return nil
}

// Routes lists the views the current user may open.
func (a *App) Routes(ctx context.Context) error {
	var rows [][]string
	if a.isLoggedIn() {
		for _, r := range guard.Accessible(a.session) {
			rows = append(rows, []string{string(r.Path), r.Title})
		}
	} else {
		for _, r := range guard.Routes() {
			if r.Public {
				rows = append(rows, []string{string(r.Path), r.Title})
			}
		}
	}
	a.out.Table([]string{"Path", "View"}, rows)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}
