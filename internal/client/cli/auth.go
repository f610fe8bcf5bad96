package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/salonadmin/internal/client/gateway"
	"github.com/dmitrijs2005/salonadmin/internal/client/guard"
	"github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/client/session"
	"github.com/dmitrijs2005/salonadmin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// describe turns an error into the sentence shown to the user.
func describe(err error) string {
	if errors.Is(err, gateway.ErrUnavailable) {
		return "Server unavailable, please try again later"
	}
	return gateway.Message(err)
}

func (a *App) displayName() string {
	if id := a.session.Identity(); id != nil {
		if name := id.FullName(); name != "" {
			return name
		}
		return id.Email
	}
	return ""
}

// Login prompts for credentials and signs in. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.stdout())
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.stdout())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.logger.Info(ctx, "login failed", "error", err)
		a.out.Error("Login failed: %s", describe(err))
		return err
	}

	a.out.Success("Welcome back, %s!", a.displayName())
	a.afterSignIn(ctx)
	return nil
}

// Register prompts for account details and creates the account.
func (a *App) Register(ctx context.Context) error {
	var req models.RegisterRequest
	var err error

	if req.Email, err = getSimpleText(a.reader, "Enter email", a.stdout()); err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.stdout())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if req.FirstName, err = getSimpleText(a.reader, "Enter first name", a.stdout()); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Enter last name", a.stdout()); err != nil {
		return err
	}

	if err := a.session.Register(ctx, req); err != nil {
		a.logger.Info(ctx, "registration failed", "error", err)
		a.out.Error("Registration failed: %s", describe(err))
		return err
	}

	a.out.Success("Account created. Welcome, %s!", a.displayName())
	a.afterSignIn(ctx)
	return nil
}

// afterSignIn loads the tenant list, puts back the tenant the user worked in
// last time and opens the dashboard.
func (a *App) afterSignIn(ctx context.Context) {
	if err := a.tenants.Refresh(ctx); err != nil {
		a.out.Warning("Could not load tenants: %s", describe(err))
	} else {
		a.restoreTenant(ctx)
	}
	a.setRoute(guard.RouteHome)
}

func (a *App) restoreTenant(ctx context.Context) {
	id, err := a.tenants.RememberedID(ctx)
	if err != nil {
		a.logger.Warn(ctx, "read remembered tenant", "error", err)
		return
	}
	if id == "" {
		return
	}
	if cur := a.tenants.Current(); cur != nil && cur.ID == id {
		return
	}
	if err := a.tenants.SwitchTenant(ctx, id); err != nil {
		a.logger.Warn(ctx, "restore remembered tenant", "error", err)
		return
	}
	if cur := a.tenants.Current(); cur != nil && cur.ID == id {
		a.out.Info("Restored your previous tenant: %s", cur.Name)
	}
}

// Logout ends the session locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.out.Error("Logout failed: %s", describe(err))
		return err
	}
	a.tenants.Reset()
	a.setRoute(guard.RouteLogin)
	a.out.Success("Logged out")
	return nil
}

// Profile shows the signed-in identity.
func (a *App) Profile(ctx context.Context) error {
	id := a.session.Identity()
	if id == nil {
		a.out.Warning("Please log in first.")
		return session.ErrNotAuthenticated
	}

	tenant := "-"
	if id.TenantID != nil {
		tenant = *id.TenantID
	}
	a.out.Header("Profile")
	a.out.Table([]string{"Field", "Value"}, [][]string{
		{"Name", id.FullName()},
		{"Email", id.Email},
		{"Role", string(id.Role)},
		{"Tenant", tenant},
		{"Active", yesNo(id.IsActive)},
		{"Member since", formatDate(id.CreatedAt)},
	})
	return nil
}

// UpdateProfile prompts for new values. An empty answer keeps the field.
func (a *App) UpdateProfile(ctx context.Context) error {
	id := a.session.Identity()
	if id == nil {
		a.out.Warning("Please log in first.")
		return session.ErrNotAuthenticated
	}

	var upd models.ProfileUpdate
	prompts := []struct {
		label   string
		current string
		dst     **string
	}{
		{"First name", id.FirstName, &upd.FirstName},
		{"Last name", id.LastName, &upd.LastName},
		{"Email", id.Email, &upd.Email},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label+" ["+p.current+"]", a.stdout())
		if err != nil {
			return err
		}
		if v != "" && v != p.current {
			*p.dst = &v
		}
	}
	if upd.FirstName == nil && upd.LastName == nil && upd.Email == nil {
		a.out.Info("Nothing to update.")
		return nil
	}

	if err := a.session.UpdateProfile(ctx, upd); err != nil {
		a.out.Error("Profile update failed: %s", describe(err))
		return err
	}
	a.out.Success("Profile updated")
	return nil
}
