package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/salonadmin/internal/client/guard"
	"github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/client/session"
)

var (
	errUsage     = errors.New("usage")
	errForbidden = errors.New("platform administrators only")
)

// Tenants refreshes and lists the tenants visible to the user. The current
// one is marked with "*".
func (a *App) Tenants(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.out.Warning("Please log in first.")
		return session.ErrNotAuthenticated
	}
	if err := a.tenants.Refresh(ctx); err != nil {
		a.out.Error("Could not load tenants: %s", describe(err))
		return err
	}

	list := a.tenants.Tenants()
	if len(list) == 0 {
		a.out.Info("No tenants.")
		return nil
	}

	currentID := ""
	if c := a.tenants.Current(); c != nil {
		currentID = c.ID
	}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		mark := ""
		if t.ID == currentID {
			mark = "*"
		}
		rows = append(rows, []string{mark, t.ID, t.Name, deref(t.Subdomain), string(t.Plan), yesNo(t.IsActive)})
	}
	a.out.Table([]string{"", "ID", "Name", "Subdomain", "Plan", "Active"}, rows)
	return nil
}

// Switch selects the tenant the console works in.
func (a *App) Switch(ctx context.Context, id string) error {
	if id == "" {
		a.out.Print("Usage: switch <tenant-id>")
		return errUsage
	}
	if !a.isLoggedIn() {
		a.out.Warning("Please log in first.")
		return session.ErrNotAuthenticated
	}
	if err := a.tenants.SwitchTenant(ctx, id); err != nil {
		a.out.Error("Could not switch tenant: %s", describe(err))
		return err
	}

	c := a.tenants.Current()
	if c == nil || c.ID != id {
		a.out.Warning("Unknown tenant %s, run 'tenants' to see the list.", id)
		return nil
	}
	a.out.Success("Switched to %s", c.Name)
	return nil
}

// Tenant dispatches the tenant administration subcommands.
func (a *App) Tenant(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.out.Print("Usage: tenant show|create|update|delete [id]")
		return errUsage
	}
	if guard.Evaluate(a.session, models.RoleSuperAdmin) != guard.Render {
		a.out.Error("Only platform administrators can manage tenants.")
		return errForbidden
	}

	sub, rest := args[0], args[1:]
	if sub != "create" && len(rest) == 0 {
		a.out.Print("Usage: tenant %s <id>", sub)
		return errUsage
	}

	switch sub {
	case "show":
		return a.showTenant(ctx, rest[0])
	case "create":
		return a.createTenant(ctx)
	case "update":
		return a.updateTenant(ctx, rest[0])
	case "delete":
		return a.deleteTenant(ctx, rest[0])
	}
	a.out.Print("Unknown tenant command: %s", sub)
	return errUsage
}

func (a *App) showTenant(ctx context.Context, id string) error {
	t, err := a.api.GetTenant(ctx, id)
	if err != nil {
		a.out.Error("Could not load tenant: %s", describe(err))
		return err
	}

	a.out.Header(t.Name)
	rows := [][]string{
		{"ID", t.ID},
		{"Subdomain", deref(t.Subdomain)},
		{"Plan", string(t.Plan)},
		{"Active", yesNo(t.IsActive)},
		{"Created", formatDate(t.CreatedAt)},
		{"Updated", formatDate(t.UpdatedAt)},
	}
	keys := make([]string, 0, len(t.Settings))
	for k := range t.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{"setting." + k, fmt.Sprint(t.Settings[k])})
	}
	a.out.Table([]string{"Field", "Value"}, rows)
	return nil
}

func (a *App) createTenant(ctx context.Context) error {
	var in models.TenantInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Tenant name", a.stdout()); err != nil {
		return err
	}
	if in.Name == "" {
		a.out.Error("Tenant name is required.")
		return errUsage
	}
	sd, err := getSimpleText(a.reader, "Subdomain (optional)", a.stdout())
	if err != nil {
		return err
	}
	if sd != "" {
		in.Subdomain = &sd
	}
	plan, err := a.askPlan("free")
	if err != nil {
		return err
	}
	in.Plan = plan
	if in.Settings, err = a.askSettings(); err != nil {
		return err
	}

	t, err := a.api.CreateTenant(ctx, in)
	if err != nil {
		a.out.Error("Could not create tenant: %s", describe(err))
		return err
	}
	a.out.Success("Tenant %s created (%s)", t.Name, t.ID)
	a.refreshQuietly(ctx)
	return nil
}

func (a *App) updateTenant(ctx context.Context, id string) error {
	cur, err := a.api.GetTenant(ctx, id)
	if err != nil {
		a.out.Error("Could not load tenant: %s", describe(err))
		return err
	}

	var patch models.TenantPatch
	name, err := getSimpleText(a.reader, "Tenant name ["+cur.Name+"]", a.stdout())
	if err != nil {
		return err
	}
	if name != "" && name != cur.Name {
		patch.Name = &name
	}
	sd, err := getSimpleText(a.reader, "Subdomain ["+deref(cur.Subdomain)+"]", a.stdout())
	if err != nil {
		return err
	}
	if sd != "" && sd != deref(cur.Subdomain) {
		patch.Subdomain = &sd
	}
	plan, err := a.askPlan(string(cur.Plan))
	if err != nil {
		return err
	}
	if plan != cur.Plan {
		patch.Plan = &plan
	}
	active, err := getSimpleText(a.reader, "Active (y/n) ["+yesNo(cur.IsActive)+"]", a.stdout())
	if err != nil {
		return err
	}
	switch strings.ToLower(active) {
	case "y", "yes":
		v := true
		patch.IsActive = &v
	case "n", "no":
		v := false
		patch.IsActive = &v
	}
	settings, err := a.askSettings()
	if err != nil {
		return err
	}
	if len(settings) > 0 {
		patch.Settings = settings
	}

	t, err := a.api.UpdateTenant(ctx, id, patch)
	if err != nil {
		a.out.Error("Could not update tenant: %s", describe(err))
		return err
	}
	a.out.Success("Tenant %s updated", t.Name)
	a.refreshQuietly(ctx)
	return nil
}

func (a *App) deleteTenant(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, "Delete tenant "+id+"? Type 'yes' to confirm", a.stdout())
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.out.Info("Cancelled.")
		return nil
	}
	if err := a.api.DeleteTenant(ctx, id); err != nil {
		a.out.Error("Could not delete tenant: %s", describe(err))
		return err
	}
	a.out.Success("Tenant %s deleted", id)
	a.refreshQuietly(ctx)
	return nil
}

func (a *App) askPlan(def string) (models.Plan, error) {
	for {
		v, err := getSimpleText(a.reader, "Plan (free, essentials, growth) ["+def+"]", a.stdout())
		if err != nil {
			return "", err
		}
		if v == "" {
			v = def
		}
		if p := models.Plan(strings.ToLower(v)); p.Valid() {
			return p, nil
		}
		a.out.Warning("Unknown plan %q.", v)
	}
}

func (a *App) askSettings() (map[string]any, error) {
	lines, err := GetSettings(a.reader, a.stdout())
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	settings, err := models.SettingsFromPairs(lines)
	if err != nil {
		a.out.Error("%s", err)
		return nil, err
	}
	return settings, nil
}

func (a *App) refreshQuietly(ctx context.Context) {
	if err := a.tenants.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "tenant refresh after change failed", "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
