package app

import (
	"context"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/resource"
)

// DashboardView tells the frontend which dashboard layout to load.
type DashboardView struct {
	User      auth.Principal `json:"user"`
	Dashboard string         `json:"dashboard"`
}

func dashboardFor(_ context.Context, p auth.Principal, _ resource.NoInput) (DashboardView, error) {
	return DashboardView{User: p, Dashboard: auth.DashboardFor(p.Role)}, nil
}
