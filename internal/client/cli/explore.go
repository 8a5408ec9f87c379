package cli

import (
	"context"
	"fmt"
)

// Explore lists all campaigns, one page at a time ("explore [page]").
func (a *App) Explore(ctx context.Context, args []string) error {
	if err := a.coord.RefreshAll(ctx); err != nil && len(a.coord.Campaigns()) == 0 {
		return err
	}
	printCampaignPage(a.out, a.coord.Campaigns(), pageArg(args))
	return nil
}

// Mine lists the campaigns owned by the caller.
func (a *App) Mine(ctx context.Context) error {
	campaigns := a.coord.MyCampaigns()
	if len(campaigns) == 0 {
		fmt.Fprintln(a.out, "You own no campaigns.")
		return nil
	}
	for _, c := range campaigns {
		printCampaign(a.out, c)
	}
	return nil
}

// Show prints one campaign with its donation history.
func (a *App) Show(ctx context.Context, args []string) error {
	id := args[0]

	var shown bool
	for _, c := range a.coord.Campaigns() {
		if c.ID == id {
			printCampaign(a.out, c)
			shown = true
			break
		}
	}
	if !shown {
		fmt.Fprintln(a.out, "Campaign not found locally; try 'refresh'.")
		return nil
	}

	donations, err := a.coord.CampaignDonations(ctx, id)
	if err != nil {
		return err
	}
	if len(donations) == 0 {
		fmt.Fprintln(a.out, "No donations yet.")
		return nil
	}
	fmt.Fprintln(a.out, "Donations:")
	for _, d := range donations {
		printDonation(a.out, d)
	}
	return nil
}

// Released lists the caller's campaigns whose funds are ready to collect.
func (a *App) Released(ctx context.Context) error {
	ids := a.coord.ReleasedCampaignIDs()
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Nothing to collect.")
		return nil
	}
	fmt.Fprintln(a.out, "Ready to collect:")
	for _, id := range ids {
		fmt.Fprintln(a.out, " ", id)
	}
	return nil
}

// Refresh re-fetches every cached collection.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.coord.RefreshAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Refreshed.")
	return nil
}
