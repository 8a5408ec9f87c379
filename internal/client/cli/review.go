package cli

import (
	"context"
	"fmt"

	"github.com/avdeevd/fundkeeper/internal/client/coordinator"
)

// Stake increases the caller's auditor stake by the fixed increment.
func (a *App) Stake(ctx context.Context) error {
	if err := a.coord.Stake(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Staked %d. Your stake is now %d.\n",
		coordinator.StakeIncrement, a.coord.StakeAmount())
	return nil
}

// Review lists campaigns awaiting the caller's decision ("review [page]").
// The caller's own campaigns never appear here.
func (a *App) Review(ctx context.Context, args []string) error {
	if err := a.coord.RefreshAll(ctx); err != nil && len(a.coord.ReviewableCampaigns()) == 0 {
		return err
	}
	reviewable := a.coord.ReviewableCampaigns()
	if len(reviewable) == 0 {
		fmt.Fprintln(a.out, "Nothing awaits your review.")
		return nil
	}
	printCampaignPage(a.out, reviewable, pageArg(args))
	return nil
}

// Approve releases a pending campaign's funds: "approve <campaign-id>".
func (a *App) Approve(ctx context.Context, args []string) error {
	if err := a.coord.Decide(ctx, args[0], true); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Approved; funds released to the owner.")
	return nil
}

// Reject returns a pending campaign to active: "reject <campaign-id>".
func (a *App) Reject(ctx context.Context, args []string) error {
	if err := a.coord.Decide(ctx, args[0], false); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Rejected; campaign is active again.")
	return nil
}

// Collect transfers a released campaign's funds: "collect <campaign-id>".
func (a *App) Collect(ctx context.Context, args []string) error {
	if err := a.coord.Collect(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Funds collected.")
	return nil
}
