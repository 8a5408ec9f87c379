package cli

import (
	"context"
	"fmt"
	"strconv"
)

// Donate sends a donation: "donate <campaign-id> <amount>".
func (a *App) Donate(ctx context.Context, args []string) error {
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	if err := a.coord.Donate(ctx, args[0], amount); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Donation recorded. Thank you!")
	return nil
}

// Donations lists the caller's own donation history.
func (a *App) Donations(ctx context.Context) error {
	donations := a.coord.MyDonations()
	if len(donations) == 0 {
		fmt.Fprintln(a.out, "You have made no donations.")
		return nil
	}
	for _, d := range donations {
		printDonation(a.out, d)
	}
	return nil
}
