package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const targetDateLayout = "2006-01-02"

// Create interactively collects the campaign fields and registers it.
func (a *App) Create(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Campaign title", a.out)
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	targetStr, err := getSimpleText(a.reader, "Target amount", a.out)
	if err != nil {
		return err
	}
	target, err := strconv.ParseInt(targetStr, 10, 64)
	if err != nil {
		return fmt.Errorf("target must be a number: %w", err)
	}
	dateStr, err := getSimpleText(a.reader, "Target date (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	targetDate, err := time.Parse(targetDateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("bad date: %w", err)
	}

	if err := a.coord.CreateCampaign(ctx, title, description, target, targetDate); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Campaign created.")
	return nil
}
