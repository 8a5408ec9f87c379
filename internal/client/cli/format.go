package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/avdeevd/fundkeeper/internal/client/models"
	"github.com/avdeevd/fundkeeper/internal/client/pageview"
)

func printCampaign(w io.Writer, c models.Campaign) {
	fmt.Fprintf(w, "%s  [%s]  %s\n", c.ID, c.Status, c.Title)
	fmt.Fprintf(w, "    owner: %s  collected: %d/%d  deadline: %s\n",
		c.Owner, c.Collected, c.Target, c.TargetDate.Format("2006-01-02"))
	if c.Proof != nil {
		fmt.Fprintf(w, "    proof: %s (%s, %d chunks)\n",
			c.Proof.Name, c.Proof.ContentType, c.Proof.TotalChunks)
	}
}

func printDonation(w io.Writer, d models.Donation) {
	fmt.Fprintf(w, "%s  %s  %d  %s\n",
		d.Timestamp.Format("2006-01-02 15:04"), d.CampaignID, d.Amount, d.Donor)
}

// printCampaignPage renders one page of campaigns with a page footer.
func printCampaignPage(w io.Writer, campaigns []models.Campaign, page int) {
	pageCount := pageview.PageCount(len(campaigns), pageSize)
	page = pageview.ClampPage(page, pageCount)

	items := pageview.Paginate(campaigns, pageSize, page)
	if len(items) == 0 {
		fmt.Fprintln(w, "No campaigns.")
		return
	}
	for _, c := range items {
		printCampaign(w, c)
	}
	fmt.Fprintf(w, "-- page %d of %d --\n", page, pageCount)
}

// pageArg parses an optional 1-based page number argument; defaults to 1.
func pageArg(args []string) int {
	if len(args) == 0 {
		return 1
	}
	page, err := strconv.Atoi(args[0])
	if err != nil {
		return 1
	}
	return page
}
