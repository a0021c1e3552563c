package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tjfontaine/marketin-sdk-go/pkg/marketin"
)

var referralFlags struct {
	affiliateID string
	campaignID  string
	productID   string
	clickID     string
}

// The referral commands work on storage only; none of them loads the page.

func runReferralShow(cmd *cobra.Command, args []string) error {
	return withClient(cmd, false, func(ctx context.Context, c *marketin.Client) error {
		return printJSON(cmd.OutOrStdout(), c.GetReferralParams(ctx))
	})
}

func runReferralSet(cmd *cobra.Command, args []string) error {
	return withClient(cmd, false, func(ctx context.Context, c *marketin.Client) error {
		c.SaveReferralParams(ctx, marketin.ReferralParams{
			AffiliateID: marketin.ID(referralFlags.affiliateID),
			CampaignID:  marketin.ID(referralFlags.campaignID),
			ProductID:   marketin.ID(referralFlags.productID),
			ClickID:     marketin.ID(referralFlags.clickID),
		})
		return printJSON(cmd.OutOrStdout(), c.GetReferralParams(ctx))
	})
}

func runReferralClear(cmd *cobra.Command, args []string) error {
	return withClient(cmd, false, func(ctx context.Context, c *marketin.Client) error {
		c.ClearReferralParams(ctx)
		return nil
	})
}

func runReferralSync(cmd *cobra.Command, args []string) error {
	return withClient(cmd, false, func(ctx context.Context, c *marketin.Client) error {
		c.SyncReferralStorage(ctx)
		return printJSON(cmd.OutOrStdout(), c.GetReferralParams(ctx))
	})
}
