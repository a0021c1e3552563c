package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tjfontaine/marketin-sdk-go/pkg/marketin"
)

var clickFlags struct {
	affiliateID string
	campaignID  string
	productID   string
	clickID     string
}

var convertFlags struct {
	eventType       string
	value           string
	currency        string
	ref             string
	productID       string
	cart            string
	subscriptionID  string
	periodNumber    int
	planID          string
	interval        string
	recurringAmount string
	status          string
}

func runPageView(cmd *cobra.Command, args []string) error {
	return withClient(cmd, true, func(context.Context, *marketin.Client) error {
		return nil
	})
}

func runClick(cmd *cobra.Command, args []string) error {
	return withClient(cmd, true, func(ctx context.Context, c *marketin.Client) error {
		c.TrackAffiliateClick(ctx, marketin.ClickOptions{
			AffiliateID: marketin.ID(clickFlags.affiliateID),
			CampaignID:  marketin.ID(clickFlags.campaignID),
			ProductID:   marketin.ID(clickFlags.productID),
			ClickID:     marketin.ID(clickFlags.clickID),
		})
		return nil
	})
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := conversionOptions(cmd)
	if err != nil {
		return err
	}
	return withClient(cmd, true, func(ctx context.Context, c *marketin.Client) error {
		c.TrackConversion(ctx, opts)
		return nil
	})
}

func conversionOptions(cmd *cobra.Command) (marketin.ConversionOptions, error) {
	f := convertFlags
	opts := marketin.ConversionOptions{
		EventType:          f.eventType,
		Value:              marketin.Number(f.value),
		Currency:           f.currency,
		ConversionRef:      f.ref,
		ProductID:          marketin.ID(f.productID),
		SubscriptionID:     f.subscriptionID,
		PlanID:             f.planID,
		Interval:           f.interval,
		RecurringAmount:    marketin.Number(f.recurringAmount),
		SubscriptionStatus: f.status,
	}
	if cmd.Flags().Changed("period") {
		period := f.periodNumber
		opts.PeriodNumber = &period
	}

	items, err := parseCart(f.cart)
	if err != nil {
		return opts, err
	}
	opts.CartItems = items
	return opts, nil
}

// parseCart decodes a JSON array of cart items given inline or as @file.
func parseCart(arg string) ([]marketin.CartItem, error) {
	if arg == "" {
		return nil, nil
	}
	data := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read cart: %w", err)
		}
	}

	var items []marketin.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse cart: %w", err)
	}
	return items, nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open document: %w", err)
		}
		defer f.Close()
		r = f
	}

	return withClient(cmd, true, func(ctx context.Context, c *marketin.Client) error {
		return c.CrawlPageData(ctx, r)
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withClient(cmd, false, func(ctx context.Context, c *marketin.Client) error {
		return printJSON(cmd.OutOrStdout(), struct {
			Status   marketin.Status            `json:"status"`
			Referral marketin.AttributionRecord `json:"referral"`
		}{c.Status(), c.GetReferralParams(ctx)})
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
