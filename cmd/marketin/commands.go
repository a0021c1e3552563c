package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	pageURL     string
	referrer    string
	pageTitle   string
	profilePath string
	debug       bool
	traceSpans  bool

	rootCmd = &cobra.Command{
		Use:   "marketin",
		Short: "Drive the MarketIn attribution client from the command line",
		Long: `marketin runs one page load against a browser profile: it initializes a
session for --url, applies any attribution found there, and reports the
requested events to the collection endpoint.

Use --profile to keep cookies and local storage in a SQLite file so that
attribution carries over between invocations.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadEnvironment,
	}

	pageViewCmd = &cobra.Command{
		Use:   "pageview",
		Short: "Load the page: initialize the session and record a page view",
		Args:  cobra.NoArgs,
		RunE:  runPageView,
	}

	clickCmd = &cobra.Command{
		Use:   "click",
		Short: "Record an affiliate click after loading the page",
		Args:  cobra.NoArgs,
		RunE:  runClick,
	}

	convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Record a conversion after loading the page",
		Args:  cobra.NoArgs,
		RunE:  runConvert,
	}

	crawlCmd = &cobra.Command{
		Use:   "crawl [html file]",
		Short: "Send a product snapshot of an HTML document (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCrawl,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the client status and the stored referral record",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	referralCmd = &cobra.Command{
		Use:   "referral",
		Short: "Inspect and edit the stored referral record",
	}
	referralShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the stored referral record",
		Args:  cobra.NoArgs,
		RunE:  runReferralShow,
	}
	referralSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Write a referral record to both storage media",
		Args:  cobra.NoArgs,
		RunE:  runReferralSet,
	}
	referralClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove the referral record from both storage media",
		Args:  cobra.NoArgs,
		RunE:  runReferralClear,
	}
	referralSyncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Copy the referral record into whichever medium lost it",
		Args:  cobra.NoArgs,
		RunE:  runReferralSync,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default marketin.yaml)")
	pf.StringVar(&pageURL, "url", "", "page URL, overrides page.url")
	pf.StringVar(&referrer, "referrer", "", "document referrer, overrides page.referrer")
	pf.StringVar(&pageTitle, "title", "", "document title, overrides page.title")
	pf.StringVar(&profilePath, "profile", "", "SQLite browser profile, overrides storage settings")
	pf.BoolVar(&debug, "debug", false, "log SDK activity")
	pf.BoolVar(&traceSpans, "trace", false, "write OpenTelemetry spans to stderr")

	clickCmd.Flags().StringVar(&clickFlags.affiliateID, "affiliate", "", "affiliate id")
	clickCmd.Flags().StringVar(&clickFlags.campaignID, "campaign", "", "campaign id")
	clickCmd.Flags().StringVar(&clickFlags.productID, "product", "", "product id")
	clickCmd.Flags().StringVar(&clickFlags.clickID, "click-id", "", "click id, minted when empty")

	cf := convertCmd.Flags()
	cf.StringVar(&convertFlags.eventType, "event-type", "purchase", "conversion event type")
	cf.StringVar(&convertFlags.value, "value", "", "conversion value")
	cf.StringVar(&convertFlags.currency, "currency", "", "currency code (default USD)")
	cf.StringVar(&convertFlags.ref, "ref", "", "conversion reference used for de-duplication")
	cf.StringVar(&convertFlags.productID, "product", "", "product id")
	cf.StringVar(&convertFlags.cart, "cart", "", "cart items as JSON, or @file")
	cf.StringVar(&convertFlags.subscriptionID, "subscription-id", "", "subscription id")
	cf.IntVar(&convertFlags.periodNumber, "period", 0, "subscription billing period number")
	cf.StringVar(&convertFlags.planID, "plan", "", "subscription plan id")
	cf.StringVar(&convertFlags.interval, "interval", "", "subscription billing interval")
	cf.StringVar(&convertFlags.recurringAmount, "recurring-amount", "", "subscription recurring amount")
	cf.StringVar(&convertFlags.status, "subscription-status", "", "subscription status")

	rf := referralSetCmd.Flags()
	rf.StringVar(&referralFlags.affiliateID, "affiliate", "", "affiliate id")
	rf.StringVar(&referralFlags.campaignID, "campaign", "", "campaign id")
	rf.StringVar(&referralFlags.productID, "product", "", "product id")
	rf.StringVar(&referralFlags.clickID, "click-id", "", "click id")

	referralCmd.AddCommand(referralShowCmd, referralSetCmd, referralClearCmd, referralSyncCmd)
	rootCmd.AddCommand(pageViewCmd, clickCmd, convertCmd, crawlCmd, statusCmd, referralCmd)
}
