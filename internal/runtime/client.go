// Package runtime provides the MarketIn tracking client: the session state,
// the attribution state machine and the tracking entry points.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tjfontaine/marketin-sdk-go/internal/attribution"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
	"github.com/tjfontaine/marketin-sdk-go/internal/crawl"
	"github.com/tjfontaine/marketin-sdk-go/internal/dedupe"
	"github.com/tjfontaine/marketin-sdk-go/internal/ident"
	"github.com/tjfontaine/marketin-sdk-go/internal/page"
	"github.com/tjfontaine/marketin-sdk-go/internal/payload"
	"github.com/tjfontaine/marketin-sdk-go/internal/storage/memory"
	"github.com/tjfontaine/marketin-sdk-go/internal/transport"
)

// Client is one tracking session for one page. Its methods never return
// tracking failures; they are logged instead.
type Client struct {
	// Dependencies (injected via options)
	storage    ports.StorageProvider
	transport  ports.Transport
	httpClient *http.Client
	page       ports.Page
	logger     *slog.Logger
	now        func() time.Time

	referrals *attribution.Store
	dedupe    *dedupe.Guard

	mu          sync.Mutex
	session     domain.SessionContext
	initialized bool
}

// Status is a snapshot of the client state.
type Status struct {
	Version     string                `json:"version"`
	Config      domain.SessionContext `json:"config"`
	SessionID   string                `json:"sessionId"`
	Initialized bool                  `json:"initialized"`
}

// New creates a Client. By default both storage media live in memory and
// the page is empty; call Init before tracking.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if c.storage == nil {
		c.storage = memory.NewProvider(nil)
	}
	if c.page == nil {
		c.page = page.Static{}
	}

	c.referrals = attribution.NewStore(c.storage.Jar(), c.storage.Store(),
		attribution.WithSecure(c.page.Secure()),
		attribution.WithLogger(c.logger),
	)
	c.dedupe = dedupe.New(c.storage.Store())

	return c, nil
}

// Init starts a session. It merges the options into a fresh session,
// stores server-supplied referral params, reconciles the storage media,
// picks up attribution from storage and the URL, and records a page view.
func (c *Client) Init(ctx context.Context, opts domain.InitOptions) {
	defer c.recoverPanic("Init")

	ctx, span := startSpan(ctx, "Init")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	endpoint := opts.APIEndpoint
	if endpoint == "" {
		endpoint = transport.DefaultEndpoint
	}

	c.session = domain.SessionContext{
		APIEndpoint: endpoint,
		Debug:       opts.Debug,
		Token:       opts.Token,
		BrandID:     opts.BrandID,
		AffiliateID: opts.AffiliateID,
		CampaignID:  opts.CampaignID,
	}

	if c.transport == nil {
		topts := []transport.ClientOption{
			transport.WithBaseURL(endpoint),
			transport.WithLogger(c.logger),
			transport.WithDebug(opts.Debug),
		}
		if c.httpClient != nil {
			topts = append(topts, transport.WithHTTPClient(c.httpClient))
		}
		c.transport = transport.NewClient(topts...)
	}

	if rp := opts.ReferralParams; rp != nil {
		c.referrals.Save(ctx, rp.Record())
		c.session.AffiliateID = rp.AffiliateID.Or(c.session.AffiliateID)
		c.session.CampaignID = rp.CampaignID.Or(c.session.CampaignID)
		c.session.ProductID = rp.ProductID.Or(c.session.ProductID)
		c.session.ClickID = rp.ClickID.Or(c.session.ClickID)
	}

	c.session.SessionID = ident.SessionID(opts.SessionID)
	c.initialized = true
	span.SetAttributes(attribute.String("marketin.session_id", c.session.SessionID))

	c.referrals.Reconcile(ctx)

	stored := c.referrals.Load(ctx)
	c.session.AffiliateID = c.session.AffiliateID.Or(stored.AffiliateID)
	c.session.CampaignID = c.session.CampaignID.Or(stored.CampaignID)
	c.session.ProductID = c.session.ProductID.Or(stored.ProductID)
	c.session.ClickID = c.session.ClickID.Or(stored.ClickID)

	if rec, ok := attribution.QueryAttribution(c.page); ok {
		c.trace("attribution found in URL", slog.String("referral", attribution.String(rec)))
		c.trackAffiliateClick(ctx, domain.ClickOptions{
			AffiliateID: rec.AffiliateID,
			CampaignID:  rec.CampaignID,
			ProductID:   rec.ProductID,
			ClickID:     rec.ClickID,
			Referrer:    c.page.Referrer(),
			LandingURL:  c.page.Href(),
		})
	}

	c.trackPageView(ctx, domain.PageViewOptions{})

	c.trace("SDK initialized", slog.String("session_id", c.session.SessionID))
}

// TrackPageView records a page view. Page views need no attribution.
func (c *Client) TrackPageView(ctx context.Context, opts domain.PageViewOptions) {
	defer c.recoverPanic("TrackPageView")

	ctx, span := startSpan(ctx, "TrackPageView")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready("TrackPageView") {
		recordEvent(ctx, span, string(domain.EventPageView), outcomeSkipped)
		return
	}
	c.trackPageView(ctx, opts)
}

func (c *Client) trackPageView(ctx context.Context, opts domain.PageViewOptions) {
	_, span := startSpan(ctx, "trackPageView")
	defer span.End()

	p := payload.PageView(opts, c.page, c.attribution(ctx), c.now())
	c.emit(domain.EventPageView, p)
	recordEvent(ctx, span, string(domain.EventPageView), outcomeSent)
}

// TrackAffiliateClick records an affiliate click. Both AffiliateID and
// CampaignID are required. Session ids are only filled when empty and the
// stored record is rewritten from the session.
func (c *Client) TrackAffiliateClick(ctx context.Context, opts domain.ClickOptions) {
	defer c.recoverPanic("TrackAffiliateClick")

	ctx, span := startSpan(ctx, "TrackAffiliateClick",
		attribute.String("marketin.affiliate_id", opts.AffiliateID.String()),
		attribute.String("marketin.campaign_id", opts.CampaignID.String()),
	)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready("TrackAffiliateClick") {
		recordEvent(ctx, span, string(domain.EventAffiliateClick), outcomeSkipped)
		return
	}
	c.trackAffiliateClick(ctx, opts)
}

// TrackAffiliateClickIDs is the positional form of TrackAffiliateClick.
func (c *Client) TrackAffiliateClickIDs(ctx context.Context, affiliateID, campaignID domain.ID) {
	c.TrackAffiliateClick(ctx, domain.ClickOptions{AffiliateID: affiliateID, CampaignID: campaignID})
}

func (c *Client) trackAffiliateClick(ctx context.Context, opts domain.ClickOptions) {
	_, span := startSpan(ctx, "trackAffiliateClick")
	defer span.End()

	if err := attribution.CheckClick(opts.AffiliateID, opts.CampaignID); err != nil {
		c.trace("affiliate click skipped", slog.String("reason", err.Error()))
		recordEvent(ctx, span, string(domain.EventAffiliateClick), outcomeSkipped)
		return
	}

	c.session.AffiliateID = c.session.AffiliateID.Or(opts.AffiliateID)
	c.session.CampaignID = c.session.CampaignID.Or(opts.CampaignID)

	clickID := ident.ClickResolver{
		Jar:    c.storage.Jar(),
		Query:  c.page,
		Secure: c.page.Secure(),
		Logger: c.logger,
	}.Resolve(ctx, opts.ClickID)
	c.session.ClickID = c.session.ClickID.Or(clickID)

	now := c.now()
	p := payload.AffiliateClick(opts, c.page, c.attribution(ctx), clickID, now)

	// Storage mirrors the session ids.
	c.referrals.Save(ctx, domain.AttributionRecord{
		AffiliateID: c.session.AffiliateID,
		CampaignID:  c.session.CampaignID,
		ProductID:   p.ProductID,
		ClickID:     clickID,
		Timestamp:   now.UnixMilli(),
	})

	c.emit(domain.EventAffiliateClick, p)
	recordEvent(ctx, span, string(domain.EventAffiliateClick), outcomeSent)
	c.trace("affiliate click tracked",
		slog.String("affiliate_id", opts.AffiliateID.String()),
		slog.String("click_id", clickID.String()))
}

// TrackConversion records a conversion. The session must hold affiliate and
// campaign ids, and the conversion must name a product or carry cart lines
// unless its event type starts with "subscription". A conversion whose
// explicit reference matches the last one recorded for the same session and
// event type is dropped.
func (c *Client) TrackConversion(ctx context.Context, opts domain.ConversionOptions) {
	defer c.recoverPanic("TrackConversion")

	ctx, span := startSpan(ctx, "TrackConversion", attribute.String("marketin.event_type", opts.EventType))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	kind := domain.EventPublicConversion
	if c.session.Token != "" {
		kind = domain.EventConversion
	}

	if !c.ready("TrackConversion") {
		recordEvent(ctx, span, string(kind), outcomeSkipped)
		return
	}

	if err := attribution.CheckConversion(c.session, opts.EventType, opts.ProductID, opts.CartItems); err != nil {
		c.trace("conversion skipped", slog.String("event_type", opts.EventType), slog.String("reason", err.Error()))
		recordEvent(ctx, span, string(kind), outcomeSkipped)
		return
	}

	if opts.ConversionRef != "" {
		seen, err := c.dedupe.Seen(ctx, c.session.SessionID, opts.EventType, opts.ConversionRef)
		if err != nil {
			c.logger.Warn("failed to read conversion history", slog.String("error", err.Error()))
		}
		if seen {
			c.trace("duplicate conversion ignored", slog.String("event_type", opts.EventType))
			recordEvent(ctx, span, string(kind), outcomeDuplicate)
			return
		}
	}

	p := payload.Conversion(opts, c.attribution(ctx))
	c.emit(kind, p)

	if err := c.dedupe.Record(ctx, c.session.SessionID, opts.EventType, p.ConversionRef); err != nil {
		c.logger.Warn("failed to record conversion", slog.String("error", err.Error()))
	}

	recordEvent(ctx, span, string(kind), outcomeSent)
	c.trace("conversion tracked",
		slog.String("event_type", opts.EventType),
		slog.Float64("value", p.Value),
		slog.String("currency", p.Currency))
}

// CrawlPageData reports the page's metadata and product markup read from
// the HTML document r. Only a parse failure is returned.
func (c *Client) CrawlPageData(ctx context.Context, r io.Reader) error {
	defer c.recoverPanic("CrawlPageData")

	ctx, span := startSpan(ctx, "CrawlPageData")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready("CrawlPageData") {
		recordEvent(ctx, span, string(domain.EventCrawl), outcomeSkipped)
		return nil
	}

	c.trace("starting page data crawl")
	snapshot, err := crawl.Parse(r, c.page.Href())
	if err != nil {
		recordEvent(ctx, span, string(domain.EventCrawl), outcomeSkipped)
		return fmt.Errorf("crawl page data: %w", err)
	}
	c.trace("page data crawled", slog.Int("products", len(snapshot.Products)))

	c.emit(domain.EventCrawl, snapshot)
	recordEvent(ctx, span, string(domain.EventCrawl), outcomeSent)
	return nil
}

// Status returns the SDK version and a copy of the session.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Version:     domain.SDKVersion,
		Config:      c.session,
		SessionID:   c.session.SessionID,
		Initialized: c.initialized,
	}
}

// SaveReferralParams writes params to both storage media.
func (c *Client) SaveReferralParams(ctx context.Context, params domain.ReferralParams) {
	defer c.recoverPanic("SaveReferralParams")
	c.referrals.Save(ctx, params.Record())
}

// GetReferralParams returns the stored attribution record, empty when none.
func (c *Client) GetReferralParams(ctx context.Context) domain.AttributionRecord {
	defer c.recoverPanic("GetReferralParams")
	return c.referrals.Load(ctx)
}

// ClearReferralParams removes the stored record from both media.
func (c *Client) ClearReferralParams(ctx context.Context) {
	defer c.recoverPanic("ClearReferralParams")
	c.referrals.Clear(ctx)
}

// SyncReferralStorage copies the stored record into a medium that lost it.
func (c *Client) SyncReferralStorage(ctx context.Context) {
	defer c.recoverPanic("SyncReferralStorage")
	c.referrals.Reconcile(ctx)
}

// Close waits for in-flight events, then closes storage.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()

	if t != nil {
		if err := t.Wait(ctx); err != nil {
			return fmt.Errorf("wait for in-flight events: %w", err)
		}
	}
	if err := c.storage.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// attribution snapshots the sources identifiers resolve from. Caller holds c.mu.
func (c *Client) attribution(ctx context.Context) attribution.Context {
	return attribution.Context{
		Session:   c.session,
		Persisted: c.referrals.Load(ctx),
		Query:     c.page,
	}
}

// emit hands an event to the transport. Caller holds c.mu.
func (c *Client) emit(kind domain.EventKind, p any) {
	c.transport.Dispatch(domain.Envelope{
		Kind:       kind,
		Endpoint:   c.session.APIEndpoint,
		CampaignID: c.session.CampaignID,
		BrandID:    c.session.BrandID,
		Token:      c.session.Token,
		Payload:    p,
	})
}

// ready reports whether Init has run. Caller holds c.mu.
func (c *Client) ready(op string) bool {
	if !c.initialized {
		c.logger.Warn("client not initialized", slog.String("operation", op))
		return false
	}
	return true
}

// trace logs SDK progress when the session has debug enabled.
func (c *Client) trace(msg string, attrs ...any) {
	if !c.session.Debug {
		return
	}
	c.logger.Debug(msg, attrs...)
}

func (c *Client) recoverPanic(op string) {
	if r := recover(); r != nil {
		c.logger.Error("tracking call panicked",
			slog.String("operation", op),
			slog.String("panic", fmt.Sprint(r)))
	}
}
