// Package marketin provides the public API for embedding the MarketIn
// attribution client. This is the stable API for external consumers.
package marketin

import (
	"github.com/tjfontaine/marketin-sdk-go/internal/cookie"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/page"
	"github.com/tjfontaine/marketin-sdk-go/internal/runtime"
)

// Version is the SDK version reported to the collection endpoint.
const Version = domain.SDKVersion

// Client is one tracking session for one page.
// See internal/runtime.Client for full documentation.
type Client = runtime.Client

// Option is a functional option for configuring a Client.
type Option = runtime.Option

// Status is a snapshot of the client state.
type Status = runtime.Status

// Tracking inputs.
type (
	InitOptions       = domain.InitOptions
	PageViewOptions   = domain.PageViewOptions
	ClickOptions      = domain.ClickOptions
	ConversionOptions = domain.ConversionOptions
	ReferralParams    = domain.ReferralParams
	AttributionRecord = domain.AttributionRecord
	CartItem          = domain.CartItem
	ID                = domain.ID
	Number            = domain.Number
)

// StaticPage describes a page without an HTTP request behind it.
type StaticPage = page.Static

// CookieJar is the in-memory cookie medium.
type CookieJar = cookie.Jar

// New creates a new Client with the given options.
// Example:
//
//	c, err := marketin.New(
//	    marketin.WithSQLite("./profile.db"),
//	    marketin.WithPage(marketin.StaticPage{Location: "https://shop.example/?aid=1&cid=2"}),
//	)
//	c.Init(ctx, marketin.InitOptions{BrandID: "brand"})
var New = runtime.New

// Configuration options
var (
	// Storage
	WithSQLite          = runtime.WithSQLite
	WithDatabase        = runtime.WithDatabase
	WithMemoryStorage   = runtime.WithMemoryStorage
	WithStorageProvider = runtime.WithStorageProvider

	// Page and transport
	WithPage       = runtime.WithPage
	WithTransport  = runtime.WithTransport
	WithHTTPClient = runtime.WithHTTPClient

	// Advanced options
	WithLogger = runtime.WithLogger
	WithClock  = runtime.WithClock
)

// Helpers for embedding the client in an HTTP handler.
var (
	// PageFromRequest describes the page behind an inbound request.
	PageFromRequest = page.FromRequest
	// CookiesFromRequest seeds a cookie jar from an inbound request.
	CookiesFromRequest = cookie.FromRequest
	// NewCookieJar creates an empty cookie jar.
	NewCookieJar = cookie.New
)

// N builds a Number from a float.
var N = domain.N
