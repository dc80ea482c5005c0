package config

import "time"

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Birthday-Feed/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName = "Birthday Feed"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion    = "version"
	FlagDebug      = "debug"
	FlagPort       = "port"
	FlagSourceMode = "source-mode"
	FlagSourcePath = "source-path"
	FlagSourceURL  = "source-url"
	FlagSourceUser = "source-user"
	FlagCardDAV    = "carddav"
	FlagLanguage   = "lang"
	FlagCacheTTL   = "cache-ttl"
	FlagRemEnabled = "reminder"
	FlagRemValue   = "reminder-value"
	FlagRemUnit    = "reminder-unit"
	FlagRemDir     = "reminder-direction"

	DescVersion    = "Show application version and exit"
	DescDebug      = "Enable debug logging"
	DescPort       = "HTTP listen port"
	DescSourceMode = "Contact source mode: web or local"
	DescSourcePath = "Path to a local .vcf file (local mode)"
	DescSourceURL  = "Address book URL (web mode)"
	DescSourceUser = "HTTP Basic Auth username (web mode)"
	DescCardDAV    = "Query the source with a CardDAV addressbook-query REPORT"
	DescLanguage   = "Feed language (ISO 639-1)"
	DescCacheTTL   = "Feed cache TTL in seconds (0 disables caching)"
	DescRemEnabled = "Attach a reminder to every event"
	DescRemValue   = "Reminder offset value"
	DescRemUnit    = "Reminder offset unit: d, h or m"
	DescRemDir     = "Reminder direction: before or after"

	MsgVersionOut = "%s version %s (commit %s, built %s, %s/%s)\n"

	// EnvSourcePass carries the source password so it never shows up in
	// process listings.
	EnvSourcePass = "BIRTHDAY_FEED_PASSWORD"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"

	DefaultPort     = "18080"
	DefaultLanguage = "en"
	DefaultCacheTTL = 3600 // seconds

	// DefaultLeapYear is the synthetic year assigned to year-less birthdays
	// (--MM-DD). It must be a leap year so that February 29 stays valid.
	DefaultLeapYear = 2000

	DefaultReminderValue = 1

	// UIDNamespace prefixes the display name before hashing so that record
	// identifiers cannot collide with other producers of the same calendar.
	UIDNamespace  = "birthday-feed-v1-"
	UIDHashLength = 16

	// CacheKeyPrefix namespaces pipeline entries inside the shared cache.
	CacheKeyPrefix  = "feed:"
	CacheKeyHashLen = 16
)

// ISO 8601 duration components for reminder triggers.
const (
	ISOPeriodPrefix = "P"
	ISOTimePrefix   = "PT"
	ISONegativeSign = "-"
	ISODay          = "D"
	ISOHour         = "H"
	ISOMinute       = "M"
)

// Reminder units and directions.
const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion     = "2.0"
	ICalProdid      = "-//Birthday Feed//Engine//EN"
	ICalCalName     = "Birthdays"
	ICalMethod      = "PUBLISH"
	ICalScale       = "GREGORIAN"
	ICalComponent   = "VALARM"
	ICalAction      = "DISPLAY"
	ICalTransparent = "TRANSPARENT"
	ICalDomain      = "birthdayfeed"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropTransp      = "TRANSP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// CardDAV
// -----------------------------------------------------------------------------

const (
	MethodReport      = "REPORT"
	HeaderDepth       = "Depth"
	DepthMembers      = "1"
	TagMultistatus    = "multistatus"
	TagAddressData    = "address-data"
	FragmentSeparator = "\n"

	// AddressbookQueryBody asks the server for the raw vCard payload of every
	// member of the collection.
	AddressbookQueryBody = `<?xml version="1.0" encoding="utf-8"?>` +
		`<card:addressbook-query xmlns:d="DAV:" xmlns:card="urn:ietf:params:xml:ns:carddav">` +
		`<d:prop><card:address-data/></d:prop>` +
		`</card:addressbook-query>`
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields (date part only, any
	// time-of-day suffix is stripped beforehand).
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// TimeSeparator starts the time-of-day part of a vCard date-time value.
	TimeSeparator = "T"

	FormatUID = "%s-%d@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteFeed           = "/"
	RouteMetrics        = "/metrics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderContentDisp     = "Content-Disposition"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar = "text/calendar; charset=utf-8"
	MimeXML          = "application/xml; charset=utf-8"
	MimeNoSniff      = "nosniff"

	AttachmentICS       = `attachment; filename="birthdays.ics"`
	CacheControlMaxAge  = "private, max-age=%d"
	CacheControlNoStore = "no-store"

	// FormatETag expects a hex digest argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyUnknownContact  = "unknown_contact"
	TKeyEvtSummary      = "event_summary"       // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age (plural)
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (for age 0)
	TKeySyncFailed      = "err_sync_failed"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrMultistatus    = "malformed multi-status response"
	ErrNoFragments    = "empty multi-status response"
	ErrSourceRead     = "contact source unavailable"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Birthday: %s"
	FallbackName    = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events
	// are found, so clients never flag an empty feed as invalid.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted   = "Feed build started"
	MsgSyncFailed    = "Feed build failed"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgGenSuccess    = "Calendar generation successful"
	MsgCacheHit      = "Serving feed from cache"
	MsgNotModified   = "Client copy is current"
	MsgCacheStored   = "Feed stored in cache"
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgFetchStart    = "Initiating contact download"
	MsgFetchStatus   = "Server returned error status"
	MsgFetchBody     = "Contacts downloading"
	MsgReportStart   = "Issuing addressbook-query REPORT"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCacheKey  = "cache_key"
	LogKeyTTL       = "ttl_seconds"
	LogKeyDuration  = "duration_ms"
	LogKeyFragments = "fragments"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompFeed    = "feed"
	CompMain    = "main"
	CompI18n    = "i18n"
)
