package apierror

// Error type URIs following the urn:somnus:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:somnus:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:somnus:error:not_found"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:somnus:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:somnus:error:unauthorized"

	// TypeMalformedClock indicates a bedtime/wake-time string that does
	// not parse as HH[:MM] (400)
	TypeMalformedClock = "urn:somnus:error:malformed_clock"

	// TypeSyncFailed indicates the wearable-sync collaborator rejected
	// the request and no fallback applied (502)
	TypeSyncFailed = "urn:somnus:error:sync_failed"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:somnus:error:internal"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:somnus:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation     = "Validation Error"
	TitleNotFound       = "Resource Not Found"
	TitleRateLimit      = "Rate Limit Exceeded"
	TitleUnauthorized   = "Authentication Required"
	TitleMalformedClock = "Malformed Clock Value"
	TitleSyncFailed     = "Wearable Sync Failed"
	TitleInternal       = "Internal Server Error"
	TitleBadRequest     = "Bad Request"
)
