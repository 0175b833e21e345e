package config

const (
	HCType           = "Content-Type"
	HETag            = "ETag"
	HIfNoneMatch     = "If-None-Match"
	HCacheControl    = "Cache-Control"
	HAccept          = "Accept"
	HAcceptEncoding  = "Accept-Encoding"
	HContentEncoding = "Content-Encoding"
	HUserAgent       = "User-Agent"
	HRequestID       = "X-Request-Id"
	HVary            = "Vary"

	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
	HTTPErrNotFound         = "Post not found"
	HTTPErrBadJSON          = "Malformed JSON body"
)
