package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the authorization scheme prefix, including the trailing space.
	BearerScheme = "Bearer "

	// ReturnURLParam is the query parameter a guard attaches when it sends
	// an anonymous user to the login screen.
	ReturnURLParam = "returnUrl"
)
