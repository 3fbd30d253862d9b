// Package transport sends signed requests to the meeting platform REST API.
//
// The [Transport] interface is what every API client depends on. [HTTP] is
// the production implementation: it marshals JSON bodies, adds the platform's
// authentication headers and maps HTTP failures onto the structured error
// codes of [github.com/matzehuels/meetingkit/pkg/errors]:
//
//	401          UNAUTHORIZED
//	403          FORBIDDEN
//	404          NOT_FOUND
//	429          RATE_LIMITED (wrapping *errors.RateLimitedError)
//	other >= 400 API_ERROR
//	dial/read    NETWORK_ERROR
//	deadline     TIMEOUT
//
// Each request is attempted exactly once.
//
// # Authentication
//
// With auth type "jwt" every request carries X-TC-Key, X-TC-Timestamp,
// X-TC-Nonce and X-TC-Signature, where the signature is computed by [Sign].
// With "oauth2" the access token and operator id are sent instead.
package transport
