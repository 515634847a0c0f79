package constants

// AuthTokenCookieName is the cookie fallback for browser clients that do not
// attach an Authorization header.
const AuthTokenCookieName = "auth_token"
