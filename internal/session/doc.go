// Package session owns the client's bearer tokens.
//
// A Manager is the only code that reads or writes the access/refresh pair. It
// attaches the Authorization header to outbound portal calls and, when a call
// comes back 401, refreshes the access token at most once and retries the call
// at most once. Concurrent 401s share a single in-flight refresh.
//
// State moves Anonymous -> Authenticated on Login/Register/Restore and back to
// Anonymous on Logout or when the portal rejects the refresh token.
package session
