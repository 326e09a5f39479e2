// Package http exposes the credential verifier as a REST API.
//
// Routes are registered on a chi router by [Handler.Init]. Every request gets
// a trace id and an access log line; ceremony endpoints are rate limited per
// client address; credential management and registration endpoints require
// a bearer access token issued by the session manager.
package http
