// Package api exposes rustprint analysis over HTTP.
//
// # Routes
//
//	GET  /healthz                          liveness check
//	POST /v1/analyze?name=<file>           analyze the raw request body
//	GET  /v1/reports/{sha256}              fetch a stored report
//	GET  /v1/toolchains/{hash}/reports     reports built by one rustc commit
//
// Errors are returned as {"code": "...", "message": "..."} using the codes
// from the errors package, with the HTTP status derived from the code.
package api
