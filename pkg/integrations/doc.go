// Package integrations provides the shared HTTP client used by remote API
// clients.
//
// [Client] wraps net/http with default headers, cache-aside lookups through
// a [cache.Cache] backend, retry with backoff for transient failures, and
// status mapping:
//
//   - 2xx: success
//   - 404: [ErrNotFound]
//   - 403, 429: RATE_LIMITED (see errors.RateLimitedError)
//   - 5xx and transport errors: [ErrNetwork], retried
//
// API-specific clients live in subpackages, such as [github].
//
// [github]: github.com/matzehuels/rustprint/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/rustprint/pkg/cache.Cache
package integrations
