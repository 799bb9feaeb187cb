// Package httputil provides retry helpers for outbound HTTP calls.
//
// [Retry] re-runs an operation with exponential backoff, but only when the
// failure is wrapped in [RetryableError]. Registry clients wrap transport
// failures and 5xx responses that way; everything else (404, rate limits,
// decode errors) fails fast.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.Get(ctx, url, &page)
//	})
package httputil
