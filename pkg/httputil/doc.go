// Package httputil holds retry helpers for outgoing HTTP requests.
//
// Transport failures, 5xx responses and 429 responses are wrapped in
// [RetryableError] by the client that sees them; [Retry] repeats only those,
// with exponential backoff:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err = client.get(ctx, url)
//	    return err
//	})
//
// Everything else, such as a 404, fails on the first attempt.
package httputil
