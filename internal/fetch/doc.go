// Package fetch performs the HTTP side of a build: downloading the
// avatar image and, when the input is a URL instead of a saved file,
// fetching the profile page itself.
//
// Every fetch is a single blocking attempt. A build either succeeds or
// fails as a whole, so there are no retries and no backoff.
package fetch
