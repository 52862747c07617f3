// Package auth resolves the session cookies the renderer needs to see
// logged-in profile pages. Cookies come from explicit values, environment
// variables, or browser cookie stores, tried in that order.
package auth

import "context"

// Cookie domain and the session cookies worth forwarding.
const Domain = "x.com"

var essentialCookies = []string{"auth_token", "ct0", "kdt", "twid", "att"}

// Source yields session cookies, or nil when it has none to offer.
type Source interface {
	Cookies(ctx context.Context) (map[string]string, error)
}

// Chain returns cookies from the first source that provides any. A source
// error aborts the chain; an empty result just moves to the next source.
func Chain(ctx context.Context, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}
