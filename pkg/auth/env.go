package auth

import (
	"context"
	"os"
)

// envCookieVars maps environment variable names to cookie names.
var envCookieVars = map[string]string{
	"XSCRAPE_AUTH_TOKEN": "auth_token",
	"XSCRAPE_CT0":        "ct0",
	"XSCRAPE_TWID":       "twid",
	"XSCRAPE_KDT":        "kdt",
	"XSCRAPE_ATT":        "att",
}

// EnvSource reads session cookies from environment variables.
type EnvSource struct{}

// Cookies returns cookies from any XSCRAPE_* variables that are set.
func (EnvSource) Cookies(_ context.Context) (map[string]string, error) {
	cookies := make(map[string]string)
	for envVar, cookieName := range envCookieVars {
		if value := os.Getenv(envVar); value != "" {
			cookies[cookieName] = value
		}
	}
	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env vars set is not an error
	}
	return cookies, nil
}

// EnvVars returns the recognized environment variable names, for help text.
func EnvVars() []string {
	vars := make([]string, 0, len(envCookieVars))
	for envVar := range envCookieVars {
		vars = append(vars, envVar)
	}
	return vars
}
