package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// newTokenSource builds a caching token source that exchanges the stored
// long-lived refresh token for short-lived bearer tokens. ReuseTokenSource
// keeps the current token until it expires, so concurrent requests do not
// hammer the token endpoint.
func newTokenSource(clientID, clientSecret, tokenURL, refreshToken string) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// Bound the token exchange itself; request contexts only bound the
	// ideas calls.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Timeout: 15 * time.Second,
	})

	return oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
	}))
}

// accessToken returns a valid bearer token, refreshing if needed. Token
// endpoint rejections classify as ErrAuthExpired so callers know to prompt
// re-authentication instead of retrying.
func (c *Client) accessToken() (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return "", classifyTokenError(err)
	}
	return tok.AccessToken, nil
}

func classifyTokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch re.ErrorCode {
		case "invalid_grant", "invalid_client", "unauthorized_client":
			return fmt.Errorf("%w: %s", ErrAuthExpired, re.ErrorCode)
		}
		if re.Response != nil &&
			(re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized) {
			return fmt.Errorf("%w: token endpoint returned %d", ErrAuthExpired, re.Response.StatusCode)
		}
	}
	return fmt.Errorf("%w: token exchange failed: %v", ErrUnavailable, err)
}
