package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthOpts configures [Authenticate].
type AuthOpts struct {
	TokenURL   string       // defaults to the Spotify accounts token endpoint
	HTTPClient *http.Client // defaults to [http.DefaultClient]
}

// Authenticate exchanges client credentials for an application access token.
func Authenticate(ctx context.Context, creds models.Credentials, opts AuthOpts) (*models.AccessToken, error) {
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyauth.TokenURL
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     opts.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}

	return &models.AccessToken{Token: token.AccessToken, Expiry: token.Expiry}, nil
}
