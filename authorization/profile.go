package authorization

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Profile identifies the signed in user
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// ProfileFetcher reads the userinfo endpoint advertised by the issuer's discovery document
type ProfileFetcher struct {
	provider *oidc.Provider
}

func NewProfileFetcher(ctx context.Context, issuer string) (*ProfileFetcher, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[authorization NewProfileFetcher] failed to create OIDC provider: %w", err)
	}
	return &ProfileFetcher{provider: provider}, nil
}

func (p *ProfileFetcher) Fetch(ctx context.Context, cred Credential) (Profile, error) {
	info, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(cred.Token()))
	if err != nil {
		return Profile{}, fmt.Errorf("[ProfileFetcher Fetch] userinfo: %w", err)
	}

	var claims struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := info.Claims(&claims); err != nil {
		return Profile{}, fmt.Errorf("[ProfileFetcher Fetch] failed to extract claims: %w", err)
	}

	return Profile{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
