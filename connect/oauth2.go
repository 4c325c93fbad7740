package connect

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

var _ ExchangeService = (*OAuth2ExchangeService)(nil)

// OAuth2ExchangeService exchanges authorization codes against the provider's
// token endpoint and records the resulting connection. Provider rejections
// are folded into ExchangeResult per the {success,error} contract.
type OAuth2ExchangeService struct {
	cfg   *oauth2.Config
	store ConnectionStore
}

func NewOAuth2ExchangeService(cfg *oauth2.Config, store ConnectionStore) *OAuth2ExchangeService {
	return &OAuth2ExchangeService{cfg: cfg, store: store}
}

func (s *OAuth2ExchangeService) Exchange(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
	cfg := *s.cfg
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return ExchangeResult{Success: false, Error: err.Error()}, nil
	}
	orgID, _ := tok.Extra("organization_id").(string)
	if orgID == "" {
		// some providers report the tenant under a different key
		orgID, _ = tok.Extra("tenant_id").(string)
	}
	if orgID == "" {
		return ExchangeResult{Success: false, Error: "token response missing organization id"}, nil
	}
	if err := s.store.Put(ctx, ConnectionRecord{
		UserID:         userID,
		OrganizationID: orgID,
		ConnectedAt:    time.Now().UTC(),
	}); err != nil {
		return ExchangeResult{}, err
	}
	return ExchangeResult{Success: true}, nil
}
