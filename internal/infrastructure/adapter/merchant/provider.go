package merchant

import (
	"context"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	"github.com/slikapay/payment-engine/internal/domain/port/core"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
)

// ConfigProvider resolves merchant profiles from static configuration.
// Single-tenant deployments configure one default profile; multi-tenant
// ones add per-owner overrides on top of it.
type ConfigProvider struct {
	defaultProfile *entity.MerchantProfile
	profiles       map[string]entity.MerchantProfile
	logger         core.Logger
}

// NewConfigProvider builds a provider from the configured profiles.
// defaultProfile may be nil when every owner has an explicit entry.
func NewConfigProvider(
	defaultProfile *entity.MerchantProfile,
	profiles map[string]entity.MerchantProfile,
	logger core.Logger,
) gwport.MerchantProvider {
	if profiles == nil {
		profiles = map[string]entity.MerchantProfile{}
	}
	return &ConfigProvider{
		defaultProfile: defaultProfile,
		profiles:       profiles,
		logger:         logger,
	}
}

// ProfileFor returns the owner's profile, falling back to the default one
func (p *ConfigProvider) ProfileFor(_ context.Context, ownerID string) (*entity.MerchantProfile, error) {
	if ownerID == "" {
		return nil, errs.ErrUnauthorized
	}

	if profile, ok := p.profiles[ownerID]; ok {
		profile.OwnerID = ownerID
		return &profile, nil
	}

	if p.defaultProfile != nil {
		profile := *p.defaultProfile
		profile.OwnerID = ownerID
		return &profile, nil
	}

	p.logger.Warn("No merchant profile configured for owner", map[string]any{
		"owner_id": ownerID,
	})
	return nil, errs.ErrMerchantNotFound
}
