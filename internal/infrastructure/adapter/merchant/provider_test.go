package merchant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/logger"
)

var _ gwport.MerchantProvider = (*ConfigProvider)(nil)

func TestProfileFor_ExplicitProfileWins(t *testing.T) {
	defaultProfile := &entity.MerchantProfile{MerchantID: "DEFAULT", Currency: "ILS"}
	provider := NewConfigProvider(defaultProfile, map[string]entity.MerchantProfile{
		"owner-1": {MerchantID: "M1", TerminalID: "T1", Currency: "USD"},
	}, logger.NewNoopLogger())

	profile, err := provider.ProfileFor(context.Background(), "owner-1")

	require.NoError(t, err)
	assert.Equal(t, "M1", profile.MerchantID)
	assert.Equal(t, "owner-1", profile.OwnerID)
	assert.Equal(t, "USD", profile.Currency)
}

func TestProfileFor_FallsBackToDefault(t *testing.T) {
	defaultProfile := &entity.MerchantProfile{MerchantID: "DEFAULT", Currency: "ILS"}
	provider := NewConfigProvider(defaultProfile, nil, logger.NewNoopLogger())

	profile, err := provider.ProfileFor(context.Background(), "owner-2")

	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", profile.MerchantID)
	assert.Equal(t, "owner-2", profile.OwnerID)
}

func TestProfileFor_NoProfileConfigured(t *testing.T) {
	provider := NewConfigProvider(nil, nil, logger.NewNoopLogger())

	_, err := provider.ProfileFor(context.Background(), "owner-3")

	assert.ErrorIs(t, err, errs.ErrMerchantNotFound)
}

func TestProfileFor_EmptyOwnerRejected(t *testing.T) {
	defaultProfile := &entity.MerchantProfile{MerchantID: "DEFAULT"}
	provider := NewConfigProvider(defaultProfile, nil, logger.NewNoopLogger())

	_, err := provider.ProfileFor(context.Background(), "")

	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
