package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "settings:payroll:c1", PayrollConfigKey("c1"))
	assert.Equal(t, "settings:attendance-rules:c1", RulesConfigKey("c1"))
}

// Runs against a live redis when TEST_REDIS_ADDR is set.
func TestSettingsCache_Live(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, addr, "", 15)
	require.NoError(t, err)
	defer client.Close()

	companyID := "cache-test-" + time.Now().Format("150405.000000")
	cache := NewSettingsCache(client, time.Minute)
	defer client.Del(ctx, PayrollConfigKey(companyID), RulesConfigKey(companyID))

	_, found, err := cache.GetPayrollConfig(ctx, companyID)
	require.NoError(t, err)
	assert.False(t, found)

	cfg := payroll.PayrollConfig{ID: "cfg-1", CompanyID: companyID, IncomeTaxRate: 25, OvertimeMultiplier: 1.5}
	require.NoError(t, cache.SetPayrollConfig(ctx, cfg))
	got, found, err := cache.GetPayrollConfig(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cfg, got)

	rules := attendance.DefaultRulesConfig()
	rules.CompanyID = companyID
	require.NoError(t, cache.SetRulesConfig(ctx, rules))
	gotRules, found, err := cache.GetRulesConfig(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rules, gotRules)

	require.NoError(t, client.Set(ctx, PayrollConfigKey(companyID), "not json", time.Minute).Err())
	_, found, err = cache.GetPayrollConfig(ctx, companyID)
	require.NoError(t, err)
	assert.False(t, found)
}
