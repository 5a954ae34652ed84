package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctxWithLogger := WithContext(ctx, logger)

	retrievedLogger := FromContext(ctxWithLogger)
	assert.NotNil(t, retrievedLogger)
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)

	// Should return a no-op logger
	assert.NotNil(t, logger)
}

func TestWithJobID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	jobID := "daily-rebuild-2024-03-05"

	newCtx, newLogger := WithJobID(ctx, logger, jobID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, jobID, GetJobID(newCtx))
}

func TestWithTenantID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := "tenant-456"

	newCtx, newLogger := WithTenantID(ctx, logger, tenantID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, tenantID, GetTenantID(newCtx))
}

func TestWithCompanyID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	companyID := "company-789"

	newCtx, newLogger := WithCompanyID(ctx, logger, companyID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, companyID, GetCompanyID(newCtx))
}

func TestGetJobID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetJobID(ctx))
}

func TestGetTenantID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTenantID(ctx))
}

func TestGetCompanyID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCompanyID(ctx))
}

func TestContextChaining(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()

	// Chain multiple context enrichments
	ctx, logger = WithJobID(ctx, logger, "job-1")
	ctx, logger = WithTenantID(ctx, logger, "tenant-1")
	ctx, logger = WithCompanyID(ctx, logger, "company-1")

	assert.Equal(t, "job-1", GetJobID(ctx))
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "company-1", GetCompanyID(ctx))
	assert.NotNil(t, logger)
}

func TestContextKeys(t *testing.T) {
	// Verify context keys are unique
	assert.NotEqual(t, LoggerKey, JobIDKey)
	assert.NotEqual(t, JobIDKey, TenantIDKey)
	assert.NotEqual(t, TenantIDKey, CompanyIDKey)
	assert.NotEqual(t, LoggerKey, CompanyIDKey)
}

func TestL_CarriesCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	base := zap.New(core)

	ctx := context.Background()
	ctx, logger := WithJobID(ctx, base, "monthly-2024-03")
	ctx, _ = WithTenantID(ctx, logger, "tenant-9")

	L(ctx).Info("rebuild started")

	out := buf.String()
	assert.True(t, strings.Contains(out, "monthly-2024-03"))
	assert.True(t, strings.Contains(out, "tenant-9"))
	assert.True(t, strings.Contains(out, "rebuild started"))
}

func TestL_NoLoggerInContext(t *testing.T) {
	// Must not panic when the context carries no logger
	L(context.Background()).Info("ignored")
}
