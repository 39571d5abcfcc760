package aws

import (
	"context"
	"testing"

	"attendance.service/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAWSConfig_LocalDev(t *testing.T) {
	cfg, err := NewAWSConfig(context.Background(), config.Config{
		IsLocalDev:  true,
		AWSRegion:   "ap-northeast-1",
		AWSEndpoint: "http://localstack:4566",
	})
	require.NoError(t, err)

	assert.Equal(t, "ap-northeast-1", cfg.Region)
	assert.Equal(t, "http://localstack:4566", aws.ToString(cfg.BaseEndpoint))

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
}

func TestLoadOptions_Production(t *testing.T) {
	opts := loadOptions(config.Config{AWSRegion: "us-east-1", AWSEndpoint: "http://ignored"})
	assert.Len(t, opts, 1)
}
