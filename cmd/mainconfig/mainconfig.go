package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/keva-agency/keva-site/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so the API server and the
// lambda share the same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	return config.LoadDefaultConfig(ctx, loaders...)
}

// NewSESClient builds an SES v2 client, pointing it at AWS_ENDPOINT_OVERRIDE
// when one is set (LocalStack).
func NewSESClient(awsCfg aws.Config, cfg *appconfig.Config) *sesv2.Client {
	endpoint := strings.TrimSpace(cfg.AWSEndpointOverride)
	return sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
