package avatar

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of S3 operations the avatar store uses.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config contains configuration for the S3 avatar store.
type S3Config struct {
	Bucket         string `env:"AVATAR_S3_BUCKET,required"`
	Region         string `env:"AVATAR_S3_REGION,required"`
	AccessKeyID    string `env:"AVATAR_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"AVATAR_S3_SECRET_KEY"`
	Endpoint       string `env:"AVATAR_S3_ENDPOINT"`         // Optional: for S3-compatible services
	KeyPrefix      string `env:"AVATAR_S3_KEY_PREFIX" envDefault:"avatars/"`
	ForcePathStyle bool   `env:"AVATAR_S3_FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}

// S3Store implements Store for Amazon S3 and S3-compatible services.
// It is safe for concurrent use.
type S3Store struct {
	client    S3Client
	bucket    string
	keyPrefix string
}

// S3Option configures an S3Store.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient *http.Client
	s3Client   S3Client
}

// WithS3Client sets a custom pre-configured S3 client.
// Useful for testing with mocks.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) { o.s3Client = client }
}

// WithS3HTTPClient sets a custom HTTP client for S3 requests.
func WithS3HTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) { o.httpClient = client }
}

// NewS3Store creates an avatar store writing to an S3 bucket.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}

	return &S3Store{client: client, bucket: cfg.Bucket, keyPrefix: keyPrefix}, nil
}

// Set uploads the image as the account's avatar object. Uploads for the same
// account overwrite each other; the newest avatar wins.
func (s *S3Store) Set(ctx context.Context, accountID string, image []byte) error {
	contentType := http.DetectContentType(image)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.keyPrefix + accountID),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put avatar object: %w", err)
	}
	return nil
}

// Compile-time interface assertion
var _ Store = (*S3Store)(nil)
