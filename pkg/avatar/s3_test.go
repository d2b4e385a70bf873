package avatar

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Client is a mock implementation of S3Client.
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Store_Set(t *testing.T) {
	t.Parallel()

	t.Run("uploads under key prefix", func(t *testing.T) {
		t.Parallel()

		client := &MockS3Client{}
		var captured *s3.PutObjectInput
		client.On("PutObject", mock.Anything, mock.AnythingOfType("*s3.PutObjectInput")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*s3.PutObjectInput) }).
			Return(&s3.PutObjectOutput{}, nil)

		store, err := NewS3Store(context.Background(),
			S3Config{Bucket: "avatars", Region: "us-east-1", KeyPrefix: "avatars/"},
			WithS3Client(client),
		)
		require.NoError(t, err)

		image := []byte("\x89PNG\r\n\x1a\nimagedata")
		require.NoError(t, store.Set(context.Background(), "google-1", image))

		require.NotNil(t, captured)
		assert.Equal(t, "avatars", *captured.Bucket)
		assert.Equal(t, "avatars/google-1", *captured.Key)
		assert.Equal(t, "image/png", *captured.ContentType)

		body, err := io.ReadAll(captured.Body)
		require.NoError(t, err)
		assert.Equal(t, image, body)

		client.AssertExpectations(t)
	})

	t.Run("missing bucket rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
