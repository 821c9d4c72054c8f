package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3 struct {
	mock.Mock
}

func (m *MockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(params)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestImageKey(t *testing.T) {
	id := uuid.MustParse("6f1c1c8e-2b53-4a43-9a5e-1f2b3c4d5e6f")
	at := time.Date(2025, 3, 7, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "images/agrosat-1/2025/03/07/6f1c1c8e-2b53-4a43-9a5e-1f2b3c4d5e6f.tif",
		ImageKey("agrosat-1", id, at, "field.TIF", "image/tiff"))
	assert.Equal(t, "images/agrosat-1/2025/03/07/6f1c1c8e-2b53-4a43-9a5e-1f2b3c4d5e6f.jpg",
		ImageKey("agrosat-1", id, at, "", "image/jpeg"))
	assert.Equal(t, "images/agrosat-1/2025/03/07/6f1c1c8e-2b53-4a43-9a5e-1f2b3c4d5e6f.png",
		ImageKey("agrosat-1", id, at, "capture", "image/png"))
}

func TestS3Store_PutGetDelete(t *testing.T) {
	client := new(MockS3)
	store := NewS3Store(client, "gs-images")

	client.On("PutObject", mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "gs-images" && aws.ToString(in.Key) == "k" &&
			aws.ToString(in.ContentType) == "image/png" && aws.ToInt64(in.ContentLength) == 3
	})).Return(&s3.PutObjectOutput{}, nil)
	require.NoError(t, store.Put(context.Background(), "k", "image/png", bytes.NewReader([]byte("abc")), 3))

	client.On("GetObject", mock.Anything).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("abc"))}, nil).Once()
	body, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	assert.Equal(t, "abc", string(data))

	client.On("DeleteObject", mock.Anything).Return(&s3.DeleteObjectOutput{}, nil)
	assert.NoError(t, store.Delete(context.Background(), "k"))

	client.AssertExpectations(t)
}

func TestS3Store_GetNotFound(t *testing.T) {
	client := new(MockS3)
	store := NewS3Store(client, "gs-images")

	client.On("GetObject", mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"})
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
