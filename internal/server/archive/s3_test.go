package archive

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestGetStorageKey_Format(t *testing.T) {
	key := GetStorageKey()
	assert.Regexp(t, regexp.MustCompile(`^invoices/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.pdf$`), key)
}

func TestStore_Success(t *testing.T) {
	fake := &fakePutObject{}
	a := &S3Archive{client: fake, bucket: "invoices"}

	key, err := a.Store(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	require.NotNil(t, fake.input)
	assert.Equal(t, "invoices", *fake.input.Bucket)
	assert.Equal(t, key, *fake.input.Key)

	body, err := io.ReadAll(fake.input.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), body)
}

func TestStore_Error(t *testing.T) {
	fake := &fakePutObject{err: errors.New("denied")}
	a := &S3Archive{client: fake, bucket: "invoices"}

	_, err := a.Store(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 error")
}
