package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 7, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "recipes/2024/03/08/abc.json", ObjectKey("abc", at))
}

func TestPutUploadsJSON(t *testing.T) {
	client := &fakeS3{}
	a := NewS3Archiver(client, "recipes-bucket")
	a.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	err := a.Put(context.Background(), "k1", types.Recipe{"name": "Soup"})
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "recipes-bucket", aws.ToString(client.input.Bucket))
	assert.Equal(t, "recipes/2024/05/01/k1.json", aws.ToString(client.input.Key))
	assert.Equal(t, "application/json", aws.ToString(client.input.ContentType))
	assert.JSONEq(t, `{"name":"Soup"}`, string(client.body))
}

func TestPutWrapsError(t *testing.T) {
	client := &fakeS3{err: errors.New("access denied")}
	a := NewS3Archiver(client, "b")

	err := a.Put(context.Background(), "k", types.Recipe{"name": "x"})
	assert.ErrorContains(t, err, "access denied")
}
