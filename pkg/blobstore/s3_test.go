package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/groovepush/pkg/errors"
)

type mockS3 struct {
	lock    sync.Mutex
	objects map[string][]byte
	failErr error
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (
	*s3.PutObjectOutput, error) {

	if m.failErr != nil {
		return nil, m.failErr
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (
	*s3.GetObjectOutput, error) {

	if m.failErr != nil {
		return nil, m.failErr
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	data, ok := m.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (
	*s3.HeadObjectOutput, error) {

	if m.failErr != nil {
		return nil, m.failErr
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	client := &mockS3{objects: map[string][]byte{}}
	store := NewS3StoreWithClient(client, "bucket", "backups/")

	_, err := store.Get(ctx, "song/state")
	assert.True(t, errors.Is(err, errors.BlobNotFound))

	exists, err := store.Exists(ctx, "song/state")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, "song/state", []byte("{}")))
	assert.Contains(t, client.objects, "bucket/backups/song/state")

	data, err := store.Get(ctx, "song/state")
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), data)

	exists, err = store.Exists(ctx, "song/state")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestS3StorePrefixIsDirectory(t *testing.T) {
	ctx := context.Background()
	client := &mockS3{objects: map[string][]byte{}}
	prefixed := NewS3StoreWithClient(client, "bucket", "team")
	unprefixed := NewS3StoreWithClient(client, "bucket", "")

	require.NoError(t, prefixed.Put(ctx, StateKey("song"), []byte("{}")))
	assert.Contains(t, client.objects, "bucket/team/song/state")

	_, err := unprefixed.Get(ctx, StateKey("teamsong"))
	assert.True(t, errors.Is(err, errors.BlobNotFound))

	data, err := NewS3StoreWithClient(client, "bucket", "/team/").Get(ctx, StateKey("song"))
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), data)
}

func TestPrefixedKey(t *testing.T) {
	tests := []struct {
		prefix, exp string
	}{
		{"", "song/state"},
		{"team", "team/song/state"},
		{"team/", "team/song/state"},
		{"/a/b/", "a/b/song/state"},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, prefixedKey(test.prefix, "song/state"), test.prefix)
	}
}

func TestS3StoreErrors(t *testing.T) {
	ctx := context.Background()
	client := &mockS3{
		objects: map[string][]byte{},
		failErr: &smithy.GenericAPIError{Code: "AccessDenied"},
	}
	store := NewS3StoreWithClient(client, "bucket", "")

	err := store.Put(ctx, "song/state", []byte("{}"))
	assert.True(t, errors.Is(err, errors.RemoteStoreError))

	_, err = store.Get(ctx, "song/state")
	assert.True(t, errors.Is(err, errors.RemoteStoreError))

	_, err = store.Exists(ctx, "song/state")
	assert.True(t, errors.Is(err, errors.RemoteStoreError))
}
