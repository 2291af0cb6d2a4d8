package discount

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLoader struct {
	loadFunc func(ctx context.Context, path string) (CodeSet, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) (CodeSet, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

type fakeObjectGetter struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeObjectGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.keys = append(f.keys, *in.Key)
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func gzipped(t *testing.T, lines ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, l := range lines {
		_, err := gz.Write([]byte(l + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func setOf(codes ...string) CodeSet {
	s := NewMapCodeSet(len(codes)).(*mapCodeSet)
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

func TestS3Loader_Load(t *testing.T) {
	client := &fakeObjectGetter{objects: map[string][]byte{
		"discounts/diwali.gz": gzipped(t, "DIWALI25", "festive10"),
	}}
	loader := NewS3LoaderWithClient(client, "codes-bucket", zerolog.Nop())

	set, err := loader.Load(context.Background(), "discounts/diwali.gz")

	require.NoError(t, err)
	assert.Equal(t, []string{"DIWALI25", "FESTIVE10"}, set.Codes())
	assert.Equal(t, []string{"discounts/diwali.gz"}, client.keys)
}

func TestS3Loader_MissingObject(t *testing.T) {
	loader := NewS3LoaderWithClient(&fakeObjectGetter{}, "codes-bucket", zerolog.Nop())

	_, err := loader.Load(context.Background(), "discounts/none.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket=codes-bucket")
}

func TestFallbackLoader_S3Success(t *testing.T) {
	remote := &mockLoader{loadFunc: func(_ context.Context, path string) (CodeSet, error) {
		assert.Equal(t, "discounts/test.gz", path)
		return setOf("S3CODE1"), nil
	}}
	local := &mockLoader{loadFunc: func(context.Context, string) (CodeSet, error) {
		t.Error("file loader should not be called when S3 succeeds")
		return nil, errors.New("unexpected")
	}}

	set, err := NewFallbackLoader(remote, local, "discounts/", true, zerolog.Nop()).Load(context.Background(), "test.gz")

	require.NoError(t, err)
	assert.True(t, set.Contains("S3CODE1"))
}

func TestFallbackLoader_S3FailureFallsBack(t *testing.T) {
	remote := &mockLoader{loadFunc: func(context.Context, string) (CodeSet, error) {
		return nil, errors.New("connection refused")
	}}
	local := &mockLoader{loadFunc: func(_ context.Context, path string) (CodeSet, error) {
		assert.Equal(t, "test.gz", path)
		return setOf("LOCAL1"), nil
	}}

	set, err := NewFallbackLoader(remote, local, "discounts/", true, zerolog.Nop()).Load(context.Background(), "test.gz")

	require.NoError(t, err)
	assert.True(t, set.Contains("LOCAL1"))
}

func TestFallbackLoader_S3Disabled(t *testing.T) {
	remote := &mockLoader{loadFunc: func(context.Context, string) (CodeSet, error) {
		t.Error("S3 loader should not be called when disabled")
		return nil, errors.New("unexpected")
	}}
	local := &mockLoader{loadFunc: func(context.Context, string) (CodeSet, error) {
		return setOf("LOCAL1"), nil
	}}

	for _, loader := range []Loader{
		NewFallbackLoader(remote, local, "discounts/", false, zerolog.Nop()),
		NewFallbackLoader(nil, local, "discounts/", true, zerolog.Nop()),
	} {
		set, err := loader.Load(context.Background(), "test.gz")
		require.NoError(t, err)
		assert.Equal(t, 1, set.Size())
	}
}
