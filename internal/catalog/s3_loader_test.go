package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"prolens/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves gzipped objects from memory.
type fakeS3 struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func gzipLines(t *testing.T, lines ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	for _, line := range lines {
		_, err := gw.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestS3Loader_Load(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"seed-bucket/catalog/lenses.gz": gzipLines(t, lensLine),
	}}
	loader := NewS3LoaderWithClient(client, "seed-bucket", zerolog.Nop())

	entries, err := loader.Load(context.Background(), "catalog/lenses.gz")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.CategoryLenses, entries[0].Category)

	_, err = loader.Load(context.Background(), "catalog/missing.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket=seed-bucket, key=catalog/missing.gz")
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, filePath string) ([]model.ProductRequest, error)
}

func (m *mockLoader) Load(ctx context.Context, filePath string) ([]model.ProductRequest, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, filePath)
	}
	return nil, errors.New("not implemented")
}

func TestFallbackLoader(t *testing.T) {
	s3Entries := []model.ProductRequest{{Name: "from-s3"}}
	localEntries := []model.ProductRequest{{Name: "from-disk"}}

	tests := []struct {
		name      string
		s3Enabled bool
		s3Nil     bool
		s3Err     error
		localErr  error
		want      string
		expectErr bool
	}{
		{name: "S3 success", s3Enabled: true, want: "from-s3"},
		{name: "S3 fails falls back", s3Enabled: true, s3Err: errors.New("S3 connection failed"), want: "from-disk"},
		{name: "S3 disabled", s3Enabled: false, want: "from-disk"},
		{name: "S3 loader nil", s3Enabled: true, s3Nil: true, want: "from-disk"},
		{name: "both fail", s3Enabled: true, s3Err: errors.New("S3 error"), localErr: errors.New("file not found"), expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s3Loader Loader
			if !tt.s3Nil {
				s3Loader = &mockLoader{loadFunc: func(ctx context.Context, key string) ([]model.ProductRequest, error) {
					if !tt.s3Enabled {
						t.Error("S3 loader should not be called when S3 is disabled")
					}
					assert.Equal(t, "catalog/seed.gz", key, "S3 key should have prefix")
					return s3Entries, tt.s3Err
				}}
			}
			fileLoader := &mockLoader{loadFunc: func(ctx context.Context, path string) ([]model.ProductRequest, error) {
				assert.Equal(t, "seed.gz", path, "local file path should not have prefix")
				return localEntries, tt.localErr
			}}

			fallback := NewFallbackLoader(s3Loader, fileLoader, "catalog/", tt.s3Enabled, zerolog.Nop())
			entries, err := fallback.Load(context.Background(), "seed.gz")

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "file not found")
				return
			}
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Name)
		})
	}
}
