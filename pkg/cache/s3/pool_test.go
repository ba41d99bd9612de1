package s3

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/cache/cachetest"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{name: "endpoint", cfg: Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}, field: "s3.endpoint"},
		{name: "credentials", cfg: Config{Endpoint: "localhost:9000", Bucket: "b"}, field: "s3.accessKey"},
		{name: "bucket", cfg: Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, field: "s3.bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			var ve *cache.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestPool_ObjectNames(t *testing.T) {
	p, err := New(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b", Prefix: "mock/"})
	require.NoError(t, err)
	assert.Equal(t, "mock/900150983cd24fb0d6963f7d28e17f72", p.object("abc"))
}

func TestPool_Conformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "mockrr",
				"MINIO_ROOT_PASSWORD": "mockrr-secret",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
		},
		Started: true,
	}
	container, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "")
	require.NoError(t, err)

	n := 0
	cachetest.Run(t, func(t *testing.T) cache.Pool {
		n++
		p, err := New(Config{
			Endpoint:  endpoint,
			AccessKey: "mockrr",
			SecretKey: "mockrr-secret",
			Bucket:    "mockrr",
			Prefix:    fmt.Sprintf("run-%d/", n),
		})
		require.NoError(t, err)
		return p
	})
}
