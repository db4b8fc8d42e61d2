package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alcyxob/fitness-planner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://s3.example.com", endpointURL("s3.example.com", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://localhost:9000", endpointURL("http://localhost:9000", true))
}

func TestS3PutObjectUsesPathStyle(t *testing.T) {
	var method, path, contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "transcripts-bucket",
	})
	require.NoError(t, err)

	err = store.PutObject(context.Background(), "transcripts/u1/req/workout.txt", "text/plain; charset=utf-8", []byte("not json"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/transcripts-bucket/transcripts/u1/req/workout.txt", path)
	assert.True(t, strings.HasPrefix(contentType, "text/plain"), contentType)
	assert.Contains(t, body, "not json")
}

func TestS3PutObjectError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer srv.Close()

	store, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint: srv.URL, Region: "us-east-1", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b",
	})
	require.NoError(t, err)

	err = store.PutObject(context.Background(), "k.txt", "text/plain", []byte("x"))
	assert.ErrorContains(t, err, "k.txt")
}

func TestNoopStorage(t *testing.T) {
	assert.NoError(t, NewNoopStorage().PutObject(context.Background(), "k", "text/plain", []byte("x")))
}
