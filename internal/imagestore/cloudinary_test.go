package imagestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_Success(t *testing.T) {
	var gotPath string
	var gotPreset, gotFolder, gotFile string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFile = header.Filename

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/products/phone.jpg"}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "unsigned_preset", server.URL)

	url, err := client.Upload(context.Background(), "phone.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/products/phone.jpg", url)
	assert.Equal(t, "/v1_1/demo/image/upload", gotPath)
	assert.Equal(t, "unsigned_preset", gotPreset)
	assert.Equal(t, "products", gotFolder)
	assert.Equal(t, "phone.jpg", gotFile)
}

func TestUpload_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "missing_preset", server.URL)

	_, err := client.Upload(context.Background(), "phone.jpg", strings.NewReader("bytes"))
	require.ErrorContains(t, err, "Upload preset not found")
}

func TestUpload_ErrorStatusWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "preset", server.URL)

	_, err := client.Upload(context.Background(), "phone.jpg", strings.NewReader("bytes"))
	require.ErrorContains(t, err, "status 500")
}

func TestUpload_MissingSecureURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "preset", server.URL)

	_, err := client.Upload(context.Background(), "phone.jpg", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, ErrNoSecureURL)
}

func TestUpload_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewCloudinaryClient("demo", "preset", server.URL)

	// default gobreaker settings trip after 5 consecutive failures
	for i := 0; i < 6; i++ {
		_, err := client.Upload(context.Background(), "phone.jpg", strings.NewReader("bytes"))
		require.Error(t, err)
	}

	before := hits
	_, err := client.Upload(context.Background(), "phone.jpg", strings.NewReader("bytes"))
	require.Error(t, err)
	assert.Equal(t, before, hits, "open breaker must not reach the server")
}
