package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weak-head/icon-convert/internal/logger"
)

// s3Stub serves path-style object requests from memory.
type s3Stub struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	requests []string
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	s.requests = append(s.requests, r.Method+" "+key)

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		s.objects[key] = body
		s.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)

	case http.MethodGet, http.MethodHead:
		data, ok := s.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(data)
		}

	case http.MethodDelete:
		delete(s.objects, key)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestMinioStorage(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, stub *s3Stub, s *minioStorage){
		"stores an object":                   testMinioStores,
		"retrieves an object":                testMinioRetrieves,
		"fails to retrieve a missing object": testMinioFailsOnMissing,
		"removes an object":                  testMinioRemoves,
	} {
		t.Run(scenario, func(t *testing.T) {
			stub := &s3Stub{
				objects: map[string][]byte{},
				types:   map[string]string{},
			}
			server := httptest.NewServer(stub)
			defer server.Close()

			log, _ := logger.NewNullLogger()
			s, err := NewMinioStorage(StorageConfig{
				Kind:      KindMinio,
				Endpoint:  strings.TrimPrefix(server.URL, "http://"),
				AccessKey: "access",
				SecretKey: "secret",
				// a fixed region skips the bucket location lookup
				Region: "us-east-1",
			}, log)
			require.NoError(t, err)

			fn(t, stub, s)
		})
	}
}

func testMinioStores(t *testing.T, stub *s3Stub, s *minioStorage) {
	err := s.Store(context.Background(), testBucket, testObject, []byte("png"), "image/png")
	require.NoError(t, err)

	require.Contains(t, stub.objects, testBucket+"/"+testObject)
	require.Equal(t, "image/png", stub.types[testBucket+"/"+testObject])
}

func testMinioRetrieves(t *testing.T, stub *s3Stub, s *minioStorage) {
	stub.objects[testBucket+"/icon.jpg"] = []byte("jpeg bytes")

	data, err := s.Retrieve(context.Background(), testBucket, "icon.jpg")
	require.NoError(t, err)
	require.Equal(t, "jpeg bytes", string(data))
}

func testMinioFailsOnMissing(t *testing.T, stub *s3Stub, s *minioStorage) {
	data, err := s.Retrieve(context.Background(), testBucket, "icon.jpg")
	require.Nil(t, data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func testMinioRemoves(t *testing.T, stub *s3Stub, s *minioStorage) {
	stub.objects[testBucket+"/icon.jpg"] = []byte("jpeg bytes")

	require.NoError(t, s.Remove(context.Background(), testBucket, "icon.jpg"))

	require.NotContains(t, stub.objects, testBucket+"/icon.jpg")
	require.Contains(t, stub.requests, http.MethodDelete+" "+testBucket+"/icon.jpg")
}
