package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assetvault/internal/common"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestPresign_Success(t *testing.T) {
	var gotAuth, gotMethod, gotPath string
	var gotBody []UploadRequest

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = io.WriteString(w, `{"msg":"Presign urls generated successfully","data":{"urls":[
			{"id":"u2","key":"k2","presignedUrl":"http://s3/k2","updatedAt":"2024-01-02T03:04:05Z"},
			{"id":"u1","key":"k1","presignedUrl":"http://s3/k1","updatedAt":"2024-01-02T03:04:05Z"}]}}`)
	})

	c := New(srv.URL+"/", "tok", srv.Client())
	grants, err := c.Presign(context.Background(), []UploadRequest{
		{ID: "k1", Name: "a.txt", Type: "text/plain", Size: 1, Checksum: "aa"},
		{ID: "k2", Name: "b.txt", Type: "text/plain", Size: 2, Checksum: "bb"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, ObjectStoragePath, gotPath)
	require.Len(t, gotBody, 2)
	assert.Equal(t, "k1", gotBody[0].ID)

	require.Len(t, grants, 2)
	assert.Equal(t, "k2", grants[0].Key)
	assert.Equal(t, "http://s3/k1", grants[1].PresignedURL)
	assert.Equal(t, 2024, grants[0].UpdatedAt.Year())
}

func TestPresign_GrantCountMismatch(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"urls":[]}}`)
	})

	_, err := New(srv.URL, "", srv.Client()).Presign(context.Background(), []UploadRequest{{ID: "k1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0 grants for 1 files")
}

func TestPresign_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"validation", http.StatusBadRequest, `{"err":"invalid field(s): 0.size"}`, common.ErrValidation},
		{"unauthorized", http.StatusUnauthorized, `{"err":"unauthorized"}`, common.ErrorUnauthorized},
		{"forbidden", http.StatusForbidden, `{"err":"forbidden"}`, common.ErrForbidden},
		{"not configured", http.StatusOK, `{"err":"Object storage not configured"}`, common.ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := New(srv.URL, "tok", srv.Client()).Presign(context.Background(), []UploadRequest{{ID: "k"}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPresign_PayloadErrorIsServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"err":"Failed to generate presigned URLs"}`)
	})

	_, err := New(srv.URL, "tok", srv.Client()).Presign(context.Background(), []UploadRequest{{ID: "k"}})
	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusOK, se.StatusCode)
	assert.Equal(t, "Failed to generate presigned URLs", se.Message)
}

func TestPresign_UnknownStatusWithoutJSON(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := New(srv.URL, "tok", srv.Client()).Presign(context.Background(), []UploadRequest{{ID: "k"}})
	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "Bad Gateway", se.Message)
}

func TestDelete(t *testing.T) {
	var got map[string]string
	var method string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"msg":"Files deleted successfully"}`)
	})

	err := New(srv.URL, "tok", srv.Client()).Delete(context.Background(), "asset/private/text/a.txt@1-ABCD-x")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "asset/private/text/a.txt@1-ABCD-x", got["key"])
}

func TestDelete_ServerFailure(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"err":"Failed to delete files"}`)
	})

	err := New(srv.URL, "tok", srv.Client()).Delete(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to delete files")
}

func TestDownloadURL(t *testing.T) {
	var rawQuery string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.Query().Get("key")
		if rawQuery == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"err":"File not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"url":"http://s3/get"}}`)
	})
	c := New(srv.URL, "tok", srv.Client())

	u, err := c.DownloadURL(context.Background(), "asset/public/image/a b.png")
	require.NoError(t, err)
	assert.Equal(t, "http://s3/get", u)
	assert.Equal(t, "asset/public/image/a b.png", rawQuery)

	_, err = c.DownloadURL(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, "tok", nil).Delete(context.Background(), "k")
	assert.ErrorIs(t, err, common.ErrTransport)
}
