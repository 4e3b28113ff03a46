package lms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageJSON = `{
	"id": "page-1",
	"properties": {
		"educational_status": {"select": {"name": "early dropped"}},
		"drop_date": {"date": {"start": "2024-02-10"}},
		"certificated_at": {"date": null}
	}
}`

func TestFetchPageByExternalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pages/page-1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pageJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	record, err := client.FetchPageByExternalID("page-1")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "early dropped", record.EducationalStatus)
	require.NotNil(t, record.DropDate)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *record.DropDate)
	assert.Nil(t, record.CertificatedAt)
}

func TestFetchPageByExternalID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	record, err := client.FetchPageByExternalID("missing")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFetchPageByExternalID_CachesResult(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pageJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.FetchPageByExternalID("page-1")
	require.NoError(t, err)
	_, err = client.FetchPageByExternalID("page-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchPageByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		filter := body["filter"].(map[string]interface{})
		assert.Equal(t, "email", filter["property"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [` + pageJSON + `]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	record, err := client.FetchPageByEmail("db-1", "student@example.com")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "early dropped", record.EducationalStatus)
}

func TestFetchPageByEmail_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	record, err := client.FetchPageByEmail("db-1", "ghost@example.com")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestParseLMSDate(t *testing.T) {
	full := parseLMSDate("2024-02-10T15:04:05.000+01:00")
	require.NotNil(t, full)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *full)

	assert.Nil(t, parseLMSDate("not a date"))
	assert.Nil(t, parseLMSDate(""))
}
