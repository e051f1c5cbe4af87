package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLearningReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/learning/report", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "5", r.URL.Query().Get("recent"))
		_, _ = w.Write([]byte("category_id,keyword,specificity,support,confidence,status\n"))
	}))
	defer srv.Close()

	data, err := fetchLearningReport(srv.URL, "csv", 5)
	require.NoError(t, err)
	assert.Contains(t, string(data), "category_id")
}

func TestFetchLearningReport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fetchLearningReport(srv.URL, "json", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchLearningReport_Unreachable(t *testing.T) {
	_, err := fetchLearningReport("http://127.0.0.1:1", "json", 1)
	assert.Error(t, err)
}
