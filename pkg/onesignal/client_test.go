package onesignal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotification_Success(t *testing.T) {
	var got NotificationRequest
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "Basic test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(NotificationResponse{ID: "abc", Recipients: 2})
	}))
	defer s.Close()

	c := NewClient("app-1", "test-key", s.URL)
	resp, err := c.CreateNotification(context.Background(), NotificationRequest{
		IncludePlayerIDs: []string{"p1", "p2"},
		Headings:         map[string]string{"en": "Site Down"},
		Contents:         map[string]string{"en": "it broke"},
		Priority:         10,
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, 2, resp.Recipients)
	assert.Equal(t, "app-1", got.AppID)
	assert.Equal(t, []string{"p1", "p2"}, got.IncludePlayerIDs)
}

func TestCreateNotification_ProviderError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["invalid player ids"]}`, http.StatusBadRequest)
	}))
	defer s.Close()

	c := NewClient("app-1", "test-key", s.URL)
	_, err := c.CreateNotification(context.Background(), NotificationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
