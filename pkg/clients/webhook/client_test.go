package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/domain/models"
)

func TestSendReport(t *testing.T) {
	var got models.ReportNotification
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(config.WebhookConfig{URL: srv.URL, Token: "secret"})
	err := client.SendReport(context.Background(), models.ReportNotification{ReportID: "r1", Title: "Stock report", Message: "ok"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "r1", got.ReportID)
	assert.Equal(t, "ok", got.Message)
}

func TestSendReport_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"downstream unavailable"}`))
	}))
	defer srv.Close()

	client := NewClient(config.WebhookConfig{URL: srv.URL})
	err := client.SendReport(context.Background(), models.ReportNotification{ReportID: "r1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=502")
	assert.Contains(t, err.Error(), "downstream unavailable")
}
