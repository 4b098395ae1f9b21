package alert

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendvet/pkg/validate"
)

func TestWebhookSend(t *testing.T) {
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature-256")
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, "topsecret")
	n := &Notification{
		Trend: validate.ValidatedTrend{ID: "validated-a", Title: "AI chatbots", ValidationScore: 95},
		Body:  "Corroborated by 2 sources with score 95",
	}
	require.NoError(t, hook.Send(context.Background(), n))

	var payload struct {
		Event string                  `json:"event"`
		Trend validate.ValidatedTrend `json:"trend"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "trend.validated", payload.Event)
	assert.Equal(t, "validated-a", payload.Trend.ID)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(gotBody)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSig)
}

func TestWebhookSendNoSecret(t *testing.T) {
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, "")
	n := &Notification{Trend: validate.ValidatedTrend{ID: "validated-a"}}
	require.NoError(t, hook.Send(context.Background(), n))

	assert.Empty(t, gotSig)
}
