package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/audiojones/admin-api/internal/services"
	"github.com/gin-gonic/gin"
)

const testWebhookSecret = "whsec_test"

func signBody(body string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ws := services.NewWebhookService(nil, nil, nil, nil, nil, nil, logger)

	r := gin.New()
	r.POST("/webhooks/whop", WhopWebhook(ws, testWebhookSecret))
	return r
}

func postWebhook(r *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whop", bytes.NewReader([]byte(body)))
	if signature != "" {
		req.Header.Set("X-Whop-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r := newWebhookRouter()

	w := postWebhook(r, `{"event":"checkout.completed"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r := newWebhookRouter()

	w := postWebhook(r, `{"event":"checkout.completed"}`, "deadbeef")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	r := newWebhookRouter()

	body := `{"event":`
	w := postWebhook(r, body, signBody(body))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}

	body = `{"data":{}}`
	w = postWebhook(r, body, signBody(body))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing event type, got %d", w.Code)
	}
}

func TestWebhookAcksIgnoredEvents(t *testing.T) {
	r := newWebhookRouter()

	body := `{"event":"membership.cancelled","data":{"id":"evt-1"}}`
	w := postWebhook(r, body, signBody(body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored event type, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Errorf("expected ok acknowledgement, got %s", w.Body.String())
	}
}
