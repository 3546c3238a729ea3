package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"checkout.completed"}`)
	secret := "whsec_test"

	if err := VerifyWebhookSignature(body, sign(body, secret), secret); err != nil {
		t.Fatalf("expected valid signature to verify: %v", err)
	}

	if err := VerifyWebhookSignature(body, sign(body, "wrong-secret"), secret); err == nil {
		t.Error("expected signature from wrong secret to be rejected")
	}

	tampered := []byte(`{"event":"checkout.completed","amount":0}`)
	if err := VerifyWebhookSignature(tampered, sign(body, secret), secret); err == nil {
		t.Error("expected tampered body to be rejected")
	}

	if err := VerifyWebhookSignature(body, "", secret); err == nil {
		t.Error("expected missing signature to be rejected")
	}

	if err := VerifyWebhookSignature(body, sign(body, secret), ""); err == nil {
		t.Error("expected missing secret to be rejected")
	}
}

func TestValidateTokenNoUnverifiedFallbackInProduction(t *testing.T) {
	// Unreachable JWKS endpoint: connection refused immediately.
	t.Setenv("SUPABASE_URL", "http://127.0.0.1:1")

	claims := &CustomClaims{Email: "user@example.com"}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("failed to build test token: %v", err)
	}

	t.Setenv("ENVIRONMENT", "production")
	if _, err := ValidateToken(tokenStr); err == nil {
		t.Error("production must reject tokens when the key server is unreachable")
	}

	t.Setenv("ENVIRONMENT", "development")
	got, err := ValidateToken(tokenStr)
	if err != nil {
		t.Fatalf("development fallback should parse the token: %v", err)
	}
	if got.Email != "user@example.com" {
		t.Errorf("expected claims from fallback parse, got %+v", got)
	}
}

func TestIsPasswordStrong(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Str0ng!pass", true},
		{"short1!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigits!!", false},
		{"NoSpecials11", false},
	}
	for _, tc := range cases {
		if got := IsPasswordStrong(tc.password); got != tc.want {
			t.Errorf("IsPasswordStrong(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
