package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/pkg/config"
	"go.uber.org/zap"
)

const (
	TurnstileField          = "cf-turnstile-response"
	TurnstileMaxTokenLength = 2048
	DefaultTurnstileMessage = "Bot対策認証に失敗しました。再度お試しください。"
)

type VerifyResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Verifier checks a bot-verification token with the remote service.
type Verifier interface {
	IsConfigured() bool
	Verify(ctx context.Context, token string) VerifyResult
}

type TurnstileVerifier struct {
	cfg    config.TurnstileConfig
	client *http.Client
	log    *zap.Logger
}

func NewTurnstileVerifier(cfg config.TurnstileConfig, log *zap.Logger) *TurnstileVerifier {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext

	return &TurnstileVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second, Transport: transport},
		log:    log,
	}
}

func (v *TurnstileVerifier) IsConfigured() bool {
	return v.cfg.Configured()
}

// Verify posts the token to the siteverify endpoint. Transport and decoding
// failures are logged and reported as an unsuccessful result.
func (v *TurnstileVerifier) Verify(ctx context.Context, token string) VerifyResult {
	result, err := v.verify(ctx, token)
	if err != nil {
		v.log.Error("turnstile verification failed",
			zap.Error(err),
			zap.Int("token_length", len(token)),
			zap.Bool("is_configured", v.IsConfigured()),
		)
		return VerifyResult{}
	}
	return result
}

func (v *TurnstileVerifier) verify(ctx context.Context, token string) (VerifyResult, error) {
	body, err := json.Marshal(map[string]string{
		"secret":   v.cfg.SecretKey,
		"response": token,
	})
	if err != nil {
		return VerifyResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, bytes.NewReader(body))
	if err != nil {
		return VerifyResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return VerifyResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return VerifyResult{}, fmt.Errorf("siteverify status %d", resp.StatusCode)
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return VerifyResult{}, fmt.Errorf("decode siteverify response: %w", err)
	}
	return result, nil
}

// TurnstileRule validates a submitted token value. It passes when the
// verifier is not configured. Otherwise the value must be a non-empty string
// of at most TurnstileMaxTokenLength bytes that the verifier accepts.
type TurnstileRule struct {
	Verifier Verifier
	Message  string
}

// Validate returns "" when value passes, or the generic failure message.
func (r TurnstileRule) Validate(ctx context.Context, value any) string {
	if r.Verifier == nil || !r.Verifier.IsConfigured() {
		return ""
	}

	token, ok := value.(string)
	if !ok || token == "" || len(token) > TurnstileMaxTokenLength {
		return r.message()
	}
	if !r.Verifier.Verify(ctx, token).Success {
		return r.message()
	}
	return ""
}

func (r TurnstileRule) message() string {
	if r.Message == "" {
		return DefaultTurnstileMessage
	}
	return r.Message
}
