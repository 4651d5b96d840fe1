package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Mailer delivers notification emails. Callers treat sends as
// best-effort: a returned error gets logged, never propagated.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// DevConsoleMailer logs the would-be email instead of sending it. Used
// whenever RESEND_API_KEY is absent.
type DevConsoleMailer struct{}

func NewDevConsoleMailer() *DevConsoleMailer { return &DevConsoleMailer{} }

func (m *DevConsoleMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("[DEV-EMAIL] simulated send to=%s subject=%q", to, subject)
	return nil
}

// ResendMailer talks to the Resend REST API.
type ResendMailer struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: "https://api.resend.com",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FromEnv picks the real client when a key is configured and degrades
// to console logging otherwise.
func FromEnv(apiKey, from string) Mailer {
	if apiKey == "" {
		log.Println("RESEND_API_KEY not set, emails will be simulated on the console")
		return NewDevConsoleMailer()
	}
	return NewResendMailer(apiKey, from)
}
