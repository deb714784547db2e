// Package team wraps the privileged account-creation callable: an external
// function that creates the login and emails credentials to the new member.
package team

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// InviteTimeout bounds the callable. This is deliberately the only call in
// the system with an explicit timeout.
const InviteTimeout = 30 * time.Second

// InviteRequest is the callable's JSON payload, field names verbatim.
type InviteRequest struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	FullName     string `json:"fullName"`
	InviterName  string `json:"inviterName"`
	BusinessName string `json:"businessName"`
}

type inviteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Client calls the account-creation function.
type Client struct {
	URL   string
	Token string
	HTTP  *http.Client
}

func NewClient(url, token string) *Client {
	return &Client{URL: url, Token: token, HTTP: http.DefaultClient}
}

var ErrNotConfigured = errors.New("team: account function URL not configured")

// CreateAccount invokes the callable and normalizes its three failure shapes:
// a transport error, an {error: ...} body, or success:false with no message.
func (c *Client) CreateAccount(ctx context.Context, req InviteRequest) error {
	if c.URL == "" {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, InviteTimeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return errors.New(friendlyNetworkError(err))
	}
	defer resp.Body.Close()

	var out inviteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("team: unexpected response (%d): %w", resp.StatusCode, err)
	}

	if out.Error != "" {
		return errors.New(out.Error)
	}
	if !out.Success {
		return fmt.Errorf("team: account creation failed (%d)", resp.StatusCode)
	}
	return nil
}

// friendlyNetworkError maps transport failures onto display strings by
// substring matching the message. Known-brittle against upstream wording
// changes; kept because the dashboards show these verbatim.
func friendlyNetworkError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "context deadline exceeded"), strings.Contains(msg, "timeout"):
		return "The account service took too long to respond. Please try again."
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "connection refused"):
		return "Could not reach the account service. Check your connection and try again."
	default:
		return "Account creation failed: " + msg
	}
}
