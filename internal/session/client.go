// Package session persists a draft's selection to the session-scoped
// store. Saves are best-effort: navigation waits for the attempt to
// settle but proceeds whether or not it succeeded.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sportline-pos/api/internal/order"
)

// TokenSource supplies the anti-forgery token attached to every save.
// Token issuance itself is owned by the session layer, not this client.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed anti-forgery token, mainly for tests and
// single-session tools.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// savePayload is the wire format of the save endpoint. Seq is a
// monotonic request id so the store can drop saves that were
// superseded before they arrived.
type savePayload struct {
	Items   []order.SelectionItem `json:"items"`
	Deposit int64                 `json:"deposit"`
	Seq     int64                 `json:"seq"`
}

type saveResult struct {
	OK bool `json:"ok"`
}

// Navigation is the outcome of a save-then-navigate sequence: either a
// spliced content region (partial refresh) or a full navigation target.
type Navigation struct {
	Partial  bool
	Content  string
	Location string
}

// Client posts draft selections to the session store.
type Client struct {
	httpc   *http.Client
	baseURL string
	tokens  TokenSource
	seq     atomic.Int64
}

func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		tokens:  tokens,
	}
}

// Save serializes the selection and PUTs it to the store with the
// anti-forgery token. The caller decides whether a failure matters;
// SaveThenNavigate logs and moves on.
func (c *Client) Save(ctx context.Context, draftID uuid.UUID, sel order.Selection) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("csrf token: %w", err)
	}

	payload := savePayload{
		Items:   sel.Items,
		Deposit: sel.Deposit,
		Seq:     c.seq.Add(1),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}

	url := fmt.Sprintf("%s/drafts/%s/selection", c.baseURL, draftID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("save selection: status %d", resp.StatusCode)
	}
	var result saveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode save response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("save selection: store rejected the snapshot")
	}
	return nil
}

// SaveThenNavigate runs the sequenced navigation flow: wait for the
// save attempt to settle (failure is logged, never surfaced), then try
// a partial refresh of the target and fall back to a full navigation
// when the fetch fails or the expected content region is absent.
func (c *Client) SaveThenNavigate(ctx context.Context, draftID uuid.UUID, sel order.Selection, target string) Navigation {
	if err := c.Save(ctx, draftID, sel); err != nil {
		log.Printf("ERROR: save selection before navigation: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Navigation{Location: target}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return Navigation{Location: target}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Navigation{Location: target}
	}
	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return Navigation{Location: target}
	}

	region, ok := ExtractRegion(string(page), RegionID)
	if !ok {
		return Navigation{Location: target}
	}
	return Navigation{Partial: true, Content: region}
}
