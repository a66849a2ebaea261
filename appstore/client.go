package appstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	ProductionURL = "https://buy.itunes.apple.com/verifyReceipt"
	SandboxURL    = "https://sandbox.itunes.apple.com/verifyReceipt"

	// StatusOK is the success status returned by the verification endpoint.
	StatusOK = 0

	// StatusSandboxReceipt means a sandbox receipt was submitted to the
	// production endpoint. The call must be retried against sandbox.
	StatusSandboxReceipt = 21007
)

// Validator verifies a raw receipt against the App Store and returns the
// structured purchase history it attests to.
type Validator interface {
	Verify(ctx context.Context, receiptData []byte) (*VerifyResponse, error)
}

type verifyRequest struct {
	ReceiptData string `json:"receipt-data"`
	Password    string `json:"password"`
}

// TrialFlag decodes the is_trial_period field, which appears both as the
// strings "true"/"false" and as a bare boolean depending on response vintage.
// Anything else decodes as false rather than failing the entry.
type TrialFlag bool

func (f *TrialFlag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `true`, `"true"`:
		*f = true
	default:
		*f = false
	}
	return nil
}

// InAppEntry is one purchase object from the verification response. Apple
// encodes values as strings, including millisecond timestamps, so the fields
// are kept as received and interpreted downstream.
type InAppEntry struct {
	ProductID     string    `json:"product_id"`
	PurchaseDate  string    `json:"purchase_date"`
	ExpiresDateMS string    `json:"expires_date_ms"`
	IsTrialPeriod TrialFlag `json:"is_trial_period"`
}

// ReceiptInfo is the decoded receipt object of a successful response.
type ReceiptInfo struct {
	BundleID string       `json:"bundle_id"`
	InApp    []InAppEntry `json:"in_app"`
}

// VerifyResponse is the decoded verification response.
type VerifyResponse struct {
	Status      int          `json:"status"`
	Environment string       `json:"environment"`
	Receipt     *ReceiptInfo `json:"receipt"`

	raw map[string]any
}

// Raw returns the full decoded response payload, including fields the typed
// schema does not consume. Retained for diagnostics.
func (r *VerifyResponse) Raw() map[string]any {
	return r.raw
}

// Client submits receipts to the verifyReceipt endpoint. Receipts are sent to
// production first; a sandbox receipt is transparently resubmitted to the
// sandbox endpoint exactly once.
type Client struct {
	log          *zap.Logger
	httpClient   *http.Client
	sharedSecret string

	productionURL string
	sandboxURL    string
}

type ClientOption func(*Client)

// WithHTTPClient overrides the transport. The default is http.DefaultClient,
// so timeouts are whatever the transport defaults to.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints overrides the production and sandbox endpoint URLs.
func WithEndpoints(production, sandbox string) ClientOption {
	return func(c *Client) {
		c.productionURL = production
		c.sandboxURL = sandbox
	}
}

// NewClient returns a new verification client using the app's shared secret.
func NewClient(log *zap.Logger, sharedSecret string, opts ...ClientOption) *Client {
	c := &Client{
		log:           log,
		httpClient:    http.DefaultClient,
		sharedSecret:  sharedSecret,
		productionURL: ProductionURL,
		sandboxURL:    SandboxURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Verify submits the raw receipt for validation. A StatusSandboxReceipt
// response from production triggers a single resubmission to the sandbox
// endpoint; its result is returned instead. Any other non-zero status is
// returned as a *ValidationError, transport failures as a
// *CommunicationError.
func (c *Client) Verify(ctx context.Context, receiptData []byte) (*VerifyResponse, error) {
	body := verifyRequest{
		ReceiptData: base64.StdEncoding.EncodeToString(receiptData),
		Password:    c.sharedSecret,
	}

	payload, err := json.Marshal(&body)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling verify request")
	}

	resp, err := c.post(ctx, c.productionURL, payload)
	if err != nil {
		return nil, err
	}

	if resp.Status == StatusSandboxReceipt {
		c.log.Debug("Got a sandbox receipt, retrying against sandbox endpoint")

		resp, err = c.post(ctx, c.sandboxURL, payload)
		if err != nil {
			return nil, err
		}
	}

	if resp.Status != StatusOK {
		return nil, &ValidationError{Status: resp.Status}
	}

	return resp, nil
}

func (c *Client) post(ctx context.Context, toUrl string, payload []byte) (*VerifyResponse, error) {
	req, err := http.NewRequest(http.MethodPost, toUrl, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "error creating verify request")
	}

	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CommunicationError{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &CommunicationError{Err: errors.Errorf("unexpected http status code: %d", httpResp.StatusCode)}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &CommunicationError{Err: err}
	}

	var result VerifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &CommunicationError{Err: errors.Wrap(err, "error decoding verify response")}
	}

	// Retain the full payload for diagnostics; only a subset is consumed.
	_ = json.Unmarshal(respBody, &result.raw)

	return &result, nil
}
