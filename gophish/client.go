package gophish

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cisagov/gophish-test/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	campaignsPath       = "/api/campaigns/"
	campaignSummaryPath = "/api/campaigns/summary"
	groupsPath          = "/api/groups/"
)

type IGophishClient interface {
	GetCampaigns(ctx context.Context) ([]types.Campaign, error)
	PostGroup(ctx context.Context, group types.Group) (*types.Group, error)
	PostCampaign(ctx context.Context, campaign types.Campaign) (*types.Campaign, error)
}

type Client struct {
	Server     string
	APIKey     string
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

func NewClient(server string, apiKey string, insecure bool, logger *logrus.Logger) (*Client, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server URL %q: %w", ErrConnection, server, err)
	}
	if (serverURL.Scheme != "http" && serverURL.Scheme != "https") || serverURL.Host == "" {
		return nil, fmt.Errorf("%w: server URL %q must be an absolute http or https URL", ErrConnection, server)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is empty", ErrConnection)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		// GoPhish serves a self-signed certificate unless configured otherwise.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}

	return &Client{
		Server:     strings.TrimRight(server, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Transport: transport},
		Logger:     logger,
	}, nil
}

// Connect checks that the server is reachable and accepts the API key.
func (client *Client) Connect(ctx context.Context) error {
	summaries := types.CampaignSummaries{}
	if err := client.do(ctx, http.MethodGet, campaignSummaryPath, nil, &summaries); err != nil {
		return fmt.Errorf("%w at %s: %w", ErrConnection, client.Server, err)
	}
	client.Logger.Debugf("Connected to: %s (%d campaigns)", client.Server, summaries.Total)
	return nil
}

func (client *Client) GetCampaigns(ctx context.Context) ([]types.Campaign, error) {
	campaigns := []types.Campaign{}
	if err := client.do(ctx, http.MethodGet, campaignsPath, nil, &campaigns); err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	return campaigns, nil
}

func (client *Client) PostGroup(ctx context.Context, group types.Group) (*types.Group, error) {
	created := types.Group{}
	if err := client.do(ctx, http.MethodPost, groupsPath, group, &created); err != nil {
		return nil, fmt.Errorf("creating group %s: %w", group.Name, err)
	}
	return &created, nil
}

func (client *Client) PostCampaign(ctx context.Context, campaign types.Campaign) (*types.Campaign, error) {
	created := types.Campaign{}
	if err := client.do(ctx, http.MethodPost, campaignsPath, campaign, &created); err != nil {
		return nil, fmt.Errorf("creating campaign %s: %w", campaign.Name, err)
	}
	return &created, nil
}

func (client *Client) do(ctx context.Context, method string, path string, payload any, result any) error {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.Server+path, body)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	request.Header.Set("Authorization", "Bearer "+client.APIKey)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	client.Logger.Tracef("%s %s (request %s)", method, path, requestID)

	response, err := client.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	client.Logger.Tracef("%s %s returned %d (request %s)", method, path, response.StatusCode, requestID)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiResponse := types.APIResponse{}
		if err := json.Unmarshal(content, &apiResponse); err != nil {
			client.Logger.Debugf("Error response body is not JSON: %v", err)
		}
		return &APIError{
			StatusCode: response.StatusCode,
			Message:    apiResponse.Message,
			RequestID:  requestID,
		}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(content, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
