// Package policyrate fetches the current policy/key interest rate from an
// external XML feed. The rate feeds the market-volatility and policy-impact
// signals of risk scoring; an unreachable feed is not fatal, the affected
// signals simply degrade.
package policyrate

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/verdant-labs/climate-receivables/internal/config"
)

// Client handles integration with the policy rate feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new policy rate client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.PolicyRateURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch retrieves the raw XML document from the feed
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Policy rate XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the most recent rate from the feed document.
// Expected shape: <rates><rate date="...">4.25</rate>...</rates> with the
// most recent entry first.
func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	rateElements := doc.FindElements("//rates/rate")
	if len(rateElements) == 0 {
		return 0, fmt.Errorf("no rate data found in XML")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElements[0].Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}
	return rate, nil
}

// GetPolicyRate retrieves the current policy rate in percent
func (c *Client) GetPolicyRate() (float64, error) {
	if c.url == "" {
		return 0, fmt.Errorf("policy rate feed not configured")
	}
	body, err := c.fetch()
	if err != nil {
		return 0, err
	}
	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}
	c.log.Infof("Retrieved policy rate: %.2f%%", rate)
	return rate, nil
}
