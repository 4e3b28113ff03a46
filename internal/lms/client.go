package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	cacheTTL       = 5 * time.Minute
	cacheCleanup   = 10 * time.Minute
	requestsPerSec = 3
)

// Client implements domain.LMSGateway against the learning-management
// system's HTTP API. Lookups are retried, rate limited and cached for the
// duration of a batch; a page that does not exist is (nil, nil), not an
// error.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
	cache   *gocache.Cache
	limiter *rate.Limiter
}

// NewClient creates a new LMS Client
func NewClient(baseURL, apiKey string) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = 30 * time.Second

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   gocache.New(cacheTTL, cacheCleanup),
		limiter: rate.NewLimiter(requestsPerSec, requestsPerSec),
	}
}

// FetchPageByExternalID fetches an enrollment page by its LMS page id
func (c *Client) FetchPageByExternalID(id string) (*domain.LMSRecord, error) {
	cacheKey := "page:" + id
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*domain.LMSRecord), nil
	}

	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequest(http.MethodGet,
		fmt.Sprintf("%s/pages/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lms: fetch page %s: unexpected status %d", id, resp.StatusCode)
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	record := page.toRecord()
	c.cache.Set(cacheKey, record, gocache.DefaultExpiration)
	return record, nil
}

// FetchPageByEmail queries the clients database for a page whose email
// property matches. Returns the first match or (nil, nil).
func (c *Client) FetchPageByEmail(databaseID, email string) (*domain.LMSRecord, error) {
	cacheKey := "email:" + databaseID + ":" + email
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*domain.LMSRecord), nil
	}

	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"filter": map[string]interface{}{
			"property": "email",
			"email":    map[string]string{"equals": email},
		},
		"page_size": 1,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID),
		bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("lms: query database %s: unexpected status %d", databaseID, resp.StatusCode)
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	record := result.Results[0].toRecord()
	c.cache.Set(cacheKey, record, gocache.DefaultExpiration)
	return record, nil
}

func (c *Client) setHeaders(req *retryablehttp.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

type pageResponse struct {
	ID         string `json:"id"`
	Properties struct {
		EducationalStatus struct {
			Select *struct {
				Name string `json:"name"`
			} `json:"select"`
		} `json:"educational_status"`
		DropDate struct {
			Date *struct {
				Start string `json:"start"`
			} `json:"date"`
		} `json:"drop_date"`
		CertificatedAt struct {
			Date *struct {
				Start string `json:"start"`
			} `json:"date"`
		} `json:"certificated_at"`
	} `json:"properties"`
}

type queryResponse struct {
	Results []pageResponse `json:"results"`
}

func (p pageResponse) toRecord() *domain.LMSRecord {
	record := &domain.LMSRecord{}
	if p.Properties.EducationalStatus.Select != nil {
		record.EducationalStatus = p.Properties.EducationalStatus.Select.Name
	}
	if p.Properties.DropDate.Date != nil {
		record.DropDate = parseLMSDate(p.Properties.DropDate.Date.Start)
	}
	if p.Properties.CertificatedAt.Date != nil {
		record.CertificatedAt = parseLMSDate(p.Properties.CertificatedAt.Date.Start)
	}
	return record
}

// parseLMSDate accepts both plain dates and full timestamps; only the civil
// date matters downstream.
func parseLMSDate(raw string) *time.Time {
	if len(raw) >= 10 {
		raw = raw[:10]
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
