package gwas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultRESTBaseURL is the GWAS Catalog REST API.
	DefaultRESTBaseURL = "https://www.ebi.ac.uk/gwas/rest/api"
	// DefaultSummaryStatsBaseURL is the GWAS Summary Statistics API.
	DefaultSummaryStatsBaseURL = "https://www.ebi.ac.uk/gwas/summary-statistics/api"

	// pageSize is the recommended upper limit on items per request for the
	// REST API's paginated collection endpoints.
	pageSize = 1000

	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 10 * 1024 * 1024 // 10 MiB
)

// ClientOptions configures a Client. Zero values fall back to the official
// EBI endpoints and a 30s timeout.
type ClientOptions struct {
	HTTPClient          *http.Client
	RESTBaseURL         string
	SummaryStatsBaseURL string
	Timeout             time.Duration
}

// Client issues unauthenticated GET requests against the two catalog APIs.
// It applies no retries, caching, or rate limiting.
type Client struct {
	httpClient *http.Client
	restBase   string
	statsBase  string
}

// NewClient returns a Client with defaults applied.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		restBase:   opts.RESTBaseURL,
		statsBase:  opts.SummaryStatsBaseURL,
	}
	if c.restBase == "" {
		c.restBase = DefaultRESTBaseURL
	}
	if c.statsBase == "" {
		c.statsBase = DefaultSummaryStatsBaseURL
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

// GetJSON fetches rawURL and decodes the response body as JSON. A non-2xx
// status or an undecodable body yields an *UpstreamError.
func (c *Client) GetJSON(ctx context.Context, rawURL string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: rawURL, Msg: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxResponseBytes)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		return nil, &UpstreamError{Status: resp.StatusCode, URL: rawURL, Msg: string(snippet)}
	}

	var decoded any
	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, URL: rawURL, Msg: fmt.Sprintf("decoding body: %v", err)}
	}
	return decoded, nil
}

// --- REST API endpoint URLs ---

// StudyURL is the detail endpoint for a study.
func (c *Client) StudyURL(studyID string) string {
	return c.restBase + "/studies/" + url.PathEscape(studyID)
}

// AssociationURL is the detail endpoint for an association.
func (c *Client) AssociationURL(associationID string) string {
	return c.restBase + "/associations/" + url.PathEscape(associationID)
}

// VariantURL is the detail endpoint for a single nucleotide polymorphism.
func (c *Client) VariantURL(variantID string) string {
	return c.restBase + "/singleNucleotidePolymorphisms/" + url.PathEscape(variantID)
}

// TraitURL is the detail endpoint for an EFO trait.
func (c *Client) TraitURL(efoID string) string {
	return c.restBase + "/efoTraits/" + url.PathEscape(efoID)
}

// StudyAssociationsURL lists associations reported by a study.
func (c *Client) StudyAssociationsURL(studyID string) string {
	return c.restBase + "/studies/" + url.PathEscape(studyID) + "/associations"
}

// TraitStudiesURL lists studies linked to an EFO trait.
func (c *Client) TraitStudiesURL(efoID string) string {
	return c.restBase + "/efoTraits/" + url.PathEscape(efoID) + "/studies"
}

// TraitAssociationsURL lists associations linked to an EFO trait.
func (c *Client) TraitAssociationsURL(efoID string) string {
	return c.restBase + "/efoTraits/" + url.PathEscape(efoID) + "/associations"
}

// VariantAssociationsURL lists associations for a variant, regardless of trait.
func (c *Client) VariantAssociationsURL(variantID string) string {
	return c.restBase + "/singleNucleotidePolymorphisms/" + url.PathEscape(variantID) + "/associations"
}

// RegionAssociationsURL searches associations by genomic region, optionally
// restricted to one EFO trait.
func (c *Client) RegionAssociationsURL(chromosome string, start, end int, efoID string) string {
	q := url.Values{}
	q.Set("size", strconv.Itoa(pageSize))
	q.Set("chromosome", chromosome)
	q.Set("bp_start", strconv.Itoa(start))
	q.Set("bp_end", strconv.Itoa(end))
	if efoID != "" {
		q.Set("efoTrait", efoID)
	}
	return c.restBase + "/associations?" + q.Encode()
}

// TraitAssociationsQueryURL searches associations by EFO trait.
func (c *Client) TraitAssociationsQueryURL(efoID string) string {
	q := url.Values{}
	q.Set("efoTrait", efoID)
	q.Set("size", strconv.Itoa(pageSize))
	return c.restBase + "/associations?" + q.Encode()
}

// --- Summary Statistics API endpoint URLs ---

// RegionTraitAssociationsURL queries the Summary Statistics API for
// associations of one trait within a chromosome region.
func (c *Client) RegionTraitAssociationsURL(chromosome string, start, end int, efoID string) string {
	q := url.Values{}
	q.Set("bp_lower", strconv.Itoa(start))
	q.Set("bp_upper", strconv.Itoa(end))
	q.Set("efoTrait", efoID)
	return c.statsBase + "/chromosomes/" + url.PathEscape(chromosome) + "/associations?" + q.Encode()
}
