package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"reelsync/internal/models"
	"reelsync/internal/sync"
)

const (
	notionAPIURL  = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"

	// Destination database property names.
	propTitle      = "Title"
	propExternalID = "TMDB ID"
	propStatus     = "Status"
	propFormat     = "Format"
	propYear       = "Year"
	propRating     = "IMDb"
	propGenre      = "Genre"
	propPlatform   = "Platform"
	propSeasons    = "Seasons"
	propEpisodes   = "Total Eps"
)

var _ sync.Store = (*NotionClient)(nil)

type NotionClient struct {
	token      string
	databaseID string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

type NotionConfig struct {
	Token      string
	DatabaseID string
	BaseURL    string
	Timeout    time.Duration
	Logger     *logrus.Logger
}

func NewNotionClient(token, databaseID string, logger *logrus.Logger) *NotionClient {
	return NewNotionClientWithConfig(&NotionConfig{
		Token:      token,
		DatabaseID: databaseID,
		BaseURL:    notionAPIURL,
		Timeout:    defaultTimeout,
		Logger:     logger,
	})
}

func NewNotionClientWithConfig(config *NotionConfig) *NotionClient {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.BaseURL == "" {
		config.BaseURL = notionAPIURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &NotionClient{
		token:      config.Token,
		databaseID: config.DatabaseID,
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     config.Logger,
	}
}

// FindByExternalID queries the database on the external-id number property.
func (c *NotionClient) FindByExternalID(ctx context.Context, externalID int64) ([]models.Record, error) {
	id := float64(externalID)
	return c.query(ctx, &models.NotionFilter{
		Property: propExternalID,
		Number:   &models.NotionNumberFilter{Equals: &id},
	})
}

// FindByTitle queries on the title property, equality when exact is true,
// contains otherwise.
func (c *NotionClient) FindByTitle(ctx context.Context, title string, exact bool) ([]models.Record, error) {
	filter := &models.NotionFilter{Property: propTitle}
	if exact {
		filter.Title = &models.NotionTextFilter{Equals: title}
	} else {
		filter.Title = &models.NotionTextFilter{Contains: title}
	}
	return c.query(ctx, filter)
}

// FindByStatus lists records in a given watch state.
func (c *NotionClient) FindByStatus(ctx context.Context, status models.Status) ([]models.Record, error) {
	return c.query(ctx, &models.NotionFilter{
		Property: propStatus,
		Select:   &models.NotionSelectFilter{Equals: status.Label()},
	})
}

// CreateRecord writes a new page carrying props plus the default status.
// This is the only write path that sets Status.
func (c *NotionClient) CreateRecord(ctx context.Context, props models.Properties, status models.Status) (*models.Record, error) {
	properties := buildProperties(props)
	properties[propStatus] = models.PropertyValue{Select: &models.SelectOption{Name: status.Label()}}

	payload := models.NotionCreateRequest{
		Parent:     models.NotionParent{DatabaseID: c.databaseID},
		Properties: properties,
	}

	body, err := c.makeRequest(ctx, http.MethodPost, "/pages", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	var page models.NotionPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode created page: %w", err)
	}
	record := recordFromPage(page)
	return &record, nil
}

// UpdateRecord rewrites the metadata properties of an existing page. Status
// is never part of the payload so a manually advanced record keeps its
// state.
func (c *NotionClient) UpdateRecord(ctx context.Context, recordID string, props models.Properties) error {
	payload := models.NotionUpdateRequest{Properties: buildProperties(props)}
	if _, err := c.makeRequest(ctx, http.MethodPatch, "/pages/"+recordID, payload); err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	return nil
}

// UpdateStatus changes only the Status property. Used by the explicit
// status-change commands, never by reconciliation.
func (c *NotionClient) UpdateStatus(ctx context.Context, recordID string, status models.Status) error {
	payload := models.NotionUpdateRequest{
		Properties: map[string]models.PropertyValue{
			propStatus: {Select: &models.SelectOption{Name: status.Label()}},
		},
	}
	if _, err := c.makeRequest(ctx, http.MethodPatch, "/pages/"+recordID, payload); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// ListAttachments returns the external image URLs already attached to a
// page.
func (c *NotionClient) ListAttachments(ctx context.Context, recordID string) ([]string, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/blocks/"+recordID+"/children?page_size=100", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}

	var blocks models.NotionBlockList
	if err := json.Unmarshal(body, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode block list: %w", err)
	}

	var urls []string
	for _, block := range blocks.Results {
		if block.Type == "image" && block.Image != nil && block.Image.External.URL != "" {
			urls = append(urls, block.Image.External.URL)
		}
	}
	return urls, nil
}

// AppendImage adds an external image block to a page.
func (c *NotionClient) AppendImage(ctx context.Context, recordID string, imageURL string) error {
	payload := models.NotionAppendRequest{
		Children: []models.NotionBlock{
			{
				Object: "block",
				Type:   "image",
				Image: &models.NotionImage{
					Type:     "external",
					External: models.NotionExternalFile{URL: imageURL},
				},
			},
		},
	}
	if _, err := c.makeRequest(ctx, http.MethodPatch, "/blocks/"+recordID+"/children", payload); err != nil {
		return fmt.Errorf("failed to append image: %w", err)
	}
	return nil
}

func (c *NotionClient) query(ctx context.Context, filter *models.NotionFilter) ([]models.Record, error) {
	payload := models.NotionQueryRequest{Filter: filter}

	body, err := c.makeRequest(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}

	var response models.NotionQueryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	records := make([]models.Record, 0, len(response.Results))
	for _, page := range response.Results {
		records = append(records, recordFromPage(page))
	}
	return records, nil
}

func (c *NotionClient) makeRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Error("Notion API request failed")
		return nil, fmt.Errorf("notion API error (status %d)", resp.StatusCode)
	}

	return body, nil
}

// buildProperties serializes the destination schema into the Notion
// property payload. Status is deliberately never included here.
func buildProperties(props models.Properties) map[string]models.PropertyValue {
	externalID := float64(props.ExternalID)
	properties := map[string]models.PropertyValue{
		propTitle: {
			Title: []models.RichText{{Text: &models.TextContent{Content: props.Title}}},
		},
		propExternalID: {Number: &externalID},
		propFormat:     {Select: &models.SelectOption{Name: string(props.Format)}},
	}

	genres := make([]models.SelectOption, 0, len(props.Genres))
	for _, genre := range props.Genres {
		genres = append(genres, models.SelectOption{Name: genre})
	}
	properties[propGenre] = models.PropertyValue{MultiSelect: genres}

	if props.Year != nil {
		year := float64(*props.Year)
		properties[propYear] = models.PropertyValue{Number: &year}
	}
	if props.Rating != nil {
		properties[propRating] = models.PropertyValue{Number: props.Rating}
	}
	if props.Platform != nil {
		properties[propPlatform] = models.PropertyValue{Select: &models.SelectOption{Name: *props.Platform}}
	}
	if props.Seasons != nil {
		seasons := float64(*props.Seasons)
		properties[propSeasons] = models.PropertyValue{Number: &seasons}
	}
	if props.Episodes != nil {
		episodes := float64(*props.Episodes)
		properties[propEpisodes] = models.PropertyValue{Number: &episodes}
	}

	return properties
}

func recordFromPage(page models.NotionPage) models.Record {
	record := models.Record{ID: page.ID, Status: models.StatusToWatch}

	if title, ok := page.Properties[propTitle]; ok && len(title.Title) > 0 {
		record.Title = title.Title[0].PlainText
		if record.Title == "" && title.Title[0].Text != nil {
			record.Title = title.Title[0].Text.Content
		}
	}
	if id, ok := page.Properties[propExternalID]; ok && id.Number != nil {
		externalID := int64(*id.Number)
		record.ExternalID = &externalID
	}
	if status, ok := page.Properties[propStatus]; ok && status.Select != nil {
		if parsed, ok := models.StatusFromLabel(status.Select.Name); ok {
			record.Status = parsed
		}
	}
	if format, ok := page.Properties[propFormat]; ok && format.Select != nil {
		record.Format = models.Format(format.Select.Name)
	}
	if year, ok := page.Properties[propYear]; ok && year.Number != nil {
		y := int(*year.Number)
		record.Year = &y
	}

	return record
}
