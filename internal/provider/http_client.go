package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tdaniel1925/easemail-saas-sub000/pkg/config"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// HTTPClient talks to the provider gateway over its grant-scoped REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient builds a client from configuration. The HTTP client's
// timeout is the only bound on a call; nothing here retries.
func NewHTTPClient(cfg *config.ProviderConfig, httpClient *http.Client) *HTTPClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: httpClient,
	}
}

func (c *HTTPClient) ListCalendars(ctx context.Context, grantID string) ([]Calendar, error) {
	defer prometheus.TrackProviderCall("list_calendars")(time.Now())
	var out struct {
		Data []Calendar `json:"data"`
	}
	path := fmt.Sprintf("/v3/grants/%s/calendars", url.PathEscape(grantID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		prometheus.RecordProviderError("list_calendars")
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, grantID string, q EventQuery) (EventPage, error) {
	defer prometheus.TrackProviderCall("list_events")(time.Now())
	query := url.Values{}
	query.Set("calendar_id", q.CalendarID)
	if !q.Start.IsZero() {
		query.Set("start", strconv.FormatInt(q.Start.Unix(), 10))
	}
	if !q.End.IsZero() {
		query.Set("end", strconv.FormatInt(q.End.Unix(), 10))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.PageToken != "" {
		query.Set("page_token", q.PageToken)
	}
	var out EventPage
	path := fmt.Sprintf("/v3/grants/%s/events?%s", url.PathEscape(grantID), query.Encode())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		prometheus.RecordProviderError("list_events")
		return EventPage{}, err
	}
	return out, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, grantID string, input EventInput) (*Event, error) {
	defer prometheus.TrackProviderCall("create_event")(time.Now())
	var out struct {
		Data Event `json:"data"`
	}
	path := fmt.Sprintf("/v3/grants/%s/events?calendar_id=%s",
		url.PathEscape(grantID), url.QueryEscape(input.CalendarID))
	if err := c.doJSON(ctx, http.MethodPost, path, input, &out); err != nil {
		prometheus.RecordProviderError("create_event")
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, grantID, eventID string, input EventInput) (*Event, error) {
	defer prometheus.TrackProviderCall("update_event")(time.Now())
	var out struct {
		Data Event `json:"data"`
	}
	path := fmt.Sprintf("/v3/grants/%s/events/%s?calendar_id=%s",
		url.PathEscape(grantID), url.PathEscape(eventID), url.QueryEscape(input.CalendarID))
	if err := c.doJSON(ctx, http.MethodPut, path, input, &out); err != nil {
		prometheus.RecordProviderError("update_event")
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, grantID, eventID, calendarID string) error {
	defer prometheus.TrackProviderCall("delete_event")(time.Now())
	path := fmt.Sprintf("/v3/grants/%s/events/%s?calendar_id=%s",
		url.PathEscape(grantID), url.PathEscape(eventID), url.QueryEscape(calendarID))
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		prometheus.RecordProviderError("delete_event")
		return err
	}
	return nil
}

func (c *HTTPClient) ListFolders(ctx context.Context, grantID string) ([]Folder, error) {
	defer prometheus.TrackProviderCall("list_folders")(time.Now())
	var out struct {
		Data []Folder `json:"data"`
	}
	path := fmt.Sprintf("/v3/grants/%s/folders", url.PathEscape(grantID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		prometheus.RecordProviderError("list_folders")
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, grantID string, input FolderInput) (*Folder, error) {
	defer prometheus.TrackProviderCall("create_folder")(time.Now())
	var out struct {
		Data Folder `json:"data"`
	}
	path := fmt.Sprintf("/v3/grants/%s/folders", url.PathEscape(grantID))
	if err := c.doJSON(ctx, http.MethodPost, path, input, &out); err != nil {
		prometheus.RecordProviderError("create_folder")
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) UpdateFolder(ctx context.Context, grantID, folderID string, input FolderInput) (*Folder, error) {
	defer prometheus.TrackProviderCall("update_folder")(time.Now())
	var out struct {
		Data Folder `json:"data"`
	}
	path := fmt.Sprintf("/v3/grants/%s/folders/%s", url.PathEscape(grantID), url.PathEscape(folderID))
	if err := c.doJSON(ctx, http.MethodPut, path, input, &out); err != nil {
		prometheus.RecordProviderError("update_folder")
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) DeleteFolder(ctx context.Context, grantID, folderID string) error {
	defer prometheus.TrackProviderCall("delete_folder")(time.Now())
	path := fmt.Sprintf("/v3/grants/%s/folders/%s", url.PathEscape(grantID), url.PathEscape(folderID))
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		prometheus.RecordProviderError("delete_folder")
		return err
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, requestPath string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	payloadBytes, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if out == nil || len(payloadBytes) == 0 {
			return nil
		}
		return json.Unmarshal(payloadBytes, out)
	}

	var errPayload struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(payloadBytes, &errPayload)
	message := errPayload.Error.Message
	if message == "" {
		message = errPayload.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(payloadBytes))
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Code:       errPayload.Error.Type,
		Message:    message,
	}
}
