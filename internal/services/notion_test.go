package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"reelsync/internal/models"
)

func newTestNotionClient(t *testing.T, handler http.HandlerFunc) *NotionClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewNotionClientWithConfig(&NotionConfig{
		Token:      "secret",
		DatabaseID: "db-1",
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		Logger:     logger,
	})
}

func TestFindByExternalIDFilterShape(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/databases/db-1/query" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Notion-Version"); got != "2022-06-28" {
			t.Fatalf("unexpected Notion-Version %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization %q", got)
		}

		var request models.NotionQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if request.Filter == nil || request.Filter.Property != "TMDB ID" {
			t.Fatalf("unexpected filter: %+v", request.Filter)
		}
		if request.Filter.Number == nil || *request.Filter.Number.Equals != 49526 {
			t.Fatalf("unexpected number filter: %+v", request.Filter.Number)
		}

		_, _ = w.Write([]byte(`{"results":[{"id":"page-1","properties":{
			"Title":{"title":[{"plain_text":"Gravity"}]},
			"TMDB ID":{"number":49526},
			"Status":{"select":{"name":"💛 Watching"}},
			"Year":{"number":2013}
		}}]}`))
	})

	records, err := client.FindByExternalID(context.Background(), 49526)
	if err != nil {
		t.Fatalf("FindByExternalID returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	record := records[0]
	if record.Title != "Gravity" || record.ID != "page-1" {
		t.Errorf("unexpected record: %+v", record)
	}
	if record.ExternalID == nil || *record.ExternalID != 49526 {
		t.Errorf("unexpected external id: %v", record.ExternalID)
	}
	if record.Status != models.StatusWatching {
		t.Errorf("expected status watching, got %s", record.Status)
	}
	if record.Year == nil || *record.Year != 2013 {
		t.Errorf("unexpected year: %v", record.Year)
	}
}

func TestFindByTitleExactAndContains(t *testing.T) {
	var filters []models.NotionFilter
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		var request models.NotionQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		filters = append(filters, *request.Filter)
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	if _, err := client.FindByTitle(context.Background(), "Gravity", true); err != nil {
		t.Fatalf("exact FindByTitle returned error: %v", err)
	}
	if _, err := client.FindByTitle(context.Background(), "Gravity", false); err != nil {
		t.Fatalf("contains FindByTitle returned error: %v", err)
	}

	if filters[0].Title.Equals != "Gravity" || filters[0].Title.Contains != "" {
		t.Errorf("expected equals filter first, got %+v", filters[0].Title)
	}
	if filters[1].Title.Contains != "Gravity" || filters[1].Title.Equals != "" {
		t.Errorf("expected contains filter second, got %+v", filters[1].Title)
	}
}

func TestCreateRecordInjectsStatus(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pages" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var request models.NotionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if request.Parent.DatabaseID != "db-1" {
			t.Fatalf("unexpected parent %+v", request.Parent)
		}

		status, ok := request.Properties["Status"]
		if !ok || status.Select == nil || status.Select.Name != "🧡 To Watch" {
			t.Fatalf("expected default status property, got %+v", status)
		}
		if title := request.Properties["Title"]; len(title.Title) == 0 || title.Title[0].Text.Content != "Gravity" {
			t.Fatalf("unexpected title property: %+v", title)
		}

		_, _ = w.Write([]byte(`{"id":"page-1","properties":{}}`))
	})

	year := 2013
	record, err := client.CreateRecord(context.Background(), models.Properties{
		Title:      "Gravity",
		ExternalID: 49526,
		Format:     models.FormatMovie,
		Year:       &year,
	}, models.StatusToWatch)
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}
	if record.ID != "page-1" {
		t.Errorf("unexpected record id %q", record.ID)
	}
}

func TestUpdateRecordOmitsStatus(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pages/page-1" || r.Method != http.MethodPatch {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var request models.NotionUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := request.Properties["Status"]; ok {
			t.Fatal("update payload must never carry Status")
		}
		if _, ok := request.Properties["Title"]; !ok {
			t.Fatal("update payload missing Title")
		}

		_, _ = w.Write([]byte(`{"id":"page-1"}`))
	})

	err := client.UpdateRecord(context.Background(), "page-1", models.Properties{
		Title:      "Gravity",
		ExternalID: 49526,
		Format:     models.FormatMovie,
	})
	if err != nil {
		t.Fatalf("UpdateRecord returned error: %v", err)
	}
}

func TestUpdateStatusOnlyTouchesStatus(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		var request models.NotionUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(request.Properties) != 1 {
			t.Fatalf("expected only Status, got %d properties", len(request.Properties))
		}
		if status := request.Properties["Status"]; status.Select == nil || status.Select.Name != "💚 Watched" {
			t.Fatalf("unexpected status payload: %+v", status)
		}
		_, _ = w.Write([]byte(`{"id":"page-1"}`))
	})

	if err := client.UpdateStatus(context.Background(), "page-1", models.StatusWatched); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
}

func TestListAttachmentsFiltersImageBlocks(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blocks/page-1/children" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"results":[
			{"type":"paragraph"},
			{"type":"image","image":{"external":{"url":"https://img/poster.jpg"}}}
		]}`))
	})

	urls, err := client.ListAttachments(context.Background(), "page-1")
	if err != nil {
		t.Fatalf("ListAttachments returned error: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://img/poster.jpg" {
		t.Errorf("unexpected urls: %v", urls)
	}
}

func TestAppendImagePayload(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blocks/page-1/children" || r.Method != http.MethodPatch {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var request models.NotionAppendRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(request.Children) != 1 {
			t.Fatalf("expected one block, got %d", len(request.Children))
		}
		block := request.Children[0]
		if block.Type != "image" || block.Image == nil || block.Image.External.URL != "https://img/poster.jpg" {
			t.Fatalf("unexpected block: %+v", block)
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	if err := client.AppendImage(context.Background(), "page-1", "https://img/poster.jpg"); err != nil {
		t.Fatalf("AppendImage returned error: %v", err)
	}
}

func TestNotionHTTPError(t *testing.T) {
	client := newTestNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"validation_error"}`))
	})

	if _, err := client.FindByExternalID(context.Background(), 1); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
