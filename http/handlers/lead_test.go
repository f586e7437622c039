package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lead-intake/errors"
	"lead-intake/models"
	"lead-intake/store"

	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu    sync.Mutex
	leads []models.Lead
}

func (d *recordingDispatcher) Dispatch(lead models.Lead) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.leads = append(d.leads, lead)
}

type brokenRepo struct{}

func (brokenRepo) Append(context.Context, models.Lead) (models.Lead, error) {
	return models.Lead{}, errors.NewIOError("cannot open lead log", os.ErrPermission)
}

func (brokenRepo) ScanAll(context.Context) ([]store.Entry, error) {
	return nil, errors.NewIOError("cannot read lead log", os.ErrPermission)
}

func newTestService(t *testing.T) (*LeadService, *store.LeadStore, *recordingDispatcher) {
	t.Helper()
	s := store.NewLeadStore(filepath.Join(t.TempDir(), "data", "leads.jsonl"))
	d := &recordingDispatcher{}
	return NewLeadService(s, d), s, d
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(body)))
	return w
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSubmitLeadStoresValidSubmission(t *testing.T) {
	req := require.New(t)
	svc, s, d := newTestService(t)

	w := post(svc.SubmitLead, `{"name":"Jo","business":"Jo's Plumbing","email":"jo@x.com","service":"drain cleaning","timeframe":"this week"}`)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"ok":true}`, w.Body.String())

	entries, err := s.ScanAll(context.Background())
	req.NoError(err)
	leads := store.Leads(entries)
	req.Len(leads, 1)
	req.Equal("Jo", leads[0].Name)
	req.Equal("", leads[0].Phone)
	req.Equal("", leads[0].Notes)
	req.False(leads[0].CreatedAt.IsZero())

	req.Len(d.leads, 1)
	req.Equal(leads[0], d.leads[0])
}

func TestSubmitLeadReportsFieldErrors(t *testing.T) {
	req := require.New(t)
	svc, s, d := newTestService(t)

	w := post(svc.SubmitLead, `{"name":"","business":"X","email":"bad-email","service":"Y","timeframe":"Z"}`)
	req.Equal(http.StatusBadRequest, w.Code)
	req.JSONEq(`{"error":{
		"fieldErrors":{
			"name":["String must contain at least 1 character(s)"],
			"email":["Invalid email"]
		},
		"formErrors":[]
	}}`, w.Body.String())

	entries, err := s.ScanAll(context.Background())
	req.NoError(err)
	req.Empty(entries)
	req.Empty(d.leads)
}

func TestSubmitLeadRejectsMalformedBodies(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, body := range []string{`{"name":`, ``, `[1,2]`} {
		w := post(svc.SubmitLead, body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)

		var out SubmitLeadError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Error.FormErrors, 1)
	}
}

func TestSubmitLeadRejectsOversizedBody(t *testing.T) {
	svc, _, _ := newTestService(t)
	w := post(svc.SubmitLead, `{"notes":"`+strings.Repeat("x", 70<<10)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSubmitLeadStoreFailure(t *testing.T) {
	req := require.New(t)
	d := &recordingDispatcher{}
	svc := NewLeadService(brokenRepo{}, d)

	w := post(svc.SubmitLead, `{"name":"Jo","business":"B","email":"jo@x.com","service":"S","timeframe":"T"}`)
	req.Equal(http.StatusInternalServerError, w.Code)
	req.JSONEq(`{"error":"Failed to save lead"}`, w.Body.String())
	req.Empty(d.leads)
}

func TestSubmitLeadMethodNotAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)
	w := get(svc.SubmitLead, "/api/lead")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestListLeadsBeforeAnySubmission(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)

	w := get(svc.ListLeads, "/admin/leads")
	req.Equal(http.StatusOK, w.Code)
	req.Equal("application/json", w.Header().Get("Content-Type"))
	req.Equal("{\n  \"count\": 0,\n  \"leads\": []\n}", w.Body.String())
}

func TestListLeadsSkipsCorruptRecords(t *testing.T) {
	req := require.New(t)
	svc, s, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		_, err := s.Append(ctx, models.Lead{Name: name, Business: "B", Email: "a@b.co", Service: "S", Timeframe: "T"})
		req.NoError(err)
	}
	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	req.NoError(err)
	_, err = f.WriteString("{not json\n")
	req.NoError(err)
	req.NoError(f.Close())

	w := get(svc.ListLeads, "/admin/leads")
	req.Equal(http.StatusOK, w.Code)

	var out ListLeadsResponse
	req.NoError(json.Unmarshal(w.Body.Bytes(), &out))
	req.Equal(2, out.Count)
	req.Equal("A", out.Leads[0].Name)
	req.Equal("B", out.Leads[1].Name)
}

func TestListLeadsTimeFilters(t *testing.T) {
	req := require.New(t)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	s := store.NewLeadStore(filepath.Join(t.TempDir(), "leads.jsonl"), store.WithClock(func() time.Time {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		i++
		return ts
	}))
	svc := NewLeadService(s, nil)

	for _, name := range []string{"day0", "day1", "day2"} {
		_, err := s.Append(context.Background(), models.Lead{Name: name, Business: "B", Email: "a@b.co", Service: "S", Timeframe: "T"})
		req.NoError(err)
	}

	w := get(svc.ListLeads, "/admin/leads?created_after=2025-05-02T00:00:00Z&created_before=2025-05-02T23:59:59Z")
	req.Equal(http.StatusOK, w.Code)
	var out ListLeadsResponse
	req.NoError(json.Unmarshal(w.Body.Bytes(), &out))
	req.Equal(1, out.Count)
	req.Equal("day1", out.Leads[0].Name)

	w = get(svc.ListLeads, "/admin/leads?created_after=yesterday")
	req.Equal(http.StatusBadRequest, w.Code)
	req.JSONEq(`{"error":"invalid created_after format. Use RFC3339 (e.g., 2025-11-13T10:00:00Z)"}`, w.Body.String())
}

func TestListLeadsStoreFailure(t *testing.T) {
	svc := NewLeadService(brokenRepo{}, nil)
	w := get(svc.ListLeads, "/admin/leads")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExports(t *testing.T) {
	req := require.New(t)
	svc, s, _ := newTestService(t)
	_, err := s.Append(context.Background(), models.Lead{Name: "Jo", Business: "B", Email: "a@b.co", Service: "S", Timeframe: "T"})
	req.NoError(err)

	w := get(svc.ExportLeadsExcel, "/admin/leads.xlsx")
	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Header().Get("Content-Disposition"), ".xlsx")
	req.True(strings.HasPrefix(w.Body.String(), "PK"))

	w = get(svc.ExportLeadsPDF, "/admin/leads.pdf")
	req.Equal(http.StatusOK, w.Code)
	req.Equal("application/pdf", w.Header().Get("Content-Type"))
	req.True(strings.HasPrefix(w.Body.String(), "%PDF-"))
}
