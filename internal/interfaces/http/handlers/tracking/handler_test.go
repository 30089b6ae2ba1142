package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/application/preview"
	apptracking "github.com/SlnkoEnergy/Client-O-M/internal/application/tracking"
	"github.com/SlnkoEnergy/Client-O-M/internal/domain/ticket"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/capture"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/sessions"
	"github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/handlers/testutil"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
)

type mockDirectory struct {
	records []ticket.Record
	err     error
}

func (m *mockDirectory) TicketsByIdentifier(ctx context.Context, raw string) ([]ticket.Record, error) {
	return m.records, m.err
}

type mockRenderer struct{}

func (m *mockRenderer) ToHTMLSanitized(markdown string) (string, error) {
	return "<p>" + markdown + "</p>", nil
}

func sampleTicket(id string) ticket.Record {
	updated := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return ticket.Record{
		ID:               "obj-" + id,
		TicketID:         id,
		Project:          &ticket.ProjectRef{ID: "p1", Name: "Sunrise Solar", Customer: "Rahul Verma"},
		Equipment:        &ticket.EquipmentRef{ID: "e1", Name: "Inverter"},
		ShortDescription: "Inverter trips",
		CurrentStatus:    &ticket.StatusEntry{Status: "in progress", UpdatedAt: &updated},
	}
}

type fixture struct {
	handler   *Handler
	session   *sessions.Session
	directory *mockDirectory
}

func newFixture() *fixture {
	log := testutil.NewMockLogger()
	directory := &mockDirectory{}
	session := &sessions.Session{
		ID:       "test-session",
		Intake:   intake.NewController(nil, nil, nil, capture.UnavailableDevice{}, preview.NewRegistry(), log),
		Tracking: apptracking.NewController(directory, &mockRenderer{}, log),
	}
	return &fixture{
		handler:   NewHandler(log),
		session:   session,
		directory: directory,
	}
}

func (f *fixture) request(t *testing.T, handle gin.HandlerFunc, method, path string, body interface{}) (*httptest.ResponseRecorder, testutil.APIResponse) {
	t.Helper()
	c, w := testutil.NewTestContext(method, path, body)
	testutil.SetSessionContext(c, f.session)
	handle(c)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	return w, resp
}

func snapshotOf(t *testing.T, resp testutil.APIResponse) apptracking.Snapshot {
	t.Helper()
	var snap apptracking.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	return snap
}

func intPtr(v int) *int { return &v }

func TestSearch(t *testing.T) {
	t.Run("auto-opens a single match", func(t *testing.T) {
		f := newFixture()
		f.directory.records = []ticket.Record{sampleTicket("TKT-1")}

		w, resp := f.request(t, f.handler.Search, http.MethodPost, "/api/tracking/search", SearchRequest{Query: "TKT-1"})

		assert.Equal(t, http.StatusOK, w.Code)
		snap := snapshotOf(t, resp)
		assert.Equal(t, 0, snap.Selected)
		require.NotNil(t, snap.Detail)
		assert.Equal(t, "TKT-1", snap.Detail.TicketID)
		assert.Equal(t, "In Progress", snap.Detail.CurrentStatus)
	})

	t.Run("lists several matches for disambiguation", func(t *testing.T) {
		f := newFixture()
		f.directory.records = []ticket.Record{sampleTicket("TKT-1"), sampleTicket("TKT-2")}

		w, resp := f.request(t, f.handler.Search, http.MethodPost, "/api/tracking/search", SearchRequest{Query: "9876543210"})

		assert.Equal(t, http.StatusOK, w.Code)
		snap := snapshotOf(t, resp)
		assert.Equal(t, -1, snap.Selected)
		assert.Nil(t, snap.Detail)
		require.Len(t, snap.Results, 2)
	})

	t.Run("rejects a blank query", func(t *testing.T) {
		f := newFixture()
		w, resp := f.request(t, f.handler.Search, http.MethodPost, "/api/tracking/search", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
	})

	t.Run("reports zero matches as not found", func(t *testing.T) {
		f := newFixture()
		w, resp := f.request(t, f.handler.Search, http.MethodPost, "/api/tracking/search", SearchRequest{Query: "TKT-404"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
	})
}

func TestSelect(t *testing.T) {
	f := newFixture()
	f.directory.records = []ticket.Record{sampleTicket("TKT-1"), sampleTicket("TKT-2")}
	require.NoError(t, f.session.Tracking.Search(context.Background(), "9876543210"))

	t.Run("opens the chosen result", func(t *testing.T) {
		w, resp := f.request(t, f.handler.Select, http.MethodPost, "/api/tracking/select", SelectRequest{Index: intPtr(1)})

		assert.Equal(t, http.StatusOK, w.Code)
		snap := snapshotOf(t, resp)
		assert.Equal(t, 1, snap.Selected)
		require.NotNil(t, snap.Detail)
		assert.Equal(t, "TKT-2", snap.Detail.TicketID)
	})

	t.Run("negative index returns to the list", func(t *testing.T) {
		w, resp := f.request(t, f.handler.Select, http.MethodPost, "/api/tracking/select", SelectRequest{Index: intPtr(-1)})

		assert.Equal(t, http.StatusOK, w.Code)
		snap := snapshotOf(t, resp)
		assert.Equal(t, -1, snap.Selected)
		assert.Nil(t, snap.Detail)
	})

	t.Run("out-of-range index is rejected", func(t *testing.T) {
		w, resp := f.request(t, f.handler.Select, http.MethodPost, "/api/tracking/select", SelectRequest{Index: intPtr(5)})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
	})

	t.Run("missing index is rejected", func(t *testing.T) {
		w, resp := f.request(t, f.handler.Select, http.MethodPost, "/api/tracking/select", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
	})
}

func TestToggleAttachments(t *testing.T) {
	t.Run("flips the panel for the selected ticket", func(t *testing.T) {
		f := newFixture()
		f.directory.records = []ticket.Record{sampleTicket("TKT-1")}
		require.NoError(t, f.session.Tracking.Search(context.Background(), "TKT-1"))

		w, resp := f.request(t, f.handler.ToggleAttachments, http.MethodPost, "/api/tracking/attachments/toggle", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		snap := snapshotOf(t, resp)
		require.NotNil(t, snap.Detail)
		assert.True(t, snap.Detail.AttachmentsShown)
	})

	t.Run("fails with no selection", func(t *testing.T) {
		f := newFixture()
		w, resp := f.request(t, f.handler.ToggleAttachments, http.MethodPost, "/api/tracking/attachments/toggle", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
	})
}

func TestClearAndState(t *testing.T) {
	f := newFixture()
	f.directory.records = []ticket.Record{sampleTicket("TKT-1")}
	require.NoError(t, f.session.Tracking.Search(context.Background(), "TKT-1"))

	w, resp := f.request(t, f.handler.Clear, http.MethodPost, "/api/tracking/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := snapshotOf(t, resp)
	assert.Empty(t, snap.Query)
	assert.Empty(t, snap.Results)

	w, resp = f.request(t, f.handler.State, http.MethodGet, "/api/tracking/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, snapshotOf(t, resp).Selected)
}
