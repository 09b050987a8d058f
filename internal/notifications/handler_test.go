package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ward-portal/internal/observability/metrics"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	svc := NewService(NewMemoryStore(Seed()...), clock, logging.Default())
	return NewHandler(svc, logging.Default()), svc
}

func TestHandler_ListWithUnreadCount(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?category=announcement", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp listResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 1, resp.Unread)
}

func TestHandler_ListRejectsUnknownCategory(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?category=rumors", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_OpenBookingNoticeShowsTicket(t *testing.T) {
	h, svc := newTestHandler(t)
	item, err := svc.PublishBookingConfirmation(context.Background(), "device-a", "Lịch hẹn thành công", "summary", BookingSnapshot{Code: "TT-1510-1330-5"})
	require.NoError(t, err)
	assert.False(t, item.Read)
	assert.True(t, item.IsBooking)

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, inboxRequest(http.MethodPost, "/"+item.ID+"/open", "device-a"))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp openResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, ActionShowTicket, resp.Action)
	assert.True(t, resp.Item.Read)

	// Stays read on every subsequent listing.
	for i := 0; i < 2; i++ {
		rr = httptest.NewRecorder()
		h.Routes().ServeHTTP(rr, inboxRequest(http.MethodGet, "/", "device-a"))
		var list listResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
		require.Equal(t, item.ID, list.Items[0].ID)
		assert.True(t, list.Items[0].Read)
	}
}

func inboxRequest(method, target, inbox string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(InboxHeader, inbox)
	return req
}

func TestHandler_BookingNoticeHiddenFromOtherInboxes(t *testing.T) {
	h, svc := newTestHandler(t)
	item, err := svc.PublishBookingConfirmation(context.Background(), "device-a", "Lịch hẹn thành công", "summary",
		BookingSnapshot{Name: "Nguyễn Văn A", Code: "TT-1510-1330-5"})
	require.NoError(t, err)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		inboxRequest(http.MethodGet, "/", "device-b"),
	} {
		rr := httptest.NewRecorder()
		h.Routes().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "Nguyễn Văn A")
		assert.NotContains(t, rr.Body.String(), item.ID)
	}

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, inboxRequest(http.MethodPost, "/"+item.ID+"/open", "device-b"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, inboxRequest(http.MethodGet, "/unread", "device-b"))
	assert.JSONEq(t, `{"unread":1}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/unread?inbox=device-a", nil))
	assert.JSONEq(t, `{"unread":2}`, rr.Body.String())

	got, err := svc.store.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, got.Read, "a foreign open never marks the notice read")
}

func TestService_PublishRequiresInbox(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	_, err := svc.PublishBookingConfirmation(context.Background(), "", "t", "s", BookingSnapshot{})
	assert.ErrorIs(t, err, ErrInboxRequired)
}

func TestHandler_OpenUnknown(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/nope/open", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Unread(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/unread", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"unread":1}`, rr.Body.String())
}

func TestService_OpenRecordsAction(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(NewMemoryStore(Seed()...), nil, nil).WithMetrics(metrics.NewPortalMetrics(reg))
	ctx := context.Background()

	for _, id := range []string{"seed-1", "seed-3", "seed-1"} {
		_, action, err := svc.Open(ctx, id, "")
		require.NoError(t, err)
		assert.Equal(t, ActionOpenURL, action)
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	var opened float64
	for _, mf := range families {
		if mf.GetName() != "ward_portal_notifications_opened_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			require.Equal(t, "open_url", m.GetLabel()[0].GetValue())
			opened += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 3.0, opened)
}
