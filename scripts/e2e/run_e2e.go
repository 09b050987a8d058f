// Package main runs end-to-end checks against a running portal API.
//
// Scenarios cover the citizen flows:
//   - Health and static catalogues
//   - Booking: dates, slots, preview, confirm, lookup and history
//   - Inbox: the confirmation notice arrives unread in the booking's inbox only
//   - Chat: session create, one reply per message, reset and close
//   - Tracking and scorecard lookups
//
// Usage:
//
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go            # runs all
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go booking    # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	testNationalID = "079099000001"
	testPhone      = "0909000001"
	testName       = "Người Kiểm Thử"
)

var (
	apiBase string
	client  = &http.Client{Timeout: 45 * time.Second}

	codePattern = regexp.MustCompile(`^TT-\d{4}-\d{4}-\d{2,3}$`)
)

// ---------------------------------------------------------------------------
// Scenario definition
// ---------------------------------------------------------------------------

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func call(method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w (%s)", method, path, err, string(raw))
		}
	}
	return resp.StatusCode, nil
}

func unread(inbox string) (int, error) {
	var out struct {
		Unread int `json:"unread"`
	}
	_, err := call(http.MethodGet, "/api/notifications/unread?inbox="+inbox, nil, &out)
	return out.Unread, err
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func scenarioHealth(t *T) {
	for _, path := range []string{"/health", "/api/procedures", "/api/procedures/categories", "/api/links", "/api/online-services", "/api/today"} {
		status, err := call(http.MethodGet, path, nil, nil)
		t.check(path+" returns 200", err == nil && status == http.StatusOK)
	}
}

func scenarioBooking(t *T) {
	var dates struct {
		Dates []struct {
			Date string `json:"date"`
		} `json:"dates"`
	}
	if _, err := call(http.MethodGet, "/api/booking/dates", nil, &dates); err != nil || len(dates.Dates) == 0 {
		t.fatalf("no bookable dates: %v", err)
		return
	}
	noSunday := true
	for _, d := range dates.Dates {
		if day, err := time.Parse("2006-01-02", d.Date); err != nil || day.Weekday() == time.Sunday {
			noSunday = false
		}
	}
	t.check("booking window skips Sundays", noSunday)

	var date, slot string
	for _, d := range dates.Dates {
		var slots struct {
			Slots []string `json:"slots"`
		}
		if _, err := call(http.MethodGet, "/api/booking/slots?date="+d.Date, nil, &slots); err == nil && len(slots.Slots) > 0 {
			date, slot = d.Date, slots.Slots[len(slots.Slots)-1]
			break
		}
	}
	if date == "" {
		t.fatalf("no free slot in the window")
		return
	}

	inbox := fmt.Sprintf("e2e-%d", time.Now().UnixNano())
	before, err := unread(inbox)
	if err != nil {
		t.fatalf("unread count: %v", err)
		return
	}

	req := map[string]string{
		"service":      "land",
		"date":         date,
		"slot":         slot,
		"citizen_name": testName,
		"national_id":  testNationalID,
		"phone":        testPhone,
		"inbox_id":     inbox,
	}
	status, _ := call(http.MethodPost, "/api/booking/preview", req, nil)
	t.check("preview accepted", status == http.StatusOK)

	var conf struct {
		Booking struct {
			Code    string `json:"code"`
			Counter string `json:"counter"`
		} `json:"booking"`
	}
	status, err = call(http.MethodPost, "/api/bookings", req, &conf)
	if err != nil || status != http.StatusCreated {
		t.fatalf("confirm returned %d: %v", status, err)
		return
	}
	t.check("code format "+conf.Booking.Code, codePattern.MatchString(conf.Booking.Code))
	t.check("land desk is counter 11", conf.Booking.Counter == "11")

	status, _ = call(http.MethodGet, "/api/bookings/"+strings.ToLower(conf.Booking.Code), nil, nil)
	t.check("lookup by code is case-insensitive", status == http.StatusOK)

	var history struct {
		Count    int `json:"count"`
		Bookings []struct {
			NationalID string `json:"national_id"`
		} `json:"bookings"`
	}
	_, err = call(http.MethodGet, "/api/bookings?national_id="+testNationalID, nil, &history)
	t.check("history lists the booking", err == nil && history.Count >= 1)
	t.check("history masks the national id", len(history.Bookings) > 0 && history.Bookings[0].NationalID != testNationalID &&
		strings.HasSuffix(history.Bookings[0].NationalID, testNationalID[len(testNationalID)-3:]))

	after, err := unread(inbox)
	t.check("confirmation notice arrived unread", err == nil && after == before+1)
	others, err := unread("e2e-someone-else")
	t.check("notice stays in the booking's inbox", err == nil && others == before)

	var missing struct{}
	status, _ = call(http.MethodPost, "/api/bookings", map[string]string{"service": "land"}, &missing)
	t.check("incomplete form rejected", status == http.StatusBadRequest)
}

func scenarioChat(t *T) {
	var session struct {
		ID       string `json:"id"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	status, err := call(http.MethodPost, "/api/chat/sessions", map[string]string{"lang": "vi"}, &session)
	if err != nil || status != http.StatusCreated {
		t.fatalf("create session returned %d: %v", status, err)
		return
	}
	t.check("session opens with the welcome message", len(session.Messages) == 1)

	var sent struct {
		Reply struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"reply"`
	}
	start := time.Now()
	status, err = call(http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages", map[string]string{"text": "Làm căn cước công dân cần gì?"}, &sent)
	t.check(fmt.Sprintf("reply received in %v", time.Since(start).Round(time.Millisecond)),
		err == nil && status == http.StatusOK && sent.Reply.Role == "assistant" && sent.Reply.Text != "")

	status, _ = call(http.MethodPost, "/api/chat/sessions/"+session.ID+"/messages", map[string]string{"text": "   "}, nil)
	t.check("blank message rejected", status == http.StatusBadRequest)

	status, _ = call(http.MethodPost, "/api/chat/sessions/"+session.ID+"/reset", nil, &session)
	t.check("reset keeps only the welcome", status == http.StatusOK && len(session.Messages) == 1)

	status, _ = call(http.MethodDelete, "/api/chat/sessions/"+session.ID, nil, nil)
	t.check("session closed", status == http.StatusNoContent)
}

func scenarioLookups(t *T) {
	var doc struct {
		Status string `json:"status"`
	}
	status, err := call(http.MethodGet, "/api/tracking/hs-2023-001", nil, &doc)
	t.check("sample dossier found", err == nil && status == http.StatusOK && doc.Status != "")

	status, _ = call(http.MethodGet, "/api/tracking/HS-0000-000", nil, nil)
	t.check("unknown dossier is 404", status == http.StatusNotFound)

	var report struct {
		TotalScore float64    `json:"total_score"`
		Trend      []struct{} `json:"trend"`
	}
	status, err = call(http.MethodGet, "/api/scorecard", nil, &report)
	t.check("scorecard has five trend points", err == nil && status == http.StatusOK && len(report.Trend) == 5)
	t.check("score capped at 100", report.TotalScore <= 100)
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	scenarios := []scenario{
		{Name: "health", Fn: scenarioHealth},
		{Name: "booking", Fn: scenarioBooking},
		{Name: "chat", Fn: scenarioChat},
		{Name: "lookups", Fn: scenarioLookups},
	}

	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	var passed, failed int
	for _, sc := range scenarios {
		if filter != "" && sc.Name != filter {
			continue
		}
		fmt.Printf("\n=== %s ===\n", sc.Name)
		t := &T{name: sc.Name}
		sc.Fn(t)
		passed += t.passed
		failed += t.failed
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
