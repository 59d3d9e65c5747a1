package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"docdesk/internal/catalog"
	"docdesk/internal/model"
	"docdesk/internal/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, actor *model.User) (http.Handler, store.Store) {
	t.Helper()
	ctx := context.Background()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	s := store.Store{Dir: t.TempDir()}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Seed(ctx, c, testNow); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv, err := NewServer(ServerConfig{
		Store:   s,
		Catalog: c,
		Actor:   actor,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv.Handler(), s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func noticeOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == noticeCookie {
			msg, err := url.QueryUnescape(c.Value)
			if err != nil {
				t.Fatalf("notice cookie: %v", err)
			}
			return msg
		}
	}
	return ""
}

func rowCount(body string) int { return strings.Count(body, `<tr data-id=`) }

func TestHealthAndHome(t *testing.T) {
	h, _ := newTestServer(t, nil)

	if rec := get(t, h, "/health"); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
	rec := get(t, h, "/")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/documents" {
		t.Fatalf("home: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := get(t, h, "/static/app.css"); rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("css: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestDocuments_FacetFilterAndReset(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := get(t, h, "/documents")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	body := rec.Body.String()
	if got := rowCount(body); got != 12 {
		t.Fatalf("expected 12 rows, got %d", got)
	}
	if strings.Contains(body, `class="reset"`) {
		t.Fatalf("reset link must be hidden without active filters")
	}

	body = get(t, h, "/documents?classification=confidential").Body.String()
	if got := rowCount(body); got != 3 {
		t.Fatalf("expected 3 confidential rows, got %d", got)
	}
	for _, id := range []string{"doc-sample03", "doc-sample07", "doc-sample11"} {
		if !strings.Contains(body, `data-id="`+id+`"`) {
			t.Fatalf("missing %s", id)
		}
	}
	if !strings.Contains(body, `<a class="reset" href="/documents">Reset</a>`) {
		t.Fatalf("expected reset link while filtered")
	}
}

func TestDocuments_SearchAndDates(t *testing.T) {
	h, _ := newTestServer(t, nil)

	if got := rowCount(get(t, h, "/documents?q=MEMO").Body.String()); got != 2 {
		t.Fatalf("search: expected 2 rows, got %d", got)
	}
	if got := rowCount(get(t, h, "/documents?from=2024-05-01").Body.String()); got != 5 {
		t.Fatalf("dates: expected 5 rows, got %d", got)
	}
}

func TestDocuments_BadParamIsReportedAndSkipped(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := get(t, h, "/documents?office=mars&type=memo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `class="problems"`) || !strings.Contains(body, "mars") {
		t.Fatalf("expected the rejected value to be reported")
	}
	// type=memo still applies: doc-sample01, 05, 09.
	if got := rowCount(body); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
}

func TestDocuments_Paging(t *testing.T) {
	h, _ := newTestServer(t, nil)

	body := get(t, h, "/documents?page=9").Body.String()
	if got := rowCount(body); got != 12 {
		t.Fatalf("out-of-range page should clamp to the last page, got %d rows", got)
	}
	if !strings.Contains(body, "Page 1/1") {
		t.Fatalf("expected pager text")
	}
}

func TestDocumentAction_ReleaseAndNoopStatus(t *testing.T) {
	h, s := newTestServer(t, nil)
	ctx := context.Background()

	rec := post(t, h, "/documents/doc-sample01/actions", url.Values{"action": {"release"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("release: %d %s", rec.Code, rec.Body.String())
	}
	if got := noticeOf(t, rec); got != "Released doc-sample01" {
		t.Fatalf("notice: %q", got)
	}
	doc, err := s.GetDocument(ctx, "doc-sample01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Status != "released" || doc.ReleasedAt == nil {
		t.Fatalf("expected released document, got %+v", doc)
	}

	rec = post(t, h, "/documents/doc-sample01/actions", url.Values{"action": {"release"}})
	if got := noticeOf(t, rec); got != "Already released" {
		t.Fatalf("second release notice: %q", got)
	}

	rec = post(t, h, "/documents/doc-sample02/actions", url.Values{"action": {"change-status"}, "status": {"pending"}})
	if got := noticeOf(t, rec); got != "Status unchanged: already Pending" {
		t.Fatalf("noop notice: %q", got)
	}
	rec = post(t, h, "/documents/doc-sample02/actions", url.Values{"action": {"change-status"}, "status": {"shredded"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: %d", rec.Code)
	}
}

func TestDocumentAction_NoticeShownOnce(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := post(t, h, "/documents/doc-sample02/actions", url.Values{"action": {"change-status"}, "status": {"received"}})
	if got := noticeOf(t, rec); got != "doc-sample02: Received" {
		t.Fatalf("notice: %q", got)
	}
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	page := httptest.NewRecorder()
	h.ServeHTTP(page, req)
	if !strings.Contains(page.Body.String(), "doc-sample02: Received") {
		t.Fatalf("expected notice on the next page")
	}
	var cleared bool
	for _, c := range page.Result().Cookies() {
		if c.Name == noticeCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected notice cookie to be cleared")
	}
}

func TestDocumentAction_DeleteAndRetitle(t *testing.T) {
	h, s := newTestServer(t, nil)
	ctx := context.Background()

	rec := post(t, h, "/documents/doc-sample01/actions", url.Values{"action": {"edit"}, "title": {"Annual Budget Memo 2024"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/documents/doc-sample01" {
		t.Fatalf("edit: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	doc, err := s.GetDocument(ctx, "doc-sample01")
	if err != nil || doc.Title != "Annual Budget Memo 2024" {
		t.Fatalf("retitle: %v %q", err, doc.Title)
	}

	rec = post(t, h, "/documents/doc-sample02/actions", url.Values{"action": {"delete"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := get(t, h, "/documents/doc-sample02"); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted document: %d", rec.Code)
	}
	if rec := post(t, h, "/documents/doc-sample02/actions", url.Values{"action": {"delete"}}); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing: %d", rec.Code)
	}
}

func TestDocumentAction_Permissions(t *testing.T) {
	viewer := store.SampleUsers(testNow)[3]
	h, s := newTestServer(t, &viewer)

	rec := post(t, h, "/documents/doc-sample01/actions", url.Values{"action": {"delete"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer delete: %d", rec.Code)
	}
	if _, err := s.GetDocument(context.Background(), "doc-sample01"); err != nil {
		t.Fatalf("document should survive: %v", err)
	}

	body := get(t, h, "/documents").Body.String()
	if strings.Contains(body, `value="delete"`) || strings.Contains(body, `value="release"`) {
		t.Fatalf("viewer must not see write actions")
	}
	if !strings.Contains(body, "Copy ID") {
		t.Fatalf("viewer should see Copy ID")
	}
	if rec := get(t, h, "/documents/doc-sample01"); rec.Code != http.StatusOK {
		t.Fatalf("viewer view: %d", rec.Code)
	}
}

func TestDocumentCopy_StreamsClipboardScript(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := post(t, h, "/documents/doc-sample01/copy", url.Values{})
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream") {
		t.Fatalf("content type: %q", rec.Header().Get("Content-Type"))
	}
	body := rec.Body.String()
	for _, want := range []string{"navigator.clipboard.writeText", "doc-sample01", "Copied: doc-sample01", "#toast"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in stream:\n%s", want, body)
		}
	}

	if rec := post(t, h, "/documents/doc-missing/copy", url.Values{}); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: %d", rec.Code)
	}
}

func TestDocumentCopy_DeniedForSuspendedUser(t *testing.T) {
	suspended := store.SampleUsers(testNow)[4]
	h, _ := newTestServer(t, &suspended)

	rec := post(t, h, "/documents/doc-sample01/copy", url.Values{})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "navigator.clipboard") {
		t.Fatalf("clipboard script sent to a denied user:\n%s", body)
	}
	if body := get(t, h, "/documents").Body.String(); strings.Contains(body, "Copy ID") {
		t.Fatalf("copy button shown to a denied user")
	}
}

func TestDocumentDetail_RendersMarkdownSummary(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := get(t, h, "/documents/doc-sample01")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<article class="summary-body"><h1>Annual Budget Memo</h1>`) {
		t.Fatalf("expected rendered summary heading:\n%s", body)
	}
	if !strings.Contains(body, `name="title" value="Annual Budget Memo"`) {
		t.Fatalf("expected rename form")
	}
}

func TestUsers_Filters(t *testing.T) {
	h, _ := newTestServer(t, nil)

	if got := rowCount(get(t, h, "/users").Body.String()); got != 5 {
		t.Fatalf("expected 5 users, got %d", got)
	}
	body := get(t, h, "/users?status=active").Body.String()
	if got := rowCount(body); got != 3 {
		t.Fatalf("expected 3 active users, got %d", got)
	}
	if got := rowCount(get(t, h, "/users?q=victor%40").Body.String()); got != 1 {
		t.Fatalf("search: expected 1 user, got %d", got)
	}
}

func TestReports_RequiresOutputFormat(t *testing.T) {
	h, s := newTestServer(t, nil)
	ctx := context.Background()

	rec := post(t, h, "/reports", url.Values{"classification": {"confidential"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Select a file type") {
		t.Fatalf("expected validation message")
	}
	recs, err := s.ListReports(ctx, 10)
	if err != nil || len(recs) != 0 {
		t.Fatalf("nothing should be queued: %v %d", err, len(recs))
	}

	rec = post(t, h, "/reports", url.Values{"classification": {"confidential"}, "format": {"csv"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/reports" {
		t.Fatalf("submit: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if got := noticeOf(t, rec); !strings.HasPrefix(got, "Report queued: ") {
		t.Fatalf("notice: %q", got)
	}
	recs, err = s.ListReports(ctx, 10)
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected one queued report: %v %d", err, len(recs))
	}
	req := recs[0].Request
	if req.Classification != "confidential" || req.OutputFormat != "csv" || !req.Offices.IsAll() {
		t.Fatalf("unexpected request: %+v", req)
	}

	body := get(t, h, "/reports").Body.String()
	if !strings.Contains(body, "Classification: confidential") || !strings.Contains(body, "CSV File") {
		t.Fatalf("expected the queued request in the list:\n%s", body)
	}
}

func TestReports_MatchedCount(t *testing.T) {
	h, _ := newTestServer(t, nil)

	body := get(t, h, "/reports?classification=confidential&format=pdf").Body.String()
	if !strings.Contains(body, "3 documents match") {
		t.Fatalf("expected matched count:\n%s", body)
	}
	if !strings.Contains(body, `<option value="pdf" selected>`) {
		t.Fatalf("expected pdf preselected")
	}
}
