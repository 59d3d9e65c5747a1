package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"docdesk/internal/filter"
	"docdesk/internal/perm"
	"docdesk/internal/report"
	"docdesk/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// setup returns a --dir with sample data and an isolated config dir.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	t.Setenv("DOCDESK_CLIPBOARD", "off")
	dir := t.TempDir()
	if _, stderr, err := runCLI(t, []string{"--dir", dir, "init", "--sample"}); err != nil {
		t.Fatalf("init: %v\nstderr: %s", err, stderr)
	}
	return dir
}

func decodeEnvelope(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, b)
	}
	for k := range env {
		if k != "data" && k != "meta" && k != "_hints" {
			t.Fatalf("unexpected top-level key %q in %s", k, b)
		}
	}
	return env
}

func listIDs(t *testing.T, env map[string]any) []string {
	t.Helper()
	rows, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %#v", env["data"])
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.(map[string]any)["id"].(string))
	}
	return ids
}

func TestInit_ReportsPaths(t *testing.T) {
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	dir := t.TempDir()
	out, stderr, err := runCLI(t, []string{"--dir", dir, "init"})
	if err != nil {
		t.Fatalf("init: %v\n%s", err, stderr)
	}
	env := decodeEnvelope(t, out)
	data := env["data"].(map[string]any)
	want := store.Store{Dir: dir}.SQLitePath()
	if data["sqlitePath"] != want {
		t.Fatalf("unexpected data: %#v", data)
	}
}

func TestDocumentsList_RequiresInit(t *testing.T) {
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	_, stderr, err := runCLI(t, []string{"--dir", t.TempDir(), "documents", "list"})
	if err == nil || !strings.Contains(string(stderr), "docdesk init") {
		t.Fatalf("expected init hint, got err=%v stderr=%s", err, stderr)
	}
}

func TestDocumentsList_Filters(t *testing.T) {
	dir := setup(t)

	out, _, err := runCLI(t, []string{"--dir", dir, "documents", "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	env := decodeEnvelope(t, out)
	meta := env["meta"].(map[string]any)
	if meta["total"].(float64) != 12 || meta["active"].(bool) {
		t.Fatalf("unexpected meta: %#v", meta)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "documents", "list", "--office", "Records Office"})
	if err != nil {
		t.Fatalf("list --office: %v", err)
	}
	env = decodeEnvelope(t, out)
	ids := listIDs(t, env)
	// Sample documents cycle through five offices; records is every fifth from the first.
	want := []string{"doc-sample01", "doc-sample06", "doc-sample11"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("ids=%v, want %v", ids, want)
	}
	meta = env["meta"].(map[string]any)
	if !meta["active"].(bool) {
		t.Fatalf("expected active filters: %#v", meta)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "documents", "list", "--search", "MEMO"})
	if err != nil {
		t.Fatalf("list --search: %v", err)
	}
	ids = listIDs(t, decodeEnvelope(t, out))
	if strings.Join(ids, ",") != "doc-sample01,doc-sample10" {
		t.Fatalf("unexpected search result: %v", ids)
	}
}

func TestDocumentsList_InvalidFacetValue(t *testing.T) {
	dir := setup(t)
	out, stderr, err := runCLI(t, []string{"--dir", dir, "documents", "list", "--office", "mars"})
	if !errors.Is(err, filter.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no output, got %s", out)
	}
	if !strings.Contains(string(stderr), "hint:") {
		t.Fatalf("expected a hint, got %s", stderr)
	}
}

func TestDocumentsList_DateRangeAndPaging(t *testing.T) {
	dir := setup(t)
	_, _, err := runCLI(t, []string{"--dir", dir, "documents", "list", "--to", "2024-01-01"})
	if !errors.Is(err, filter.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for --to without --from, got %v", err)
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "documents", "list", "--page-size", "5", "--page", "3"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	env := decodeEnvelope(t, out)
	if ids := listIDs(t, env); len(ids) != 2 {
		t.Fatalf("expected 2 rows on the last page, got %v", ids)
	}
	meta := env["meta"].(map[string]any)
	if meta["pages"].(float64) != 3 {
		t.Fatalf("unexpected meta: %#v", meta)
	}
}

func TestDocumentsList_Table(t *testing.T) {
	dir := setup(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "table", "documents", "list", "--type", "memo"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "ID") || !strings.Contains(s, "documents") || !strings.Contains(s, "Records Office") {
		t.Fatalf("unexpected table:\n%s", s)
	}
}

func TestSetStatus(t *testing.T) {
	dir := setup(t)

	out, _, err := runCLI(t, []string{"--dir", dir, "documents", "set-status", "doc-sample01", "Pending"})
	if err != nil {
		t.Fatalf("set-status: %v", err)
	}
	data := decodeEnvelope(t, out)["data"].(map[string]any)
	if !data["changed"].(bool) || data["document"].(map[string]any)["status"] != "pending" {
		t.Fatalf("unexpected result: %#v", data)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "documents", "set-status", "doc-sample01", "pending"})
	if err != nil {
		t.Fatalf("set-status again: %v", err)
	}
	env := decodeEnvelope(t, out)
	if env["data"].(map[string]any)["changed"].(bool) {
		t.Fatalf("same status must not change anything")
	}
	hints := env["_hints"].([]any)
	if len(hints) != 1 || !strings.Contains(hints[0].(string), "unchanged") {
		t.Fatalf("unexpected hints: %#v", hints)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "documents", "set-status", "doc-sample01", "shredded"})
	if !errors.Is(err, filter.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestReleaseAndDelete(t *testing.T) {
	dir := setup(t)

	if _, _, err := runCLI(t, []string{"--dir", dir, "documents", "release", "doc-sample02"}); err != nil {
		t.Fatalf("release: %v", err)
	}
	out, _, err := runCLI(t, []string{"--dir", dir, "documents", "release", "doc-sample02"})
	if err != nil {
		t.Fatalf("release again: %v", err)
	}
	if decodeEnvelope(t, out)["data"].(map[string]any)["changed"].(bool) {
		t.Fatalf("second release must be a no-op")
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "documents", "delete", "doc-sample02"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, _, err = runCLI(t, []string{"--dir", dir, "documents", "show", "doc-sample02"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetitle(t *testing.T) {
	dir := setup(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "documents", "retitle", "doc-sample03", "New title"})
	if err != nil {
		t.Fatalf("retitle: %v", err)
	}
	if got := decodeEnvelope(t, out)["data"].(map[string]any)["title"]; got != "New title" {
		t.Fatalf("title=%v", got)
	}
}

func TestCopyID_ClipboardUnavailableIsNotFatal(t *testing.T) {
	dir := setup(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "documents", "copy-id", "doc-sample04"})
	if err != nil {
		t.Fatalf("copy-id: %v", err)
	}
	env := decodeEnvelope(t, out)
	meta := env["meta"].(map[string]any)
	if meta["copied"].(bool) || !strings.HasPrefix(meta["notice"].(string), "Clipboard error:") {
		t.Fatalf("unexpected meta: %#v", meta)
	}
	if !env["data"].(map[string]any)["navigate"].(bool) {
		t.Fatalf("copy-id is a navigation intent: %#v", env["data"])
	}
}

func TestCopyID_DeniedForInactiveUser(t *testing.T) {
	dir := setup(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "--user", "sue@docdesk.local", "documents", "copy-id", "doc-sample01"})
	var denied perm.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if strings.Contains(string(out), "notice") {
		t.Fatalf("denied copy must not report a clipboard outcome: %s", out)
	}
}

func TestPermissions(t *testing.T) {
	dir := setup(t)
	_, _, err := runCLI(t, []string{"--dir", dir, "--user", "victor@docdesk.local", "documents", "release", "doc-sample01"})
	var denied perm.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--user", "usr-view0001", "documents", "show", "doc-sample01"}); err != nil {
		t.Fatalf("viewer should be able to view: %v", err)
	}
	_, _, err = runCLI(t, []string{"--dir", dir, "--user", "usr-staff001", "documents", "delete", "doc-sample01"})
	if !errors.As(err, &denied) {
		t.Fatalf("staff must not delete, got %v", err)
	}
}

func TestReportsGenerate(t *testing.T) {
	dir := setup(t)

	_, stderr, err := runCLI(t, []string{"--dir", dir, "reports", "generate", "--classification", "confidential"})
	if !errors.Is(err, report.ErrMissingOutputFormat) {
		t.Fatalf("expected ErrMissingOutputFormat, got %v", err)
	}
	if !strings.Contains(string(stderr), "--output") {
		t.Fatalf("expected validation hint, got %s", stderr)
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "reports", "generate", "--classification", "confidential", "--from", "2000-01-01", "--output", "csv"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	env := decodeEnvelope(t, out)
	rec := env["data"].(map[string]any)
	req := rec["request"].(map[string]any)
	if req["classification"] != "confidential" || req["offices"] != "all" || req["outputFormat"] != "csv" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if req["dateRange"].(map[string]any)["to"] != nil {
		t.Fatalf("open-ended range must carry a null to: %#v", req["dateRange"])
	}
	if env["meta"].(map[string]any)["matchedDocuments"].(float64) != 3 {
		t.Fatalf("unexpected meta: %#v", env["meta"])
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "reports", "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	recs := decodeEnvelope(t, out)["data"].([]any)
	if len(recs) != 1 || recs[0].(map[string]any)["id"] != rec["id"] {
		t.Fatalf("unexpected reports: %#v", recs)
	}
}

func TestReportsGenerate_DefaultFormatFromConfig(t *testing.T) {
	dir := setup(t)
	if _, _, err := runCLI(t, []string{"config", "set", "defaultOutputFormat", "pdf"}); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, _, err := runCLI(t, []string{"--dir", dir, "reports", "generate", "--preview"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	data := decodeEnvelope(t, out)["data"].(map[string]any)
	if data["outputFormat"] != "pdf" || data["dateRange"] != nil {
		t.Fatalf("unexpected request: %#v", data)
	}
	recs, err := store.Store{Dir: dir}.ListReports(t.Context(), 0)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("--preview must not queue")
	}
}

func TestUsers(t *testing.T) {
	dir := setup(t)

	out, _, err := runCLI(t, []string{"--dir", dir, "users", "list", "--role", "staff"})
	if err != nil {
		t.Fatalf("users list: %v", err)
	}
	ids := listIDs(t, decodeEnvelope(t, out))
	if strings.Join(ids, ",") != "usr-staff002,usr-staff001" {
		t.Fatalf("unexpected users: %v", ids)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "users", "list", "--search", "victor@"})
	if err != nil {
		t.Fatalf("users list --search: %v", err)
	}
	if ids := listIDs(t, decodeEnvelope(t, out)); len(ids) != 1 || ids[0] != "usr-view0001" {
		t.Fatalf("unexpected users: %v", ids)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "users", "add", "--name", "Nia New", "--email", "nia@docdesk.local", "--role", "Viewer"})
	if err != nil {
		t.Fatalf("users add: %v", err)
	}
	u := decodeEnvelope(t, out)["data"].(map[string]any)
	if u["role"] != "viewer" || u["status"] != "active" || !strings.HasPrefix(u["id"].(string), "usr-") {
		t.Fatalf("unexpected user: %#v", u)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "users", "add", "--name", "X", "--email", "x@docdesk.local", "--role", "all"})
	if !errors.Is(err, filter.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestDocumentsExport(t *testing.T) {
	dir := setup(t)
	dest := t.TempDir()

	out, stderr, err := runCLI(t, []string{"--dir", dir, "documents", "export", "--out", dest, "--from", "2024-01-01", "--classification", "confidential"})
	if err != nil {
		t.Fatalf("export: %v\nstderr: %s", err, stderr)
	}
	env := decodeEnvelope(t, out)
	if got := env["meta"].(map[string]any)["exported"]; got != float64(3) {
		t.Fatalf("expected 3 exported, got %v", got)
	}
	if written := env["data"].(map[string]any)["written"].([]any); len(written) != 4 {
		t.Fatalf("expected index plus 3 documents, got %v", written)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "documents", "export", "--out", dest, "--classification", "confidential"}); err == nil {
		t.Fatalf("expected an error when files exist without --overwrite")
	}
}

func TestCatalogAndDocs(t *testing.T) {
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	out, _, err := runCLI(t, []string{"catalog"})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	data := decodeEnvelope(t, out)["data"].(map[string]any)
	if len(data["outputFormats"].([]any)) != 3 {
		t.Fatalf("unexpected catalog: %#v", data)
	}

	out, _, err = runCLI(t, []string{"--format", "edn", "docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.HasPrefix(string(out), "{:data {:topics [") {
		t.Fatalf("unexpected edn: %s", out)
	}

	out, _, err = runCLI(t, []string{"docs", "filters", "--raw"})
	if err != nil || !strings.HasPrefix(string(out), "# Filters") {
		t.Fatalf("docs --raw: err=%v out=%s", err, out)
	}
}

func TestConfigSet_Validates(t *testing.T) {
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	if _, _, err := runCLI(t, []string{"config", "set", "defaultOutputFormat", "docx"}); !errors.Is(err, filter.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "set", "colour", "blue"}); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, _, err := runCLI(t, []string{"config", "set", "tui.pageSize", "50"}); err != nil {
		t.Fatalf("config set: %v", err)
	}
	cfg, err := store.LoadConfig()
	if err != nil || cfg.PageSize() != 50 {
		t.Fatalf("unexpected config: %+v err=%v", cfg, err)
	}
}

func TestUnknownFormat(t *testing.T) {
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	if _, _, err := runCLI(t, []string{"--format", "yaml", "catalog"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
