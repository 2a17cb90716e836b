package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestLinesPrintsLineText(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/log/lines" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{
			"lines": []map[string]any{
				{"seq": 0, "line": "<14>1 - - netlog - - - [    1.000000]: /usr/bin/a[1] TCP 10.0.0.1:1 -> 10.0.0.2:2 (uid=0)\n"},
				{"lost": true},
				{"seq": 5, "line": "<14>1 - - netlog - - - [    2.000000]: /usr/bin/b[2] TCP 10.0.0.1:3 -> 10.0.0.2:4 (uid=0)\n"},
			},
			"count": 3,
		})
	}))
	defer ts.Close()

	out, errOut, err := execute(t, NewLinesCommand(func() string { return ts.URL }),
		"--from-start", "--limit", "10")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(gotQuery, "from=oldest") || !strings.Contains(gotQuery, "limit=10") {
		t.Fatalf("query: %q", gotQuery)
	}
	if !strings.Contains(out, "/usr/bin/a[1]") || !strings.Contains(out, "/usr/bin/b[2]") {
		t.Fatalf("output: %q", out)
	}
	if !strings.Contains(errOut, "records lost") {
		t.Fatalf("stderr: %q", errOut)
	}
}

func TestTailStreamsSSE(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/log/tail" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"seq\":0,\"line\":\"line zero\\n\"}\n\n")
		_, _ = io.WriteString(w, "data: {\"seq\":1,\"line\":\"line one\\n\"}\n\n")
	}))
	defer ts.Close()

	out, _, err := execute(t, NewTailCommand(func() string { return ts.URL }), "--limit", "2")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "line zero\nline one\n" {
		t.Fatalf("output: %q", out)
	}
}

func TestTailJSONOutput(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"seq\":7,\"line\":\"x\\n\"}\n\n")
	}))
	defer ts.Close()

	out, _, err := execute(t, NewTailCommand(func() string { return ts.URL }), "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var it tailItem
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &it); err != nil {
		t.Fatalf("decode: %v (%q)", err, out)
	}
	if it.Seq != 7 {
		t.Fatalf("seq: %d", it.Seq)
	}
}

func TestWhitelistAddPrintsStatus(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/whitelist" {
			http.NotFound(w, r)
			return
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	out, _, err := execute(t, NewWhitelistCommand(func() string { return ts.URL }),
		"add", "/usr/bin/ssh|<22>")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(gotBody, "/usr/bin/ssh|<22>") {
		t.Fatalf("body: %q", gotBody)
	}
	if !strings.Contains(out, "status: 201") {
		t.Fatalf("output: %q", out)
	}
}

func TestWhitelistListPrintsRules(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"rules": []string{"/usr/sbin/ntpd|<123>"}, "cel": "uid == 0"})
	}))
	defer ts.Close()

	out, _, err := execute(t, NewWhitelistCommand(func() string { return ts.URL }), "list")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "/usr/sbin/ntpd|<123>") || !strings.Contains(out, "uid == 0") {
		t.Fatalf("output: %q", out)
	}
}

func TestProbesEnableSendsPut(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	out, _, err := execute(t, NewProbesCommand(func() string { return ts.URL }),
		"disable", "udp_bind")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/v1/probes/udp_bind" {
		t.Fatalf("request: %s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, "false") {
		t.Fatalf("body: %q", gotBody)
	}
	if !strings.Contains(out, "status: 204") {
		t.Fatalf("output: %q", out)
	}
}

func TestStatsPrintsJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ring": map[string]any{"firstSeq": 2, "nextSeq": 9},
		})
	}))
	defer ts.Close()

	out, _, err := execute(t, NewStatsCommand(func() string { return ts.URL }))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "nextSeq") {
		t.Fatalf("output: %q", out)
	}
}

func TestHTTPErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	cmd := NewStatsCommand(func() string { return ts.URL })
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error")
	}
}
