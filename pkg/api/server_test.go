package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
	"github.com/matzehuels/rustprint/pkg/store"
	"github.com/matzehuels/rustprint/pkg/versions"
)

const hash169 = "84c898d65adf2f39a5a98507f1fe0ce10a2b8dbc"

var sample = []byte("\x00/home/dev/.cargo/registry/src/index.crates.io-6f17d22bba15001f/serde-1.0.152/src/lib.rs\x00" +
	"/rustc/" + hash169 + "/library/core/src/panicking.rs\x00" +
	"/home/dev/app/src/main.rs\x00")

func newTestServer(t *testing.T, withStore bool, maxBody int64) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, versions.Table{hash169: "1.69.0"}, nil)

	var st store.Store
	if withStore {
		fs, err := store.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		st = fs
		runner.Store = fs
	}
	srv := httptest.NewServer(NewServer(runner, st, maxBody, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false, 0)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body := decode[map[string]string](t, resp); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestAnalyzeAndFetch(t *testing.T) {
	srv := newTestServer(t, true, 0)

	resp, err := http.Post(srv.URL+"/v1/analyze?name=app", "application/octet-stream", bytes.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}
	report := decode[pipeline.Report](t, resp)
	if report.Name != "app" || len(report.Packages) != 1 {
		t.Errorf("report = %+v", report)
	}
	if report.ToolchainVersion == nil || *report.ToolchainVersion != "1.69.0" {
		t.Errorf("ToolchainVersion = %v", report.ToolchainVersion)
	}

	resp, err = http.Get(srv.URL + "/v1/reports/" + report.SHA256)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if got := decode[pipeline.Report](t, resp); got.ID != report.ID {
		t.Errorf("stored ID = %s, want %s", got.ID, report.ID)
	}

	resp, err = http.Get(srv.URL + "/v1/toolchains/" + hash169 + "/reports")
	if err != nil {
		t.Fatal(err)
	}
	tc := decode[toolchainResponse](t, resp)
	if len(tc.Reports) != 1 || tc.ToolchainVersion == nil || *tc.ToolchainVersion != "1.69.0" {
		t.Errorf("toolchain response = %+v", tc)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, true, 16)
	missing := strings.Repeat("a", 64)

	tests := []struct {
		name       string
		method     string
		path       string
		body       []byte
		wantStatus int
		wantCode   errors.Code
	}{
		{"empty body", http.MethodPost, "/v1/analyze", nil, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", http.MethodPost, "/v1/analyze", sample, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
		{"bad persist", http.MethodPost, "/v1/analyze?persist=maybe", []byte("x"), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad refresh", http.MethodPost, "/v1/analyze?refresh=sometimes", []byte("x"), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown report", http.MethodGet, "/v1/reports/" + missing, nil, http.StatusNotFound, errors.ErrCodeReportNotFound},
		{"bad digest", http.MethodGet, "/v1/reports/xyz", nil, http.StatusBadRequest, errors.ErrCodeInvalidHash},
		{"bad toolchain", http.MethodGet, "/v1/toolchains/xyz/reports", nil, http.StatusBadRequest, errors.ErrCodeInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, bytes.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body := decode[errorResponse](t, resp); body.Code != tt.wantCode || body.Message == "" {
				t.Errorf("body = %+v, want code %s", body, tt.wantCode)
			}
		})
	}
}

func TestReportsWithoutStore(t *testing.T) {
	srv := newTestServer(t, false, 0)

	resp, err := http.Get(srv.URL + "/v1/reports/" + strings.Repeat("a", 64))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
	if body := decode[errorResponse](t, resp); body.Code != errors.ErrCodeUnsupported {
		t.Errorf("code = %s", body.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeReportNotFound, http.StatusNotFound},
		{errors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{errors.ErrCodeIO, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
