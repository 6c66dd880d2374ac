package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	keys := []string{"", "chave-juridica", "segunda-chave"}

	tests := []struct {
		name       string
		keys       []string
		path       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "no keys disables auth", keys: nil, path: "/v1/glossary", wantStatus: http.StatusOK},
		{name: "blank keys disable auth", keys: []string{"", ""}, path: "/v1/glossary", wantStatus: http.StatusOK},
		{name: "first key", keys: keys, path: "/v1/glossary", header: "Bearer chave-juridica", wantStatus: http.StatusOK},
		{name: "second key", keys: keys, path: "/v1/sessions/s1/memory", header: "Bearer segunda-chave", wantStatus: http.StatusOK},
		{name: "health exempt", keys: keys, path: "/health", wantStatus: http.StatusOK},
		{name: "metrics exempt", keys: keys, path: "/metrics", wantStatus: http.StatusOK},
		{
			name: "missing header", keys: keys, path: "/v1/glossary",
			wantStatus: http.StatusUnauthorized, wantMsg: "missing authorization header",
		},
		{
			name: "basic scheme", keys: keys, path: "/v1/glossary", header: "Basic chave-juridica",
			wantStatus: http.StatusUnauthorized, wantMsg: "authorization header must use Bearer scheme",
		},
		{
			name: "wrong key", keys: keys, path: "/v1/glossary", header: "Bearer chave-errada",
			wantStatus: http.StatusUnauthorized, wantMsg: "invalid api key",
		},
		{
			name: "key prefix only", keys: keys, path: "/v1/glossary", header: "Bearer chave",
			wantStatus: http.StatusUnauthorized, wantMsg: "invalid api key",
		},
		{
			name: "empty token", keys: keys, path: "/v1/glossary", header: "Bearer ",
			wantStatus: http.StatusUnauthorized, wantMsg: "invalid api key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tt.keys)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				return
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Code != CodeUnauthorized || resp.Message != tt.wantMsg {
				t.Errorf("error = %+v, want %s %q", resp, CodeUnauthorized, tt.wantMsg)
			}
		})
	}
}

func TestValidKey(t *testing.T) {
	keys := [][]byte{[]byte("a1"), []byte("b2")}
	for token, want := range map[string]bool{"a1": true, "b2": true, "c3": false, "": false, "a1b2": false} {
		if got := validKey(keys, []byte(token)); got != want {
			t.Errorf("validKey(%q) = %v, want %v", token, got, want)
		}
	}
}
