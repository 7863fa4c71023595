package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// TestDevIdentity verifies that the dev identity middleware sets member 1
// for all requests, enabling local development without Tailscale.
func TestDevIdentity(t *testing.T) {
	var gotID int
	var gotInfo UserInfo
	handler := DevIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = memberIDFromContext(r)
		gotInfo = userInfoFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotID != 1 {
		t.Errorf("memberID = %d, want 1", gotID)
	}
	if gotInfo.Login != "local" {
		t.Errorf("login = %q, want %q", gotInfo.Login, "local")
	}
}

// TestMemberIDFromContextDefault verifies the fallback to member 1 when no
// identity middleware has run.
func TestMemberIDFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := memberIDFromContext(req); id != 1 {
		t.Errorf("memberIDFromContext without context value = %d, want 1", id)
	}
	if info := userInfoFromContext(req); info.DisplayName != "Local Dev User" {
		t.Errorf("displayName = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestMemberIDFromContextSet verifies values stored by withUser are read back.
func TestMemberIDFromContextSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	info := UserInfo{MemberID: 42, Login: "alice@example.com", DisplayName: "Alice"}
	req = req.WithContext(withUser(req.Context(), info))

	if id := memberIDFromContext(req); id != 42 {
		t.Errorf("memberIDFromContext = %d, want 42", id)
	}
	if got := userInfoFromContext(req); got != info {
		t.Errorf("userInfoFromContext = %+v, want %+v", got, info)
	}
}

type fakeWhoIs struct {
	resp *apitype.WhoIsResponse
	err  error
}

func (f fakeWhoIs) WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error) {
	return f.resp, f.err
}

type fakeMembers struct {
	ids    map[string]int
	err    error
	logins []string
}

func (f *fakeMembers) GetOrCreateMember(ctx context.Context, login, displayName string) (int, error) {
	f.logins = append(f.logins, login)
	if f.err != nil {
		return 0, f.err
	}
	return f.ids[login], nil
}

// TestTailscaleIdentity verifies a resolved tailnet login is mapped to its
// member ID.
func TestTailscaleIdentity(t *testing.T) {
	whois := fakeWhoIs{resp: &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: "alice@example.com", DisplayName: "Alice"},
	}}
	members := &fakeMembers{ids: map[string]int{"alice@example.com": 7}}

	var got UserInfo
	handler := TailscaleIdentity(whois, members, discardLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = userInfoFromContext(r)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := UserInfo{MemberID: 7, Login: "alice@example.com", DisplayName: "Alice"}
	if got != want {
		t.Errorf("user = %+v, want %+v", got, want)
	}
}

// TestTailscaleIdentityRejects verifies unknown callers get 401 and member
// lookup failures get 500, without reaching the handler.
func TestTailscaleIdentityRejects(t *testing.T) {
	alice := &apitype.WhoIsResponse{UserProfile: &tailcfg.UserProfile{LoginName: "alice@example.com"}}
	tests := []struct {
		name    string
		whois   fakeWhoIs
		members *fakeMembers
		want    int
	}{
		{"whois error", fakeWhoIs{err: errors.New("no peer")}, &fakeMembers{}, http.StatusUnauthorized},
		{"no profile", fakeWhoIs{resp: &apitype.WhoIsResponse{}}, &fakeMembers{}, http.StatusUnauthorized},
		{"member error", fakeWhoIs{resp: alice}, &fakeMembers{err: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := TailscaleIdentity(tt.whois, tt.members, discardLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("next handler should not be called")
			}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(discardLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
