package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, server *httptest.Server) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(HTTPConfig{
		ServerURL:    server.URL,
		AvatarAPIURL: server.URL + "/avatars/",
		Timeout:      2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewHTTPClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  HTTPConfig
	}{
		{"empty server", HTTPConfig{AvatarAPIURL: "http://a"}},
		{"empty avatar", HTTPConfig{ServerURL: "http://s"}},
		{"bad scheme", HTTPConfig{ServerURL: "ftp://s", AvatarAPIURL: "http://a"}},
		{"unparsable", HTTPConfig{ServerURL: "://bad", AvatarAPIURL: "http://a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPClient(tt.cfg)
			require.Error(t, err)
		})
	}

	c, err := NewHTTPClient(HTTPConfig{ServerURL: "http://localhost:5000/", AvatarAPIURL: "https://api.multiavatar.com/45678945"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.serverURL)
}

func TestGetContacts_WrappedUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/allusers/u1", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{
				{"_id": "b", "username": "bob", "avatarImage": "Qg=="},
				{"_id": "a", "username": "ann", "avatarImage": "QQ=="},
			},
		})
	}))
	defer server.Close()

	got, err := newTestClient(t, server).GetContacts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Contact{
		{ID: "b", Username: "bob", AvatarImage: "Qg=="},
		{ID: "a", Username: "ann", AvatarImage: "QQ=="},
	}, got, "server order must be preserved")
}

func TestGetContacts_BareArrayAndEmpty(t *testing.T) {
	body := `[{"_id":"c","username":"cid","avatarImage":"Qw=="}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()
	c := newTestClient(t, server)

	got, err := c.GetContacts(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cid", got[0].Username)

	body = `{"users":null}`
	got, err = c.GetContacts(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetContacts_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).GetContacts(context.Background(), "u1")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.ErrorIs(t, err, common.ErrNetwork)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestGetContacts_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"users":`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).GetContacts(context.Background(), "u1")
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestGetContacts_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(t, server)
	server.Close()

	_, err := c.GetContacts(context.Background(), "u1")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestGetContacts_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server).GetContacts(ctx, "u1")
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, common.ErrNetwork)
}

func TestDo_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c, err := NewHTTPClient(HTTPConfig{ServerURL: server.URL, AvatarAPIURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.GetContacts(context.Background(), "u1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSetAvatar(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/setavatar/u1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"isSet": true, "image": "CANON"})
	}))
	defer server.Close()

	commit, err := newTestClient(t, server).SetAvatar(context.Background(), "u1", "SUBMITTED")
	require.NoError(t, err)
	assert.Equal(t, AvatarCommit{Accepted: true, CanonicalPayload: "CANON"}, commit)
	assert.Equal(t, "SUBMITTED", gotBody["image"])
}

func TestSetAvatar_NotAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isSet":false}`))
	}))
	defer server.Close()

	commit, err := newTestClient(t, server).SetAvatar(context.Background(), "u1", "P")
	require.NoError(t, err)
	assert.False(t, commit.Accepted)
}

func TestSetAvatar_AcceptedWithoutImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isSet":true,"image":""}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).SetAvatar(context.Background(), "u1", "P")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGetCandidate_Base64EncodesBody(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/avatars/42", r.URL.Path)
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(svg))
	}))
	defer server.Close()

	got, err := newTestClient(t, server).GetCandidate(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(svg)), got)
}

func TestGetCandidate_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	_, err := newTestClient(t, server).GetCandidate(context.Background(), 1)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			_, _ = w.Write([]byte(`{"status":false,"msg":"Incorrect Username or Password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":true,"user":{"_id":"u1","username":"alice","isAvatarImageSet":false}}`))
	}))
	defer server.Close()
	c := newTestClient(t, server)

	id, err := c.Login(context.Background(), "alice", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: "u1", Username: "alice"}, id)

	_, err = c.Login(context.Background(), "alice", []byte("wrong"))
	require.ErrorIs(t, err, ErrRejected)
	require.ErrorIs(t, err, common.ErrRemoteRejection)
	assert.Contains(t, err.Error(), "Incorrect Username or Password")
}

func TestEncodeLogin_MatchesJSONEncoding(t *testing.T) {
	for _, pw := range []string{"", "secret", `qu"ote\back`, "tab\tnl\nnul\x00", "pässwörd"} {
		body, err := encodeLogin(`al"ice`, []byte(pw))
		require.NoError(t, err)

		var got loginRequest
		require.NoError(t, json.Unmarshal(body, &got), "body %q", body)
		assert.Equal(t, loginRequest{Username: `al"ice`, Password: pw}, got)
	}
}

func TestLogin_LeavesCallerPasswordIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"user":{"_id":"u1","username":"alice","isAvatarImageSet":false}}`))
	}))
	defer server.Close()
	c := newTestClient(t, server)

	pw := []byte("secret")
	_, err := c.Login(context.Background(), "alice", pw)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
}
