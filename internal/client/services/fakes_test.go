package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/snappy/internal/client/client"
	"github.com/dmitrijs2005/snappy/internal/client/identity"
	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/dmitrijs2005/snappy/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupStore(t *testing.T) (*identity.Store, *sql.DB) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return identity.NewStore(db, logging.Discard()), db
}

var (
	bob      = models.Identity{ID: "u42", Username: "bob", Email: "bob@example.com"}
	bobReady = models.Identity{ID: "u42", Username: "bob", AvatarImageSet: true, AvatarImage: "QQ=="}
)

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	LoginRet models.Identity
	LoginErr error

	ContactsRet []models.Contact
	ContactsErr error
	// ContactsFn overrides ContactsRet/ContactsErr when set.
	ContactsFn func(ctx context.Context, id string) ([]models.Contact, error)

	SetAvatarCommit client.AvatarCommit
	SetAvatarErr    error
	// SetAvatarFn overrides SetAvatarCommit/SetAvatarErr when set.
	SetAvatarFn func(ctx context.Context, id, payload string) (client.AvatarCommit, error)

	CloseErr error

	LastLoginUser     string
	LastLoginPassword []byte
	LastContactsID    string
	LastAvatarID      string
	LastAvatarPayload string
	ContactsCalls     int
	SetAvatarCalls    int
	Closed            bool
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return f.CloseErr
}

func (f *fakeClient) Login(ctx context.Context, username string, password []byte) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLoginUser = username
	f.LastLoginPassword = append([]byte(nil), password...)
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) GetContacts(ctx context.Context, id string) ([]models.Contact, error) {
	f.mu.Lock()
	f.ContactsCalls++
	f.LastContactsID = id
	fn := f.ContactsFn
	ret, err := f.ContactsRet, f.ContactsErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}
	return ret, err
}

func (f *fakeClient) SetAvatar(ctx context.Context, id string, payload string) (client.AvatarCommit, error) {
	f.mu.Lock()
	f.SetAvatarCalls++
	f.LastAvatarID = id
	f.LastAvatarPayload = payload
	fn := f.SetAvatarFn
	ret, err := f.SetAvatarCommit, f.SetAvatarErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, payload)
	}
	return ret, err
}

func (f *fakeClient) setAvatarCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SetAvatarCalls
}

// ---- fake generator ----

type fakeGenerator struct {
	mu    sync.Mutex
	Seeds []int
	Fn    func(ctx context.Context, seed int) (string, error)
}

func (g *fakeGenerator) GetCandidate(ctx context.Context, seed int) (string, error) {
	g.mu.Lock()
	g.Seeds = append(g.Seeds, seed)
	g.mu.Unlock()
	return g.Fn(ctx, seed)
}

// ---- fake ports ----

type fakeNavigator struct {
	mu     sync.Mutex
	Routes []Route
}

func (n *fakeNavigator) GoTo(route Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Routes = append(n.Routes, route)
}

func (n *fakeNavigator) routes() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.Routes...)
}

type notice struct {
	Message  string
	Severity common.Severity
}

type fakeNotifier struct {
	mu      sync.Mutex
	Notices []notice
}

func (n *fakeNotifier) Notify(ctx context.Context, message string, severity common.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notices = append(n.Notices, notice{Message: message, Severity: severity})
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Notices))
	for _, x := range n.Notices {
		out = append(out, x.Message)
	}
	return out
}

type fakePublisher struct {
	Published []models.Contact
}

func (p *fakePublisher) PublishContact(c models.Contact) {
	p.Published = append(p.Published, c)
}

// ---- fake store ----

// fakeReader returns a fixed snapshot or error.
type fakeReader struct {
	Snap  identity.Snapshot
	Err   error
	Calls int
}

func (r *fakeReader) Get(ctx context.Context) (identity.Snapshot, error) {
	r.Calls++
	return r.Snap, r.Err
}

// failingWriter wraps a real store and fails selected operations.
type failingWriter struct {
	identity.Writer
	SetErr    error
	UpdateErr error
	ClearErr  error
}

func (w *failingWriter) Set(ctx context.Context, id models.Identity) error {
	if w.SetErr != nil {
		return w.SetErr
	}
	return w.Writer.Set(ctx, id)
}

func (w *failingWriter) Update(ctx context.Context, fn func(models.Identity) (models.Identity, error)) (identity.Snapshot, error) {
	if w.UpdateErr != nil {
		return identity.Snapshot{}, w.UpdateErr
	}
	return w.Writer.Update(ctx, fn)
}

func (w *failingWriter) Clear(ctx context.Context) error {
	if w.ClearErr != nil {
		return w.ClearErr
	}
	return w.Writer.Clear(ctx)
}
