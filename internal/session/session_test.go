package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

type fakeAuth struct {
	mu sync.Mutex

	loginUser *domain.User
	loginErr  error
	meUser    *domain.User
	meErr     error
	logoutErr error

	loginCalls  int
	meCalls     int
	logoutCalls int

	cookies  []*http.Cookie
	restored []*http.Cookie
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginUser, f.loginErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuth) Me(ctx context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	return f.meUser, f.meErr
}

func (f *fakeAuth) Cookies() []*http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cookies
}

func (f *fakeAuth) RestoreCookies(cookies []*http.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = cookies
}

type fakePersister struct {
	mu sync.Mutex

	user    *domain.User
	auth    bool
	cookies []*http.Cookie

	loadErr  error
	saveErr  error
	clearErr error

	loads  int
	saves  int
	clears int
}

func (f *fakePersister) Load(ctx context.Context) (*domain.User, bool, []*http.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, false, nil, f.loadErr
	}
	return f.user, f.auth, f.cookies, nil
}

func (f *fakePersister) Save(ctx context.Context, user *domain.User, authenticated bool, cookies []*http.Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.user = user
	f.auth = authenticated
	f.cookies = cookies
	return nil
}

func (f *fakePersister) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.user = nil
	f.auth = false
	f.cookies = nil
	return f.clearErr
}

func testUser(name string) *domain.User {
	return &domain.User{ID: "u-" + name, Username: name, Role: "admin"}
}

func TestHydrateRestoresSessionWithoutNetwork(t *testing.T) {
	cookie := &http.Cookie{Name: "auth", Value: "token"}
	api := &fakeAuth{}
	store := &fakePersister{user: testUser("budi"), auth: true, cookies: []*http.Cookie{cookie}}
	svc := NewService(api, store)

	require.NoError(t, svc.Hydrate(context.Background()))

	snap := svc.Snapshot()
	assert.True(t, snap.HasHydrated)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "budi", snap.User.Username)

	// Restoring is a pure local read: no server round trip happens.
	assert.Zero(t, api.meCalls)
	assert.Zero(t, api.loginCalls)
	require.Len(t, api.restored, 1)
	assert.Equal(t, "auth", api.restored[0].Name)
}

func TestHydrateRunsOnce(t *testing.T) {
	store := &fakePersister{}
	svc := NewService(&fakeAuth{}, store)

	require.NoError(t, svc.Hydrate(context.Background()))
	require.NoError(t, svc.Hydrate(context.Background()))

	assert.Equal(t, 1, store.loads)
}

func TestHydrateBrokenStoreStartsSignedOut(t *testing.T) {
	store := &fakePersister{loadErr: errors.New("db locked")}
	svc := NewService(&fakeAuth{}, store)

	require.NoError(t, svc.Hydrate(context.Background()))

	snap := svc.Snapshot()
	assert.True(t, snap.HasHydrated)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

func TestHydrateAuthenticatedWithoutUserDowngrades(t *testing.T) {
	store := &fakePersister{user: nil, auth: true}
	svc := NewService(&fakeAuth{}, store)

	require.NoError(t, svc.Hydrate(context.Background()))

	assert.False(t, svc.Snapshot().IsAuthenticated)
}

func TestLoginPersistsSession(t *testing.T) {
	api := &fakeAuth{loginUser: testUser("budi"), cookies: []*http.Cookie{{Name: "auth"}}}
	store := &fakePersister{}
	svc := NewService(api, store)
	require.NoError(t, svc.Hydrate(context.Background()))

	require.NoError(t, svc.Login(context.Background(), "budi", "secret"))

	snap := svc.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "budi", snap.User.Username)
	assert.Equal(t, 1, store.saves)
	assert.True(t, store.auth)
	assert.Len(t, store.cookies, 1)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAuth{loginUser: testUser("budi")}
	store := &fakePersister{}
	svc := NewService(api, store)
	require.NoError(t, svc.Hydrate(context.Background()))
	require.NoError(t, svc.Login(context.Background(), "budi", "secret"))

	api.mu.Lock()
	api.loginErr = errors.New("bad password")
	api.mu.Unlock()

	err := svc.Login(context.Background(), "budi", "wrong")
	require.Error(t, err)

	// The failed attempt must not sign out the existing session.
	snap := svc.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "budi", snap.User.Username)
}

func TestCheckAuthBeforeHydration(t *testing.T) {
	svc := NewService(&fakeAuth{}, &fakePersister{})

	err := svc.CheckAuth(context.Background())
	assert.ErrorIs(t, err, ErrNotHydrated)
}

func TestCheckAuthRefreshesUser(t *testing.T) {
	api := &fakeAuth{meUser: testUser("budi-renamed")}
	store := &fakePersister{user: testUser("budi"), auth: true}
	svc := NewService(api, store)
	require.NoError(t, svc.Hydrate(context.Background()))

	require.NoError(t, svc.CheckAuth(context.Background()))

	snap := svc.Snapshot()
	assert.Equal(t, "budi-renamed", snap.User.Username)
	assert.False(t, snap.IsInitializing)
	assert.Equal(t, 1, store.saves)
}

func TestCheckAuthFailureSignsOut(t *testing.T) {
	api := &fakeAuth{meErr: errors.New("unauthorized")}
	store := &fakePersister{user: testUser("budi"), auth: true}
	svc := NewService(api, store)
	require.NoError(t, svc.Hydrate(context.Background()))

	err := svc.CheckAuth(context.Background())
	require.Error(t, err)

	snap := svc.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, 1, store.clears)
}

func TestLogoutClearsLocallyEvenWhenRemoteFails(t *testing.T) {
	api := &fakeAuth{loginUser: testUser("budi"), logoutErr: errors.New("server down")}
	store := &fakePersister{}
	svc := NewService(api, store)
	require.NoError(t, svc.Hydrate(context.Background()))
	require.NoError(t, svc.Login(context.Background(), "budi", "secret"))

	err := svc.Logout(context.Background())
	require.Error(t, err)

	snap := svc.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, 1, store.clears)
}

func TestClearUserTearsDownWithoutRemoteCall(t *testing.T) {
	api := &fakeAuth{loginUser: testUser("budi")}
	store := &fakePersister{}
	svc := NewService(api, store)
	require.NoError(t, svc.Hydrate(context.Background()))
	require.NoError(t, svc.Login(context.Background(), "budi", "secret"))

	svc.ClearUser(context.Background())

	assert.False(t, svc.Snapshot().IsAuthenticated)
	assert.Equal(t, 1, store.clears)
	assert.Zero(t, api.logoutCalls)
}
