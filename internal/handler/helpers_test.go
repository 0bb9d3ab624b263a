package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/trashure/trashure-backend/internal/identity"
	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

// newContext builds an echo context around a JSON request body and a
// recorder for the response.
func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func seedUser(t *testing.T, s store.Store, u model.User) {
	t.Helper()
	if u.Transaction == nil {
		u.Transaction = []store.Ref{}
	}
	if u.Request == nil {
		u.Request = []store.Ref{}
	}
	require.NoError(t, s.Put(context.Background(), model.CollectionUser, u.ID, u))
}

func seedStation(t *testing.T, s store.Store, st model.TrashStation) {
	t.Helper()
	if st.Transaction == nil {
		st.Transaction = []store.Ref{}
	}
	require.NoError(t, s.Put(context.Background(), model.CollectionTrashStation, st.ID, st))
}

func fetchUser(t *testing.T, s store.Store, id string) model.User {
	t.Helper()
	var u model.User
	require.NoError(t, s.Get(context.Background(), model.CollectionUser, id, &u))
	return u
}

func fetchStation(t *testing.T, s store.Store, id string) model.TrashStation {
	t.Helper()
	var st model.TrashStation
	require.NoError(t, s.Get(context.Background(), model.CollectionTrashStation, id, &st))
	return st
}

// fakeIdentity is an in-memory identity.Provider for handler tests.
type fakeIdentity struct {
	profiles map[string]identity.Profile
	created  int
	updated  int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{profiles: map[string]identity.Profile{}}
}

func (f *fakeIdentity) GetUserByID(ctx context.Context, id string) (*identity.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, identity.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeIdentity) GetUserByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, identity.ErrProfileNotFound
}

func (f *fakeIdentity) GetUserByPhone(ctx context.Context, phone string) (*identity.Profile, error) {
	for _, p := range f.profiles {
		if p.Phone == phone {
			return &p, nil
		}
	}
	return nil, identity.ErrProfileNotFound
}

func (f *fakeIdentity) CreateUser(ctx context.Context, p identity.Profile, password string) error {
	f.profiles[p.ID] = p
	f.created++
	return nil
}

func (f *fakeIdentity) UpdateUser(ctx context.Context, id, email, password string) (*identity.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, identity.ErrProfileNotFound
	}
	if email != "" {
		p.Email = email
	}
	f.profiles[id] = p
	f.updated++
	return &p, nil
}

var _ identity.Provider = (*fakeIdentity)(nil)

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
