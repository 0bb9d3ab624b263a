package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

func TestStationCreate(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)

	c, rec := newContext(t, http.MethodPost, "/trash-stations",
		`{"id":"st1","lat":-6.2,"long":106.8,"capacity":40,"available":true,"openTime":"08:00","closeTime":"17:00","address":"riverside"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	st := fetchStation(t, s, "st1")
	require.True(t, st.Available)
	require.Equal(t, 40, st.Capacity)
	require.Equal(t, model.OpenHours{OpenTime: "08:00", CloseTime: "17:00"}, st.OpenHours)
	require.NotNil(t, st.Transaction)
	require.Empty(t, st.Transaction)
}

func TestStationCreateFullIsForcedUnavailable(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)

	c, rec := newContext(t, http.MethodPost, "/trash-stations",
		`{"id":"st1","lat":0,"long":0,"capacity":100,"available":true,"openTime":"08:00","closeTime":"17:00","address":"riverside"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	require.False(t, fetchStation(t, s, "st1").Available,
		"a full station cannot be marked available")
}

func TestStationCreateRejectsOutOfRangeCapacity(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)

	for _, capacity := range []int{-1, 101} {
		body := `{"id":"st1","lat":0,"long":0,"capacity":` + strconv.Itoa(capacity) +
			`,"available":true,"openTime":"08:00","closeTime":"17:00","address":"riverside"}`
		c, rec := newContext(t, http.MethodPost, "/trash-stations", body)
		require.NoError(t, h.Create(c))
		requireStatus(t, rec, http.StatusBadRequest)
	}
}

func TestStationUpdatePreservesTransactions(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)
	txRef := store.NewRef(model.CollectionTransaction, "t1")
	seedStation(t, s, model.TrashStation{
		ID: "st1", Capacity: 40, Available: true,
		Transaction: []store.Ref{txRef},
	})

	c, rec := newContext(t, http.MethodPut, "/trash-stations/st1",
		`{"lat":1.5,"long":2.5,"capacity":60,"available":true,"openTime":"09:00","closeTime":"18:00","address":"moved"}`)
	c.SetParamNames("id")
	c.SetParamValues("st1")
	require.NoError(t, h.Update(c))
	requireStatus(t, rec, http.StatusOK)

	st := fetchStation(t, s, "st1")
	require.Equal(t, 60, st.Capacity)
	require.Equal(t, "moved", st.Address)
	require.Equal(t, []store.Ref{txRef}, st.Transaction, "the merge leaves relations alone")
}

func TestStationUpdateCapacity(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)
	seedStation(t, s, model.TrashStation{ID: "st1", Capacity: 40, Available: true})

	c, rec := newContext(t, http.MethodPut, "/trash-stations/st1/capacity", `{"capacity":75}`)
	c.SetParamNames("id")
	c.SetParamValues("st1")
	require.NoError(t, h.UpdateCapacity(c))
	requireStatus(t, rec, http.StatusOK)
	require.Equal(t, 75, fetchStation(t, s, "st1").Capacity)
}

func TestStationUpdateCapacityExclusiveBounds(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)
	seedStation(t, s, model.TrashStation{ID: "st1", Capacity: 40, Available: true})

	// Completely full or empty goes through the full update instead.
	for _, capacity := range []int{0, 100} {
		c, rec := newContext(t, http.MethodPut, "/trash-stations/st1/capacity",
			`{"capacity":`+strconv.Itoa(capacity)+`}`)
		c.SetParamNames("id")
		c.SetParamValues("st1")
		require.NoError(t, h.UpdateCapacity(c))
		requireStatus(t, rec, http.StatusBadRequest)
	}
	require.Equal(t, 40, fetchStation(t, s, "st1").Capacity)
}

func TestStationUpdateCapacityUnknownStation(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewStationHandler(s)

	c, rec := newContext(t, http.MethodPut, "/trash-stations/missing/capacity", `{"capacity":50}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.UpdateCapacity(c))
	requireStatus(t, rec, http.StatusNotFound)
}
