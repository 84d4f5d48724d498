package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewRouter(store, nil)
}

func decodeProfile(t *testing.T, rec *httptest.ResponseRecorder) Profile {
	t.Helper()
	var p Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	return p
}

func TestGetProfileReturnsZeroedDefault(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeProfile(t, rec)
	assert.Equal(t, ProfileID, p.ID)
	assert.Empty(t, p.DisplayName)
}

func TestUpsertThenGet(t *testing.T) {
	router := newTestRouter(t)

	body := `{"display_name":"Ada","avatar_url":"http://img/ada.png","bio":"hi"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeProfile(t, rec)
	assert.Equal(t, "Ada", p.DisplayName)
	assert.Equal(t, "http://img/ada.png", p.AvatarURL)
	assert.Equal(t, ProfileID, p.ID)
}

func TestUpsertOverwritesAndForcesID(t *testing.T) {
	router := newTestRouter(t)

	first := `{"id": 42, "display_name":"First"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(first)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ProfileID, decodeProfile(t, rec).ID, "id is fixed at 1 regardless of input")

	second := `{"display_name":"Second"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(second)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, "Second", decodeProfile(t, rec).DisplayName, "upsert replaces the single record")
}

func TestUpsertRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.Upsert(Profile{DisplayName: "Keeper"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	p, err := store2.Get()
	require.NoError(t, err)
	assert.Equal(t, "Keeper", p.DisplayName)
}
