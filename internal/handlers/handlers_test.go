package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fluffle/apiserver/internal/services"
	"github.com/fluffle/apiserver/internal/session"
	"github.com/fluffle/apiserver/internal/store"
	"github.com/fluffle/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	user *types.User
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if f.user != nil && f.user.Username == username {
		return *f.user, nil
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	user.ID = 1
	f.user = &user
	return user, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	if f.user == nil || f.user.Username != username {
		return store.ErrNotFound
	}
	f.user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SecurityQuestions(ctx context.Context, username string) ([2]string, error) {
	if f.user == nil || f.user.Username != username {
		return [2]string{}, store.ErrNotFound
	}
	return [2]string{"Question one?", "Question two?"}, nil
}

func (f *fakeUserRepo) SecurityAnswerHashes(ctx context.Context, username string) ([2]string, error) {
	if f.user == nil || f.user.Username != username {
		return [2]string{}, store.ErrNotFound
	}
	return [2]string{f.user.SecurityAnswerHashOne, f.user.SecurityAnswerHashTwo}, nil
}

type fakeWaypointRepo struct {
	owned    []types.OwnedWaypoint
	nearby   []types.NearbyWaypoint
	inserted []types.Waypoint
}

func (f *fakeWaypointRepo) ListByUser(ctx context.Context, userID int) ([]types.OwnedWaypoint, error) {
	return f.owned, nil
}

func (f *fakeWaypointRepo) Insert(ctx context.Context, wp types.Waypoint) (types.Waypoint, error) {
	wp.ID = len(f.inserted) + 1
	f.inserted = append(f.inserted, wp)
	return wp, nil
}

func (f *fakeWaypointRepo) ListWithinBox(ctx context.Context, lat, lng, latDelta, lngDelta float64) ([]types.NearbyWaypoint, error) {
	return f.nearby, nil
}

type fakeReferenceRepo struct {
	animals   []types.Animal
	questions []types.SecurityQuestion
}

func (f *fakeReferenceRepo) ListAnimals(ctx context.Context) ([]types.Animal, error) {
	return f.animals, nil
}

func (f *fakeReferenceRepo) GetAnimal(ctx context.Context, id int) (types.Animal, error) {
	for _, animal := range f.animals {
		if animal.ID == id {
			return animal, nil
		}
	}
	return types.Animal{}, store.ErrNotFound
}

func (f *fakeReferenceRepo) ListSecurityQuestions(ctx context.Context) ([]types.SecurityQuestion, error) {
	return f.questions, nil
}

type testEnv struct {
	server       *httptest.Server
	client       *http.Client
	userRepo     *fakeUserRepo
	waypointRepo *fakeWaypointRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := &fakeUserRepo{}
	waypointRepo := &fakeWaypointRepo{}
	referenceRepo := &fakeReferenceRepo{
		animals: []types.Animal{
			{ID: 1, Name: "Rabbit", Icon: "icons/rabbit.png"},
			{ID: 2, Name: "Fox", Icon: "icons/fox.png"},
		},
		questions: []types.SecurityQuestion{
			{ID: 1, Question: "Question one?"},
			{ID: 2, Question: "Question two?"},
		},
	}

	sessions := session.NewManager(session.NewMemoryStore(), "", 0)

	router := chi.NewRouter()
	router.Use(sessions.Middleware)
	AccountRouter(router, services.NewAccountService(userRepo), sessions)
	WaypointRouter(router, services.NewWaypointService(waypointRepo), nil)
	ReferenceRouter(router, services.NewReferenceService(referenceRepo), nil)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := newCookieClient(server)
	require.NoError(t, err)

	return &testEnv{
		server:       server,
		client:       jar,
		userRepo:     userRepo,
		waypointRepo: waypointRepo,
	}
}

func newCookieClient(server *httptest.Server) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := server.Client()
	client.Jar = jar
	return client, nil
}

func (e *testEnv) get(t *testing.T, path string, params url.Values) (int, map[string]json.RawMessage) {
	t.Helper()
	u := e.server.URL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	resp, err := e.client.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (e *testEnv) register(t *testing.T) {
	t.Helper()
	status, body := e.get(t, "/register", url.Values{
		"username":    {"alice"},
		"email":       {"alice@example.com"},
		"password":    {"Valid1!pass"},
		"questions[]": {"1", "2"},
		"answers[]":   {"Rex", "Albany"},
	})
	require.Equal(t, http.StatusOK, status, "register response: %v", body)
}

func errorMessage(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var message string
	require.Contains(t, body, "error")
	require.NoError(t, json.Unmarshal(body["error"], &message))
	return message
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	env := newTestEnv(t)

	env.register(t)

	// registration authenticates the session immediately
	status, body := env.get(t, "/whoIsLoggedIn", nil)
	require.Equal(t, http.StatusOK, status)
	var user types.PublicUser
	require.NoError(t, json.Unmarshal(body["user"], &user))
	assert.Equal(t, "alice", user.Username)

	status, body = env.get(t, "/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(body["user"]))

	status, body = env.get(t, "/whoIsLoggedIn", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(body["user"]))

	status, _ = env.get(t, "/login", url.Values{
		"username": {"alice"},
		"password": {"Valid1!pass"},
	})
	require.Equal(t, http.StatusOK, status)

	status, body = env.get(t, "/whoIsLoggedIn", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body["user"], &user))
	assert.Equal(t, 1, user.ID)
}

func TestRegisterDuplicateQuestions(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/register", url.Values{
		"username":    {"alice"},
		"email":       {"alice@example.com"},
		"password":    {"Valid1!pass"},
		"questions[]": {"2", "2"},
		"answers[]":   {"Rex", "Albany"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You must select two different security questions.", errorMessage(t, body))
}

func TestLoginGenericError(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	status, body := env.get(t, "/login", url.Values{
		"username": {"alice"},
		"password": {"Wrong1!pass"},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	wrongPassword := errorMessage(t, body)

	status, body = env.get(t, "/login", url.Values{
		"username": {"mallory"},
		"password": {"Valid1!pass"},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrongPassword, errorMessage(t, body))
}

func TestFetchWaypointsValidatesParams(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/fetchWaypoints", url.Values{
		"longitude": {"-73.10"},
		"range":     {"10"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You must provide a numeric latitude.", errorMessage(t, body))

	status, body = env.get(t, "/fetchWaypoints", url.Values{
		"latitude":  {"42.70"},
		"longitude": {"-73.10"},
		"range":     {"lots"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You must provide a search range (miles).", errorMessage(t, body))
}

func TestFetchWaypointsShape(t *testing.T) {
	env := newTestEnv(t)
	env.waypointRepo.nearby = []types.NearbyWaypoint{{
		User:     "alice",
		Animal:   types.AnimalRef{Name: "Fox", Icon: "icons/fox.png"},
		Location: types.Location{Latitude: 42.71, Longitude: -73.09},
		Date:     time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}}

	status, body := env.get(t, "/fetchWaypoints", url.Values{
		"latitude":  {"42.70"},
		"longitude": {"-73.10"},
		"range":     {"10"},
	})
	require.Equal(t, http.StatusOK, status)

	var waypoints []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["waypoints"], &waypoints))
	require.Len(t, waypoints, 1)
	assert.Contains(t, waypoints[0], "User")
	assert.Contains(t, waypoints[0], "Animal")
	assert.Contains(t, waypoints[0], "Location")
	assert.Contains(t, waypoints[0], "Date")
}

func TestFetchUserWaypointsRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/fetchUserWaypoints", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "You must be logged in to use this function.", errorMessage(t, body))
}

func TestFetchUserWaypointsShape(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)
	env.waypointRepo.owned = []types.OwnedWaypoint{{
		ID:        4,
		Animal:    types.AnimalRef{Name: "Owl", Icon: "icons/owl.png"},
		Location:  types.Location{Latitude: 40, Longitude: -74},
		CreatedAt: time.Now(),
	}}

	status, body := env.get(t, "/fetchUserWaypoints", nil)
	require.Equal(t, http.StatusOK, status)

	var waypoints []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["waypoints"], &waypoints))
	require.Len(t, waypoints, 1)
	assert.Contains(t, waypoints[0], "DaysRemaining")
	assert.Equal(t, "7", string(waypoints[0]["DaysRemaining"]))
}

func TestInsertWaypoint(t *testing.T) {
	env := newTestEnv(t)

	// anonymous insert is rejected
	status, body := env.get(t, "/insertWaypoint", url.Values{
		"latitude":  {"42.70"},
		"longitude": {"-73.10"},
		"animalId":  {"2"},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "You must be logged in to use this function.", errorMessage(t, body))

	env.register(t)

	status, body = env.get(t, "/insertWaypoint", url.Values{
		"latitude":  {"not-a-number"},
		"longitude": {"-73.10"},
		"animalId":  {"2"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You must provide a numeric latitude.", errorMessage(t, body))

	status, body = env.get(t, "/insertWaypoint", url.Values{
		"latitude":  {"42.70"},
		"longitude": {"-73.10"},
		"animalId":  {"2"},
	})
	require.Equal(t, http.StatusOK, status)
	var success string
	require.NoError(t, json.Unmarshal(body["success"], &success))
	assert.Equal(t, "You've successfully added a new waypoint.", success)

	require.Len(t, env.waypointRepo.inserted, 1)
	assert.Equal(t, 1, env.waypointRepo.inserted[0].UserID)
	assert.Equal(t, 2, env.waypointRepo.inserted[0].AnimalID)
}

func TestFetchAnimalsAndQuestions(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/fetchAnimals", nil)
	require.Equal(t, http.StatusOK, status)
	var animals []types.Animal
	require.NoError(t, json.Unmarshal(body["animals"], &animals))
	require.Len(t, animals, 2)
	assert.Equal(t, "Rabbit", animals[0].Name)

	status, body = env.get(t, "/fetchSecurityQuestions", nil)
	require.Equal(t, http.StatusOK, status)
	var questions []types.SecurityQuestion
	require.NoError(t, json.Unmarshal(body["securityQuestions"], &questions))
	require.Len(t, questions, 2)
}

func TestResetPasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	status, body := env.get(t, "/fetchUserSecurityQuestions", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, status)
	var prompts [2]string
	require.NoError(t, json.Unmarshal(body["userQuestions"], &prompts))
	assert.Equal(t, "Question one?", prompts[0])

	// wrong answers never reach the update
	originalHash := env.userRepo.user.PasswordHash
	status, body = env.get(t, "/resetPassword", url.Values{
		"username":  {"alice"},
		"password":  {"Fresh2@pass"},
		"answers[]": {"Rex", "WrongCity"},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, errorMessage(t, body))
	assert.Equal(t, originalHash, env.userRepo.user.PasswordHash)

	status, body = env.get(t, "/resetPassword", url.Values{
		"username":  {"alice"},
		"password":  {"Fresh2@pass"},
		"answers[]": {"Rex", "Albany"},
	})
	require.Equal(t, http.StatusOK, status)
	var success string
	require.NoError(t, json.Unmarshal(body["success"], &success))
	assert.Equal(t, "Password successfully changed!", success)

	status, _ = env.get(t, "/login", url.Values{
		"username": {"alice"},
		"password": {"Fresh2@pass"},
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestFetchAnimalIconWithoutStorage(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/fetchAnimalIcon", url.Values{"animalId": {"1"}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Icon storage is not configured.", errorMessage(t, body))
}
