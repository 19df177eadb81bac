package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/queue"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q: %s", env.Error, env.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data payload: %v", err)
	}
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

type fakeResolutionRepo struct {
	resolutions map[uuid.UUID]*models.Resolution
	order       []uuid.UUID
	failAll     bool
}

func newFakeResolutionRepo(resolutions ...*models.Resolution) *fakeResolutionRepo {
	repo := &fakeResolutionRepo{resolutions: make(map[uuid.UUID]*models.Resolution)}
	for _, r := range resolutions {
		repo.resolutions[r.ID] = r
		repo.order = append(repo.order, r.ID)
	}
	return repo
}

func (f *fakeResolutionRepo) Create(_ context.Context, resolution *models.Resolution) error {
	resolution.CreatedAt = time.Now().UTC()
	f.resolutions[resolution.ID] = resolution
	f.order = append(f.order, resolution.ID)
	return nil
}

func (f *fakeResolutionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Resolution, error) {
	r, ok := f.resolutions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return r, nil
}

func (f *fakeResolutionRepo) GetAll(_ context.Context) ([]*models.Resolution, error) {
	if f.failAll {
		return nil, context.DeadlineExceeded
	}
	all := make([]*models.Resolution, 0, len(f.order))
	for _, id := range f.order {
		if r, ok := f.resolutions[id]; ok {
			all = append(all, r)
		}
	}
	return all, nil
}

func (f *fakeResolutionRepo) Update(_ context.Context, resolution *models.Resolution) error {
	if _, ok := f.resolutions[resolution.ID]; !ok {
		return database.ErrNotFound
	}
	f.resolutions[resolution.ID] = resolution
	return nil
}

func (f *fakeResolutionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.resolutions[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.resolutions, id)
	return nil
}

func (f *fakeResolutionRepo) AddProgress(_ context.Context, id uuid.UUID, entry models.ProgressEntry, replace bool) (*models.Resolution, error) {
	r, ok := f.resolutions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	r.Progress = models.ApplyProgress(r.Progress, entry, replace)
	return r, nil
}

type fakeAppStateRepo struct {
	settings       models.TrackingSettings
	lastPromptDate string
}

func newFakeAppStateRepo() *fakeAppStateRepo {
	return &fakeAppStateRepo{settings: models.DefaultTrackingSettings()}
}

func (f *fakeAppStateRepo) GetSettings(_ context.Context) (models.TrackingSettings, error) {
	return f.settings, nil
}

func (f *fakeAppStateRepo) SetSettings(_ context.Context, settings models.TrackingSettings) error {
	f.settings = settings
	return nil
}

func (f *fakeAppStateRepo) GetLastPromptDate(_ context.Context) (string, error) {
	return f.lastPromptDate, nil
}

func (f *fakeAppStateRepo) SetLastPromptDate(_ context.Context, date string) error {
	f.lastPromptDate = date
	return nil
}

type fakeScorer struct {
	weight models.ResolutionWeight
	err    error
	calls  int
}

func (f *fakeScorer) Score(_ context.Context, _ string, _ float64, _ string, _ models.Frequency) (models.ResolutionWeight, error) {
	f.calls++
	return f.weight, f.err
}

type fakeJobQueue struct {
	jobs       []*queue.Job
	enqueueErr error
}

func (f *fakeJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (f *fakeJobQueue) Close() error { return nil }

func (f *fakeJobQueue) HealthCheck(_ context.Context) error { return nil }

// resolutionRouter wires a handler under the /api/v1/resolutions prefix the
// way the server does
func resolutionRouter(h *ResolutionHandler) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/v1/resolutions").Subrouter())
	return router
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func nopLogger() *zap.Logger { return zap.NewNop() }
