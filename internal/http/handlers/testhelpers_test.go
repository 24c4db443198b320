package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/service"
)

type fakeLeads struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*domain.Lead
}

func newFakeLeads() *fakeLeads {
	return &fakeLeads{byMail: make(map[string]*domain.Lead)}
}

func (f *fakeLeads) UpsertByEmail(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byMail[lead.Email]; ok {
		if lead.Name != "" {
			existing.Name = lead.Name
		}
		if lead.Phone != "" {
			existing.Phone = lead.Phone
		}
		out := *existing
		return &out, nil
	}
	f.nextID++
	stored := *lead
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.byMail[lead.Email] = &stored
	out := stored
	return &out, nil
}

func (f *fakeLeads) GetByEmail(ctx context.Context, email string) (*domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lead, ok := f.byMail[email]; ok {
		out := *lead
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

type fakeGenerations struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Generation
	emails map[int64]string
}

func newFakeGenerations() *fakeGenerations {
	return &fakeGenerations{rows: make(map[int64]*domain.Generation), emails: make(map[int64]string)}
}

func (f *fakeGenerations) Create(ctx context.Context, gen *domain.Generation) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *gen
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.rows[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeGenerations) MarkSucceeded(ctx context.Context, id int64, imageURL, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok && row.Status == domain.GenerationStatusPending {
		now := time.Now()
		row.Status = domain.GenerationStatusSucceeded
		row.ImageURL = imageURL
		row.Description = description
		row.CompletedAt = &now
	}
	return nil
}

func (f *fakeGenerations) MarkFailed(ctx context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok && row.Status == domain.GenerationStatusPending {
		now := time.Now()
		row.Status = domain.GenerationStatusFailed
		row.FailReason = reason
		row.CompletedAt = &now
	}
	return nil
}

func (f *fakeGenerations) GetByID(ctx context.Context, id int64) (*domain.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[id]; ok {
		out := *row
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGenerations) ListByEmail(ctx context.Context, email string) ([]domain.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.Generation
	for id, row := range f.rows {
		if f.emails[id] == email {
			items = append(items, *row)
		}
	}
	return items, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*domain.TrackEvent
	err    error
}

func (f *fakeEvents) Insert(ctx context.Context, ev *domain.TrackEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeImages struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeImages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDescriber struct {
	text string
}

func (f *fakeDescriber) Describe(ctx context.Context, prompt string) (string, error) {
	return f.text, nil
}

type noopMailer struct{}

func (noopMailer) SendResult(ctx context.Context, to, imageURL, description string) error {
	return nil
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	return key, nil
}

type fakeChat struct {
	raw json.RawMessage
	err error
}

func (f *fakeChat) Ask(ctx context.Context, question string) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

type testEnv struct {
	app    *handlers.App
	leads  *fakeLeads
	gens   *fakeGenerations
	events *fakeEvents
	images *fakeImages
	store  *memStore
	chat   *fakeChat
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		leads:  newFakeLeads(),
		gens:   newFakeGenerations(),
		events: &fakeEvents{},
		images: &fakeImages{data: []byte("raw-image")},
		store:  newMemStore(),
		chat:   &fakeChat{raw: json.RawMessage(`{"candidates":[]}`)},
	}

	cfg := &infra.Config{
		UploadDir:       t.TempDir(),
		OutputDir:       t.TempDir(),
		PublicBaseURL:   "http://test.local",
		RateLimitPerMin: 1000,
	}

	generator := service.NewGenerator(service.Deps{
		Leads:       env.leads,
		Generations: env.gens,
		Images:      env.images,
		Describer:   &fakeDescriber{text: "marketing copy"},
		Composite: func(base []byte, logoPath string) ([]byte, error) {
			return append([]byte("composited:"), base...), nil
		},
		Store:   env.store,
		Mailer:  noopMailer{},
		BaseURL: cfg.PublicBaseURL,
		Logger:  zerolog.Nop(),
	})

	env.app = &handlers.App{
		Cfg:         cfg,
		Log:         zerolog.Nop(),
		Generator:   generator,
		Leads:       env.leads,
		Generations: env.gens,
		Events:      env.events,
		Chat:        env.chat,
	}
	return env
}

// multipartBody builds a multipart form with optional text fields and one
// logo file part carrying an explicit Content-Type.
func multipartBody(t *testing.T, fields map[string]string, logoName, logoType string, logoBytes []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if logoName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="logo"; filename="`+logoName+`"`)
		h.Set("Content-Type", logoType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create logo part: %v", err)
		}
		if _, err := part.Write(logoBytes); err != nil {
			t.Fatalf("write logo bytes: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
