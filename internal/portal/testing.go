package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/digitalseva/portal/internal/identity"
	"github.com/digitalseva/portal/internal/model"
)

// In-memory store and collaborator fakes used by the workflow and web tests.

// MemoryUsers is an in-memory UserStore.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewMemoryUsers constructs the store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]*model.User)}
}

func (m *MemoryUsers) Create(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryUsers) Upsert(ctx context.Context, u *model.User) error {
	return m.Create(ctx, u)
}

func (m *MemoryUsers) ByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUsers) UpdateProfile(ctx context.Context, id, name, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Name, u.Phone = name, phone
	return nil
}

func (m *MemoryUsers) UpdateRole(ctx context.Context, id string, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *MemoryUsers) List(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

// MemoryServices is an in-memory ServiceStore.
type MemoryServices struct {
	mu       sync.RWMutex
	services map[string]*model.Service
	order    []string
	seq      int
}

// NewMemoryServices constructs the store.
func NewMemoryServices() *MemoryServices {
	return &MemoryServices{services: make(map[string]*model.Service)}
}

func (m *MemoryServices) List(ctx context.Context) ([]model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Service, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.services[id])
	}
	return out, nil
}

func (m *MemoryServices) ByID(ctx context.Context, id string) (*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryServices) Create(ctx context.Context, s *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		m.seq++
		s.ID = fmt.Sprintf("svc-%d", m.seq)
	}
	s.CreatedAt = time.Now().UTC()
	cp := *s
	m.services[s.ID] = &cp
	m.order = append(m.order, s.ID)
	return nil
}

func (m *MemoryServices) Update(ctx context.Context, s *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.services[s.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name, cur.Description, cur.RequiredDocuments = s.Name, s.Description, s.RequiredDocuments
	return nil
}

func (m *MemoryServices) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[id]; !ok {
		return ErrNotFound
	}
	delete(m.services, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryApplications is an in-memory ApplicationStore. It borrows the user and
// service stores to expand joined reads the way the SQL repository does.
type MemoryApplications struct {
	mu       sync.RWMutex
	apps     map[string]*model.Application
	docs     map[string][]model.Document
	order    []string
	seq      int
	users    *MemoryUsers
	services *MemoryServices

	// FailCreate, when set, makes CreateWithDocuments fail without writing.
	FailCreate error
}

// NewMemoryApplications constructs the store.
func NewMemoryApplications(users *MemoryUsers, services *MemoryServices) *MemoryApplications {
	return &MemoryApplications{
		apps:     make(map[string]*model.Application),
		docs:     make(map[string][]model.Document),
		users:    users,
		services: services,
	}
}

func (m *MemoryApplications) CreateWithDocuments(ctx context.Context, app *model.Application, docs []model.Document) error {
	if m.FailCreate != nil {
		return m.FailCreate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now().UTC()
	app.Code = fmt.Sprintf("DSC-%06d", 100000+m.seq)
	app.Status = model.StatusPending
	app.CreatedAt = now
	cp := *app
	m.apps[app.ID] = &cp
	m.order = append(m.order, app.ID)
	stored := make([]model.Document, len(docs))
	for i, d := range docs {
		d.ApplicationID = app.ID
		d.CreatedAt = now
		stored[i] = d
	}
	m.docs[app.ID] = stored
	return nil
}

func (m *MemoryApplications) ListByUser(ctx context.Context, userID string) ([]model.ApplicationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ApplicationSummary
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.apps[m.order[i]]
		if a.UserID != userID {
			continue
		}
		out = append(out, m.summary(a, false))
	}
	return out, nil
}

func (m *MemoryApplications) ListAll(ctx context.Context) ([]model.ApplicationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ApplicationSummary
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.summary(m.apps[m.order[i]], true))
	}
	return out, nil
}

func (m *MemoryApplications) DetailByID(ctx context.Context, id string) (*model.ApplicationDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := &model.ApplicationDetail{Application: *a}
	if u, err := m.users.ByID(ctx, a.UserID); err == nil {
		d.User = *u
	}
	if s, err := m.services.ByID(ctx, a.ServiceID); err == nil {
		d.Service = *s
	}
	d.Documents = append(d.Documents, m.docs[id]...)
	return d, nil
}

func (m *MemoryApplications) ByCode(ctx context.Context, code string) (*model.ApplicationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.apps {
		if a.Code == code {
			s := m.summary(a, false)
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryApplications) UpdateReview(ctx context.Context, id string, status model.Status, remarks string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return ErrNotFound
	}
	a.Status, a.Remarks = status, remarks
	return nil
}

func (m *MemoryApplications) Delete(ctx context.Context, id, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.UserID != userID {
		return nil, ErrNotFound
	}
	var keys []string
	for _, d := range m.docs[id] {
		keys = append(keys, d.ObjectKey)
	}
	delete(m.apps, id)
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return keys, nil
}

func (m *MemoryApplications) summary(a *model.Application, withApplicant bool) model.ApplicationSummary {
	s := model.ApplicationSummary{Application: *a}
	if svc, err := m.services.ByID(context.Background(), a.ServiceID); err == nil {
		s.ServiceName = svc.Name
	}
	if withApplicant {
		if u, err := m.users.ByID(context.Background(), a.UserID); err == nil {
			s.ApplicantName = u.Name
		}
	}
	return s
}

// MemoryBlobs is an in-memory BlobStore plus remover.
type MemoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailKey makes Upload fail for keys containing the substring.
	FailKey string
	Removed []string
}

// NewMemoryBlobs constructs the store.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{objects: make(map[string][]byte)}
}

func (m *MemoryBlobs) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.FailKey != "" && bytes.Contains([]byte(key), []byte(m.FailKey)) {
		return fmt.Errorf("simulated upload failure for %s", key)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MemoryBlobs) PublicURL(key string) string {
	return "https://blobs.test/documents/" + key
}

func (m *MemoryBlobs) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.Removed = append(m.Removed, key)
	return nil
}

// Len reports how many objects are stored.
func (m *MemoryBlobs) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// MemoryCleaner records cleanup requests instead of enqueuing them.
type MemoryCleaner struct {
	mu      sync.Mutex
	Batches [][]string
}

// NewMemoryCleaner constructs the fake.
func NewMemoryCleaner() *MemoryCleaner {
	return &MemoryCleaner{}
}

func (m *MemoryCleaner) EnqueueCleanup(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := append([]string(nil), keys...)
	m.Batches = append(m.Batches, cp)
	return nil
}

// Keys flattens every recorded batch.
func (m *MemoryCleaner) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, b := range m.Batches {
		out = append(out, b...)
	}
	return out
}

// FakeProvider is an in-memory identity.Provider.
type FakeProvider struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount
	seq      int
	Revoked  []string
}

type fakeAccount struct {
	id       string
	password string
}

// NewFakeProvider constructs the fake, optionally pre-registering accounts.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{accounts: make(map[string]fakeAccount)}
}

func (p *FakeProvider) SignUp(ctx context.Context, email, password string) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[email]; ok {
		return nil, identity.ErrDuplicateEmail
	}
	p.seq++
	acct := fakeAccount{id: fmt.Sprintf("uid-%d", p.seq), password: password}
	p.accounts[email] = acct
	return &identity.Session{UserID: acct.id, Email: email, Token: "token-" + acct.id}, nil
}

func (p *FakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	acct, ok := p.accounts[email]
	if !ok || acct.password != password {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.Session{UserID: acct.id, Email: email, Token: "token-" + acct.id}, nil
}

func (p *FakeProvider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Revoked = append(p.Revoked, token)
	return nil
}
