package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
)

// MemoryStore is an in-memory stand-in for repository.Repository. It
// returns the same sentinel errors and cascades contact deletes.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[string]*model.User
	contacts    map[int64]*model.Contact
	addresses   map[int64]*model.Address
	nextContact int64
	nextAddress int64
	failErr     error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*model.User),
		contacts:  make(map[int64]*model.Contact),
		addresses: make(map[int64]*model.Address),
	}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// UserCount returns the number of stored users.
func (m *MemoryStore) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// User returns a copy of the stored user, or nil.
func (m *MemoryStore) User(username string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

// AddressCount returns the number of stored addresses.
func (m *MemoryStore) AddressCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.addresses)
}

func (m *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	c := *user
	m.users[user.Username] = &c
	return nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *MemoryStore) GetUserByToken(_ context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	for _, u := range m.users {
		if u.Token != nil && *u.Token == token {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *MemoryStore) SetUserToken(_ context.Context, username string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	u, ok := m.users[username]
	if !ok {
		return repository.ErrUserNotFound
	}
	if token == nil {
		u.Token = nil
	} else {
		t := *token
		u.Token = &t
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, username string, patch model.UserPatch) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if patch.Name.Set {
		u.Name = patch.Name.Value
	}
	if patch.Password.Set {
		u.Password = patch.Password.Value
	}
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

func (m *MemoryStore) CreateContact(_ context.Context, contact *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.users[contact.Username]; !ok {
		return repository.ErrUserNotFound
	}
	m.nextContact++
	now := time.Now().UTC()
	contact.ID = m.nextContact
	contact.CreatedAt, contact.UpdatedAt = now, now
	c := *contact
	m.contacts[c.ID] = &c
	return nil
}

func (m *MemoryStore) CountContacts(_ context.Context, username string, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}
	if c, ok := m.contacts[id]; ok && c.Username == username {
		return 1, nil
	}
	return 0, nil
}

func (m *MemoryStore) GetContact(_ context.Context, username string, id int64) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	c, ok := m.contacts[id]
	if !ok || c.Username != username {
		return nil, repository.ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) UpdateContact(_ context.Context, username string, id int64, patch model.ContactPatch) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	c, ok := m.contacts[id]
	if !ok || c.Username != username {
		return nil, repository.ErrContactNotFound
	}
	c.FirstName = patch.FirstName
	if patch.LastName.Set {
		c.LastName = patch.LastName.Ptr()
	}
	if patch.Email.Set {
		c.Email = patch.Email.Ptr()
	}
	if patch.Phone.Set {
		c.Phone = patch.Phone.Ptr()
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) DeleteContact(_ context.Context, username string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	c, ok := m.contacts[id]
	if !ok || c.Username != username {
		return repository.ErrContactNotFound
	}
	delete(m.contacts, id)
	for aid, a := range m.addresses {
		if a.ContactID == id {
			delete(m.addresses, aid)
		}
	}
	return nil
}

func (m *MemoryStore) SearchContacts(_ context.Context, f model.ContactFilter) ([]*model.Contact, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, 0, m.failErr
	}

	var matched []*model.Contact
	for _, c := range m.contacts {
		if c.Username != f.Username {
			continue
		}
		if f.Name != "" && !containsFold(&c.FirstName, f.Name) && !containsFold(c.LastName, f.Name) {
			continue
		}
		if f.Email != "" && !containsFold(c.Email, f.Email) {
			continue
		}
		if f.Phone != "" && !containsFold(c.Phone, f.Phone) {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := f.Offset()
	if start >= len(matched) {
		return []*model.Contact{}, total, nil
	}
	end := start + f.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) CreateAddress(_ context.Context, address *model.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.contacts[address.ContactID]; !ok {
		return repository.ErrContactNotFound
	}
	m.nextAddress++
	now := time.Now().UTC()
	address.ID = m.nextAddress
	address.CreatedAt, address.UpdatedAt = now, now
	a := *address
	m.addresses[a.ID] = &a
	return nil
}

func (m *MemoryStore) CountAddresses(_ context.Context, contactID, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}
	if a, ok := m.addresses[id]; ok && a.ContactID == contactID {
		return 1, nil
	}
	return 0, nil
}

func (m *MemoryStore) GetAddress(_ context.Context, contactID, id int64) (*model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	a, ok := m.addresses[id]
	if !ok || a.ContactID != contactID {
		return nil, repository.ErrAddressNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) UpdateAddress(_ context.Context, contactID, id int64, patch model.AddressPatch) (*model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	a, ok := m.addresses[id]
	if !ok || a.ContactID != contactID {
		return nil, repository.ErrAddressNotFound
	}
	if patch.Street.Set {
		a.Street = patch.Street.Ptr()
	}
	if patch.City.Set {
		a.City = patch.City.Ptr()
	}
	if patch.Province.Set {
		a.Province = patch.Province.Ptr()
	}
	a.Country = patch.Country
	a.PostalCode = patch.PostalCode
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) DeleteAddress(_ context.Context, contactID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	a, ok := m.addresses[id]
	if !ok || a.ContactID != contactID {
		return repository.ErrAddressNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *MemoryStore) ListAddresses(_ context.Context, contactID int64) ([]*model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	list := []*model.Address{}
	for _, a := range m.addresses {
		if a.ContactID == contactID {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func containsFold(s *string, sub string) bool {
	if s == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*s), strings.ToLower(sub))
}

// MemorySessions is an in-memory session cache.
type MemorySessions struct {
	mu      sync.Mutex
	entries map[string]string
	failErr error
	Gets    int
	Deletes []string
}

// NewMemorySessions creates an empty session cache.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{entries: make(map[string]string)}
}

// FailWith makes every subsequent call return err.
func (s *MemorySessions) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Has reports whether token is cached.
func (s *MemorySessions) Has(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[token]
	return ok
}

func (s *MemorySessions) GetSession(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	if s.failErr != nil {
		return "", false, s.failErr
	}
	username, ok := s.entries[token]
	return username, ok, nil
}

func (s *MemorySessions) SetSession(_ context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.entries[token] = username
	return nil
}

func (s *MemorySessions) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes = append(s.Deletes, token)
	if s.failErr != nil {
		return s.failErr
	}
	delete(s.entries, token)
	return nil
}
