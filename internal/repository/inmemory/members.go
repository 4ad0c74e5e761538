package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	memberdomain "membership-admin/internal/domain/member"
)

// MemberStore is a process-local backend. It enforces the same not-null
// constraints a hosted table would, reporting them as validation errors.
type MemberStore struct {
	mu    sync.RWMutex
	items map[string]memberdomain.Member
	now   func() time.Time
}

func NewMemberStore() *MemberStore {
	return &MemberStore{
		items: make(map[string]memberdomain.Member),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemberStore) List(ctx context.Context) ([]memberdomain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	items := make([]memberdomain.Member, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemberStore) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, memberdomain.ErrNotFound
	}
	return &item, nil
}

func (s *MemberStore) Insert(ctx context.Context, fields memberdomain.Fields) (*memberdomain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkConstraints(fields); err != nil {
		return nil, err
	}

	item := memberdomain.Member{ID: uuid.NewString()}
	item.Apply(fields)
	if item.Status == "" {
		item.Status = memberdomain.DefaultStatus
	}

	s.mu.Lock()
	item.CreatedAt = s.nextCreatedAt()
	s.items[item.ID] = item
	s.mu.Unlock()

	return &item, nil
}

func (s *MemberStore) Update(ctx context.Context, id string, fields memberdomain.Fields) (*memberdomain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkConstraints(fields); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, memberdomain.ErrNotFound
	}
	item.Apply(fields)
	if item.Status == "" {
		item.Status = memberdomain.DefaultStatus
	}
	s.items[id] = item
	return &item, nil
}

func (s *MemberStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// nextCreatedAt keeps creation times strictly increasing so newest-first order is stable.
// Callers hold s.mu.
func (s *MemberStore) nextCreatedAt() time.Time {
	now := s.now()
	for _, item := range s.items {
		if !now.After(item.CreatedAt) {
			now = item.CreatedAt.Add(time.Microsecond)
		}
	}
	return now
}

func checkConstraints(fields memberdomain.Fields) error {
	if fields.FullName == "" {
		return &memberdomain.ValidationError{Field: "full_name", Message: `null value in column "full_name" violates not-null constraint`}
	}
	if fields.Email == "" {
		return &memberdomain.ValidationError{Field: "email", Message: `null value in column "email" violates not-null constraint`}
	}
	return nil
}
