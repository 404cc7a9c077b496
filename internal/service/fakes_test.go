package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/events"
	"github.com/spec-kit/rewear-service/internal/repository"
)

// fakeStore backs the in-memory repository fakes. The swap and item fakes
// mirror the real repositories' transactional behavior: accept, complete and
// delete either apply all of their effects or none.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
	items map[string]*domain.Item
	swaps map[string]*domain.Swap
	logs  []domain.ModerationLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]*domain.User{},
		items: map[string]*domain.Item{},
		swaps: map[string]*domain.Swap{},
	}
}

func (s *fakeStore) seedUser(name string, role domain.UserRole, points int) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(name) + "@example.com",
		Role:      role,
		Points:    points,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.users[user.ID] = user
	return copyUser(user)
}

func (s *fakeStore) seedItem(ownerID string, status domain.ItemStatus) *domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := &domain.Item{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Title:        "Denim Jacket",
		Description:  "Lightly worn denim jacket.",
		Category:     domain.CategoryOuterwear,
		ClothingType: "jacket",
		Size:         "M",
		Condition:    domain.ConditionGood,
		Images:       []string{"https://img.example.com/1.jpg"},
		Tags:         []string{"denim"},
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.items[item.ID] = item
	return copyItem(item)
}

func (s *fakeStore) userPoints(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		return user.Points
	}
	return -1
}

func (s *fakeStore) itemStatus(id string) domain.ItemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[id]; ok {
		return item.Status
	}
	return ""
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

func copyItem(i *domain.Item) *domain.Item {
	cp := *i
	cp.Images = append([]string(nil), i.Images...)
	cp.Tags = append([]string(nil), i.Tags...)
	return &cp
}

func copySwap(sw *domain.Swap) *domain.Swap {
	cp := *sw
	return &cp
}

// --- user repository fake ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.store.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyUser(user), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) AddPoints(_ context.Context, id string, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if user.Points+delta < 0 {
		return repository.ErrInsufficientPoints
	}
	user.Points += delta
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.User
	for _, user := range r.store.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		result = append(result, *copyUser(user))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginateUsers(result, filter.Limit, filter.Offset), nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

func paginateUsers(users []domain.User, limit, offset int) []domain.User {
	if offset >= len(users) {
		return nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users
}

// --- item repository fake ---

type fakeItemRepo struct{ store *fakeStore }

func (r *fakeItemRepo) CreateWithBonus(_ context.Context, item *domain.Item, uploadBonus int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	r.store.items[item.ID] = copyItem(item)
	if owner, ok := r.store.users[item.OwnerID]; ok {
		owner.Points += uploadBonus
	}
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *domain.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	item.UpdatedAt = time.Now()
	r.store.items[item.ID] = copyItem(item)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, ok := r.store.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyItem(item), nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, swap := range r.store.swaps {
		if swap.ItemID == id && (swap.Status == domain.SwapStatusPending || swap.Status == domain.SwapStatusAccepted) {
			return repository.ErrActiveSwapExists
		}
	}
	// Historical swap rows cascade with the item.
	for swapID, swap := range r.store.swaps {
		if swap.ItemID == id {
			delete(r.store.swaps, swapID)
		}
	}
	delete(r.store.items, id)
	return nil
}

func (r *fakeItemRepo) ListWithFilter(_ context.Context, filter repository.ItemFilter) ([]domain.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := r.filtered(filter)
	if filter.OldestOnly {
		sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	} else {
		sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	}
	if filter.Offset >= len(result) {
		return nil, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeItemRepo) CountWithFilter(_ context.Context, filter repository.ItemFilter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeItemRepo) filtered(filter repository.ItemFilter) []domain.Item {
	var result []domain.Item
	for _, item := range r.store.items {
		if filter.OwnerID != nil && item.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		if filter.Size != nil && item.Size != *filter.Size {
			continue
		}
		if filter.Condition != nil && item.Condition != *filter.Condition {
			continue
		}
		if filter.Featured != nil && item.Featured != *filter.Featured {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(item.Title), term) &&
				!strings.Contains(strings.ToLower(item.Description), term) {
				continue
			}
		}
		result = append(result, *copyItem(item))
	}
	return result
}

func (r *fakeItemRepo) CountByStatus(_ context.Context, status domain.ItemStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, item := range r.store.items {
		if item.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeItemRepo) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.items)), nil
}

// --- swap repository fake ---

type fakeSwapRepo struct{ store *fakeStore }

func (r *fakeSwapRepo) Create(_ context.Context, swap *domain.Swap) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.swaps {
		if existing.ItemID == swap.ItemID &&
			(existing.Status == domain.SwapStatusPending || existing.Status == domain.SwapStatusAccepted) {
			return repository.ErrActiveSwapExists
		}
	}
	swap.ID = uuid.NewString()
	swap.CreatedAt = time.Now()
	swap.UpdatedAt = swap.CreatedAt
	r.store.swaps[swap.ID] = copySwap(swap)
	return nil
}

func (r *fakeSwapRepo) GetByID(_ context.Context, id string) (*domain.Swap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	swap, ok := r.store.swaps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copySwap(swap), nil
}

func (r *fakeSwapRepo) GetByIDWithDetails(ctx context.Context, id string) (*domain.Swap, error) {
	swap, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if item, ok := r.store.items[swap.ItemID]; ok {
		swap.Item = &domain.ItemSummary{ID: item.ID, Title: item.Title, Images: item.Images, Status: item.Status}
	}
	if requester, ok := r.store.users[swap.RequesterID]; ok {
		swap.Requester = &domain.UserSummary{ID: requester.ID, Name: requester.Name}
	}
	if owner, ok := r.store.users[swap.OwnerID]; ok {
		swap.Owner = &domain.UserSummary{ID: owner.ID, Name: owner.Name}
	}
	return swap, nil
}

func (r *fakeSwapRepo) GetActiveByItem(_ context.Context, itemID string) (*domain.Swap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, swap := range r.store.swaps {
		if swap.ItemID == itemID &&
			(swap.Status == domain.SwapStatusPending || swap.Status == domain.SwapStatusAccepted) {
			return copySwap(swap), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeSwapRepo) Accept(_ context.Context, swapID, ownerID string, ownerBonus int) (*domain.Swap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	swap, ok := r.store.swaps[swapID]
	if !ok || swap.OwnerID != ownerID || swap.Status != domain.SwapStatusPending {
		return nil, pgx.ErrNoRows
	}
	if swap.Type == domain.SwapTypeRedeem {
		requester, ok := r.store.users[swap.RequesterID]
		if !ok || requester.Points < swap.PointsUsed {
			return nil, repository.ErrInsufficientPoints
		}
		requester.Points -= swap.PointsUsed
		if owner, ok := r.store.users[swap.OwnerID]; ok {
			owner.Points += ownerBonus
		}
	}
	swap.Status = domain.SwapStatusAccepted
	swap.UpdatedAt = time.Now()
	if item, ok := r.store.items[swap.ItemID]; ok {
		item.Status = domain.ItemStatusSwapped
	}
	return copySwap(swap), nil
}

func (r *fakeSwapRepo) Reject(_ context.Context, swapID, ownerID string) (*domain.Swap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	swap, ok := r.store.swaps[swapID]
	if !ok || swap.OwnerID != ownerID || swap.Status != domain.SwapStatusPending {
		return nil, pgx.ErrNoRows
	}
	swap.Status = domain.SwapStatusRejected
	swap.UpdatedAt = time.Now()
	return copySwap(swap), nil
}

func (r *fakeSwapRepo) Complete(_ context.Context, swapID, callerID string, completionBonus int) (*domain.Swap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	swap, ok := r.store.swaps[swapID]
	if !ok || swap.Status != domain.SwapStatusAccepted {
		return nil, pgx.ErrNoRows
	}
	if swap.RequesterID != callerID && swap.OwnerID != callerID {
		return nil, pgx.ErrNoRows
	}
	swap.Status = domain.SwapStatusCompleted
	swap.UpdatedAt = time.Now()
	if requester, ok := r.store.users[swap.RequesterID]; ok {
		requester.Points += completionBonus
	}
	if owner, ok := r.store.users[swap.OwnerID]; ok {
		owner.Points += completionBonus
	}
	return copySwap(swap), nil
}

func (r *fakeSwapRepo) ListByUser(_ context.Context, filter repository.SwapFilter) ([]domain.Swap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result := r.filtered(filter)
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter.Offset >= len(result) {
		return nil, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeSwapRepo) CountByUser(_ context.Context, filter repository.SwapFilter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeSwapRepo) filtered(filter repository.SwapFilter) []domain.Swap {
	var result []domain.Swap
	for _, swap := range r.store.swaps {
		switch filter.Direction {
		case repository.SwapDirectionSent:
			if swap.RequesterID != filter.UserID {
				continue
			}
		case repository.SwapDirectionReceived:
			if swap.OwnerID != filter.UserID {
				continue
			}
		default:
			if swap.RequesterID != filter.UserID && swap.OwnerID != filter.UserID {
				continue
			}
		}
		result = append(result, *copySwap(swap))
	}
	return result
}

func (r *fakeSwapRepo) CountByStatus(_ context.Context, status domain.SwapStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, swap := range r.store.swaps {
		if swap.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeSwapRepo) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.swaps)), nil
}

// --- moderation log fake ---

type fakeModLogRepo struct{ store *fakeStore }

func (r *fakeModLogRepo) Create(_ context.Context, entry *domain.ModerationLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	r.store.logs = append(r.store.logs, *entry)
	return nil
}

func (r *fakeModLogRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]domain.ModerationLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.ModerationLog
	for _, entry := range r.store.logs {
		if entry.ItemID == itemID {
			result = append(result, entry)
		}
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// --- dispatcher fake ---

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		types = append(types, event.Type)
	}
	return types
}
