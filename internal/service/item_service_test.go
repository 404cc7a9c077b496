package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/events"
)

func newItemFixture(t *testing.T) (*ItemService, *fakeStore, *recordingDispatcher) {
	t.Helper()
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewItemService(testPoints(), ItemDependencies{
		ItemRepo:   &fakeItemRepo{store: store},
		SwapRepo:   &fakeSwapRepo{store: store},
		UserRepo:   &fakeUserRepo{store: store},
		Dispatcher: dispatcher,
	})
	return svc, store, dispatcher
}

func validItemInput() ItemCreateInput {
	return ItemCreateInput{
		Title:        "Wool Sweater",
		Description:  "Warm wool sweater, barely worn.",
		Category:     domain.CategoryTops,
		ClothingType: "sweater",
		Size:         "L",
		Condition:    domain.ConditionExcellent,
		Images:       []string{"https://img.example.com/sweater.jpg"},
	}
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("pending item and upload bonus", func(t *testing.T) {
		svc, store, dispatcher := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)

		item, err := svc.CreateItem(ctx, owner.ID, validItemInput())
		require.NoError(t, err)
		require.Equal(t, domain.ItemStatusPending, item.Status)
		require.False(t, item.Featured)
		require.Equal(t, 10, store.userPoints(owner.ID))
		require.Contains(t, dispatcher.typesSeen(), events.EventItemCreated)
		require.Contains(t, dispatcher.typesSeen(), events.EventPointsAwarded)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)

		cases := map[string]func(*ItemCreateInput){
			"short title":       func(in *ItemCreateInput) { in.Title = "ab" },
			"short description": func(in *ItemCreateInput) { in.Description = "too short" },
			"bad category":      func(in *ItemCreateInput) { in.Category = "hats" },
			"missing type":      func(in *ItemCreateInput) { in.ClothingType = "  " },
			"bad size":          func(in *ItemCreateInput) { in.Size = "XXS" },
			"bad condition":     func(in *ItemCreateInput) { in.Condition = "ruined" },
			"no images":         func(in *ItemCreateInput) { in.Images = nil },
			"bad image url":     func(in *ItemCreateInput) { in.Images = []string{"ftp://img"} },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				input := validItemInput()
				mutate(&input)
				_, err := svc.CreateItem(ctx, owner.ID, input)
				requireDomainCode(t, err, "VALIDATION_FAILED")
			})
		}
		require.Equal(t, 0, store.userPoints(owner.ID))
	})
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newItemFixture(t)
	owner := store.seedUser("owner", domain.UserRoleMember, 0)
	store.seedItem(owner.ID, domain.ItemStatusApproved)
	store.seedItem(owner.ID, domain.ItemStatusApproved)
	store.seedItem(owner.ID, domain.ItemStatusPending)
	store.seedItem(owner.ID, domain.ItemStatusRejected)

	items, total, err := svc.ListItems(ctx, ItemListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.EqualValues(t, 2, total)
	for _, item := range items {
		require.Equal(t, domain.ItemStatusApproved, item.Status)
	}

	status := domain.ItemStatusPending
	items, total, err = svc.ListItems(ctx, ItemListFilter{Status: &status, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.EqualValues(t, 1, total)
	require.Equal(t, domain.ItemStatusPending, items[0].Status)
}

func TestGetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("approved item without swap is available", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)

		detail, err := svc.GetItem(ctx, item.ID)
		require.NoError(t, err)
		require.True(t, detail.Available)
		require.Nil(t, detail.ActiveSwap)
		require.NotNil(t, detail.Owner)
		require.Equal(t, owner.ID, detail.Owner.ID)
	})

	t.Run("pending swap keeps item available", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		requester := store.seedUser("requester", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)
		swaps := &fakeSwapRepo{store: store}
		require.NoError(t, swaps.Create(ctx, &domain.Swap{
			ItemID: item.ID, RequesterID: requester.ID, OwnerID: owner.ID,
			Type: domain.SwapTypeSwap, Status: domain.SwapStatusPending,
		}))

		detail, err := svc.GetItem(ctx, item.ID)
		require.NoError(t, err)
		require.True(t, detail.Available)
		require.NotNil(t, detail.ActiveSwap)
	})

	t.Run("missing item not found", func(t *testing.T) {
		svc, _, _ := newItemFixture(t)
		_, err := svc.GetItem(ctx, "00000000-0000-0000-0000-000000000000")
		requireDomainCode(t, err, "NOT_FOUND")
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("owner edits fields", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)

		title := "Vintage Denim Jacket"
		updated, err := svc.UpdateItem(ctx, owner.ID, item.ID, ItemUpdateInput{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, updated.Title)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		other := store.seedUser("other", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)

		title := "Hijacked"
		_, err := svc.UpdateItem(ctx, other.ID, item.ID, ItemUpdateInput{Title: &title})
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("swapped item frozen", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusSwapped)

		title := "Still Mine"
		_, err := svc.UpdateItem(ctx, owner.ID, item.ID, ItemUpdateInput{Title: &title})
		requireDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("update must keep fields valid", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)

		title := "x"
		_, err := svc.UpdateItem(ctx, owner.ID, item.ID, ItemUpdateInput{Title: &title})
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes free item", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)

		require.NoError(t, svc.DeleteItem(ctx, owner.ID, false, item.ID))
		_, err := svc.GetItem(ctx, item.ID)
		requireDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("active swap blocks deletion", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		requester := store.seedUser("requester", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)
		swaps := &fakeSwapRepo{store: store}
		require.NoError(t, swaps.Create(ctx, &domain.Swap{
			ItemID: item.ID, RequesterID: requester.ID, OwnerID: owner.ID,
			Type: domain.SwapTypeSwap, Status: domain.SwapStatusPending,
		}))

		err := svc.DeleteItem(ctx, owner.ID, false, item.ID)
		requireDomainCode(t, err, "CONFLICT")
	})

	t.Run("historical swaps do not block deletion", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		requester := store.seedUser("requester", domain.UserRoleMember, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)
		swaps := &fakeSwapRepo{store: store}
		rejected := &domain.Swap{
			ItemID: item.ID, RequesterID: requester.ID, OwnerID: owner.ID,
			Type: domain.SwapTypeSwap, Status: domain.SwapStatusPending,
		}
		require.NoError(t, swaps.Create(ctx, rejected))
		_, err := swaps.Reject(ctx, rejected.ID, owner.ID)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteItem(ctx, owner.ID, false, item.ID))
		_, err = svc.GetItem(ctx, item.ID)
		requireDomainCode(t, err, "NOT_FOUND")
		_, err = swaps.GetByID(ctx, rejected.ID)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("non-owner forbidden, admin allowed", func(t *testing.T) {
		svc, store, _ := newItemFixture(t)
		owner := store.seedUser("owner", domain.UserRoleMember, 0)
		other := store.seedUser("other", domain.UserRoleMember, 0)
		admin := store.seedUser("admin", domain.UserRoleAdmin, 0)
		item := store.seedItem(owner.ID, domain.ItemStatusApproved)

		err := svc.DeleteItem(ctx, other.ID, false, item.ID)
		requireDomainCode(t, err, "FORBIDDEN")
		require.NoError(t, svc.DeleteItem(ctx, admin.ID, true, item.ID))
	})
}

func TestListUserItems(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newItemFixture(t)
	owner := store.seedUser("owner", domain.UserRoleMember, 0)
	other := store.seedUser("other", domain.UserRoleMember, 0)
	store.seedItem(owner.ID, domain.ItemStatusApproved)
	store.seedItem(owner.ID, domain.ItemStatusPending)
	store.seedItem(other.ID, domain.ItemStatusApproved)

	items, total, err := svc.ListUserItems(ctx, owner.ID, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.EqualValues(t, 2, total)

	status := domain.ItemStatusPending
	items, total, err = svc.ListUserItems(ctx, owner.ID, &status, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.EqualValues(t, 1, total)
}
