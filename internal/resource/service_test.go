package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nexus/internal/core/database"
	"nexus/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Contact{}, &domain.Task{}, &domain.CalendarEvent{},
		&domain.Deal{}, &domain.Project{},
	))
	return db
}

func newContacts(t *testing.T) (*Service[domain.Contact], *gorm.DB) {
	db := newTestDB(t)
	return New[domain.Contact](db,
		WithSearchColumns[domain.Contact]("name", "email", "company")), db
}

func TestCreateThenListIncludesRecordOnce(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &domain.Contact{
		Name: "John Doe", Email: "john@example.com", Status: domain.ContactStatusLead,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID, "id is server-assigned")
	assert.Equal(t, "owner-1", created.OwnerID)

	items, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "John Doe", items[0].Name)
}

func TestCreateStampsUpdatedAtEqualCreate(t *testing.T) {
	svc, _ := newContacts(t)

	created, err := svc.Create(context.Background(), "owner-1", &domain.Contact{
		Name: "A", Email: "a@example.com",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, created.CreatedAt, created.UpdatedAt, time.Millisecond)
}

func TestUpdateMergesPatchAndKeepsOtherFields(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &domain.Contact{
		Name: "John Doe", Email: "john@example.com",
		Company: "Acme", Status: domain.ContactStatusLead,
	})
	require.NoError(t, err)

	got, err := svc.Update(ctx, "owner-1", created.ID, map[string]any{
		"name":   "Jane Doe",
		"status": domain.ContactStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, domain.ContactStatusActive, got.Status)
	// untouched fields survive the merge
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "Acme", got.Company)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestUpdateIgnoresProtectedFields(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &domain.Contact{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, "owner-1", created.ID, map[string]any{
		"id":      "forged",
		"ownerId": "owner-2",
		"name":    "B",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, "B", got.Name)
}

func TestDeleteRemovesRecord(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &domain.Contact{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner-1", created.ID))

	items, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteNonexistentFailsClearly(t *testing.T) {
	svc, _ := newContacts(t)
	err := svc.Delete(context.Background(), "owner-1", "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerScoping(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-a", &domain.Contact{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, "owner-b", &domain.Contact{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	itemsA, err := svc.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, itemsA, 1)
	assert.Equal(t, "owner-a", itemsA[0].OwnerID)

	// cross-owner reads, updates, and deletes all miss
	_, err = svc.Get(ctx, "owner-a", b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, "owner-a", b.ID, map[string]any{"name": "hijack"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "owner-a", b.ID), ErrNotFound)
}

func TestListEmptyIsNotError(t *testing.T) {
	svc, _ := newContacts(t)
	items, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearchMatchesSubstringAcrossColumns(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "o", &domain.Contact{Name: "Ada Lovelace", Email: "ada@math.example"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "o", &domain.Contact{Name: "Grace Hopper", Email: "grace@navy.example", Company: "Adacorp"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "o", &domain.Contact{Name: "Linus", Email: "linus@kernel.example"})
	require.NoError(t, err)

	items, err := svc.Search(ctx, "o", "ADA")
	require.NoError(t, err)
	assert.Len(t, items, 2, "name and company columns both match, case-insensitively")
}

func TestFindEqualityFilter(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	for _, st := range []string{domain.ContactStatusLead, domain.ContactStatusActive, domain.ContactStatusLead} {
		_, err := svc.Create(ctx, "o", &domain.Contact{Name: "x", Email: "x@example.com", Status: st})
		require.NoError(t, err)
	}

	items, err := svc.Find(ctx, "o", Filter{Equals: map[string]string{"status": domain.ContactStatusLead}})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.Find(ctx, "o", Filter{Equals: map[string]string{"status; DROP": "x"}})
	assert.Error(t, err, "filter columns are validated")
}

func TestListOrdersByCreationDesc(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "o", &domain.Contact{Name: "first", Email: "1@example.com"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, "o", &domain.Contact{Name: "second", Email: "2@example.com"})
	require.NoError(t, err)

	items, err := svc.List(ctx, "o")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestCalendarEventsOrderByStartAsc(t *testing.T) {
	db := newTestDB(t)
	svc := New[domain.CalendarEvent](db,
		WithOrderBy[domain.CalendarEvent]("start_time ASC"))
	ctx := context.Background()

	later := time.Now().Add(2 * time.Hour)
	sooner := time.Now().Add(1 * time.Hour)
	_, err := svc.Create(ctx, "o", &domain.CalendarEvent{
		Title: "later", StartTime: later, EndTime: later.Add(time.Hour), EventType: domain.EventTypeMeeting,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "o", &domain.CalendarEvent{
		Title: "sooner", StartTime: sooner, EndTime: sooner.Add(time.Hour), EventType: domain.EventTypeCall,
	})
	require.NoError(t, err)

	items, err := svc.List(ctx, "o")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "sooner", items[0].Title)
}

func TestTagSetRoundTrip(t *testing.T) {
	svc, _ := newContacts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "o", &domain.Contact{
		Name: "T", Email: "t@example.com", Tags: domain.Tags{"vip", "inbound"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "o", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Tags{"vip", "inbound"}, got.Tags)

	// patch the tag set through the merge-update path
	updated, err := svc.Update(ctx, "o", created.ID, map[string]any{
		"tags": []any{"vip"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Tags{"vip"}, updated.Tags)
}
