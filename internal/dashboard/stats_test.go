package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nexus/internal/core/cache"
	"nexus/internal/core/database"
	"nexus/internal/domain"
	"nexus/internal/resource"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, context.Context) {
	t.Helper()
	db, err := database.New(database.Opts{
		Driver: "sqlite", DSN: ":memory:",
		MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Contact{}, &domain.Task{}, &domain.Deal{},
		&domain.Activity{}, &domain.Project{},
	))

	contacts := resource.New[domain.Contact](db)
	tasks := resource.New[domain.Task](db)
	deals := resource.New[domain.Deal](db)
	activities := resource.New[domain.Activity](db)
	projects := resource.New[domain.Project](db)

	svc := NewService(contacts, tasks, deals, activities, projects, cache.NewMemory(), nil)
	return svc, db, context.Background()
}

func TestEmptyDashboardIsAllZero(t *testing.T) {
	svc, _, ctx := newTestService(t)

	st, err := svc.Load(ctx, "owner-1")
	require.NoError(t, err)

	assert.Zero(t, st.Contacts.Total)
	assert.Zero(t, st.Tasks.Total)
	assert.Zero(t, st.Deals.Total)
	assert.Zero(t, st.Deals.TotalValue)
	assert.Zero(t, st.Activities.Total)
	assert.Zero(t, st.Projects.Total)
	assert.Empty(t, st.Errors)
}

func TestCountsEqualPartitionSums(t *testing.T) {
	svc, db, ctx := newTestService(t)

	contacts := resource.New[domain.Contact](db)
	for _, s := range []string{
		domain.ContactStatusLead, domain.ContactStatusLead,
		domain.ContactStatusActive, domain.ContactStatusPast,
	} {
		_, err := contacts.Create(ctx, "o", &domain.Contact{Name: "c", Email: "c@example.com", Status: s})
		require.NoError(t, err)
	}

	tasks := resource.New[domain.Task](db)
	for _, s := range []string{domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusCompleted, domain.TaskStatusCompleted} {
		_, err := tasks.Create(ctx, "o", &domain.Task{Title: "t", Status: s})
		require.NoError(t, err)
	}

	deals := resource.New[domain.Deal](db)
	for _, d := range []domain.Deal{
		{Title: "d1", Value: 1000, Stage: domain.DealStageProspect},
		{Title: "d2", Value: 2500, Stage: domain.DealStageClosedWon},
		{Title: "d3", Value: 500, Stage: domain.DealStageClosedWon},
	} {
		_, err := deals.Create(ctx, "o", &d)
		require.NoError(t, err)
	}

	st, err := svc.Load(ctx, "o")
	require.NoError(t, err)

	assert.Equal(t, 4, st.Contacts.Total)
	assert.Equal(t, st.Contacts.Total, st.Contacts.Leads+st.Contacts.Active+st.Contacts.Past)
	assert.Equal(t, 2, st.Contacts.Leads)

	assert.Equal(t, 4, st.Tasks.Total)
	assert.Equal(t, st.Tasks.Total, st.Tasks.Todo+st.Tasks.InProgress+st.Tasks.Completed)

	assert.Equal(t, 3, st.Deals.Total)
	assert.Equal(t, 4000.0, st.Deals.TotalValue)
	assert.Equal(t, 2, st.Deals.ByStage[domain.DealStageClosedWon])

	sum := 0
	for _, n := range st.Deals.ByStage {
		sum += n
	}
	assert.Equal(t, st.Deals.Total, sum)
}

func TestDashboardIsOwnerScoped(t *testing.T) {
	svc, db, ctx := newTestService(t)

	contacts := resource.New[domain.Contact](db)
	_, err := contacts.Create(ctx, "other", &domain.Contact{Name: "x", Email: "x@example.com", Status: domain.ContactStatusLead})
	require.NoError(t, err)

	st, err := svc.Load(ctx, "me")
	require.NoError(t, err)
	assert.Zero(t, st.Contacts.Total)
}

func TestPartialDegradationKeepsHealthySections(t *testing.T) {
	svc, db, ctx := newTestService(t)

	contacts := resource.New[domain.Contact](db)
	_, err := contacts.Create(ctx, "o", &domain.Contact{Name: "c", Email: "c@example.com", Status: domain.ContactStatusActive})
	require.NoError(t, err)

	// break one source only
	require.NoError(t, db.Migrator().DropTable(&domain.Task{}))

	st, err := svc.Load(ctx, "o")
	require.NoError(t, err)

	assert.Equal(t, 1, st.Contacts.Total, "healthy sections stay correct")
	assert.Contains(t, st.Errors, "tasks")
	assert.Zero(t, st.Tasks.Total)
}

func TestDegradedSnapshotIsNotCached(t *testing.T) {
	svc, db, ctx := newTestService(t)

	contacts := resource.New[domain.Contact](db)
	_, err := contacts.Create(ctx, "o", &domain.Contact{Name: "c", Email: "c@example.com", Status: domain.ContactStatusActive})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&domain.Task{}))
	st, err := svc.Load(ctx, "o")
	require.NoError(t, err)
	require.Contains(t, st.Errors, "tasks")

	// store recovers; the next load within the TTL must not replay the
	// failed snapshot
	require.NoError(t, db.AutoMigrate(&domain.Task{}))
	tasks := resource.New[domain.Task](db)
	_, err = tasks.Create(ctx, "o", &domain.Task{Title: "t", Status: domain.TaskStatusTodo})
	require.NoError(t, err)

	st, err = svc.Load(ctx, "o")
	require.NoError(t, err)
	assert.Empty(t, st.Errors)
	assert.Equal(t, 1, st.Tasks.Total)
	assert.Equal(t, 1, st.Contacts.Total)
}

func TestHealthySnapshotIsCachedUntilInvalidated(t *testing.T) {
	svc, db, ctx := newTestService(t)

	contacts := resource.New[domain.Contact](db)
	_, err := contacts.Create(ctx, "o", &domain.Contact{Name: "c1", Email: "c1@example.com", Status: domain.ContactStatusLead})
	require.NoError(t, err)

	st, err := svc.Load(ctx, "o")
	require.NoError(t, err)
	require.Equal(t, 1, st.Contacts.Total)

	// a write that bypasses invalidation is not visible yet
	_, err = contacts.Create(ctx, "o", &domain.Contact{Name: "c2", Email: "c2@example.com", Status: domain.ContactStatusLead})
	require.NoError(t, err)
	st, err = svc.Load(ctx, "o")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Contacts.Total)

	svc.Invalidate(ctx, "o")
	st, err = svc.Load(ctx, "o")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Contacts.Total)
}
