package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/repositories"
	"github.com/rohits-web03/worklog/internal/testsupport"
)

func intPtr(v int) *int { return &v }

func TestCreateUserEmailUnique(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()

	require.NoError(t, repositories.CreateUser(ctx, &models.User{Username: "a", Email: "a@example.com", Password: "x"}))
	err := repositories.CreateUser(ctx, &models.User{Username: "b", Email: "a@example.com", Password: "y"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindUserByEmailNotFound(t *testing.T) {
	testsupport.NewDB(t)

	_, err := repositories.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	db := testsupport.NewDB(t)
	testsupport.CreateUser(t, db, "first@example.com", "pw", "")
	testsupport.CreateUser(t, db, "second@example.com", "pw", "key-2")

	users, err := repositories.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "first@example.com", users[0].Email)
	assert.Nil(t, users[0].APIKey)
	require.NotNil(t, users[1].APIKey)
	assert.Equal(t, "key-2", *users[1].APIKey)
}

func TestSetAPIKey(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "k@example.com", "pw", "")

	key := "00112233445566778899aabbccddeeff"
	require.NoError(t, repositories.SetAPIKey(ctx, user.ID, &key))

	found, err := repositories.AuthenticateAPIKey(ctx, key, "2024-04-04", 10)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repositories.SetAPIKey(ctx, user.ID, nil))
	_, err = repositories.AuthenticateAPIKey(ctx, key, "2024-04-04", 10)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repositories.SetAPIKey(ctx, 9999, nil), repositories.ErrNotFound)
}

func TestAuthenticateAPIKeyQuota(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "q@example.com", "pw", "key-q")

	for i := 0; i < 3; i++ {
		_, err := repositories.AuthenticateAPIKey(ctx, "key-q", "2024-04-04", 3)
		require.NoError(t, err, "call %d", i+1)
	}

	_, err := repositories.AuthenticateAPIKey(ctx, "key-q", "2024-04-04", 3)
	require.ErrorIs(t, err, repositories.ErrQuotaExceeded)

	count, err := repositories.UsageForDay(ctx, user.ID, "2024-04-04")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "rejected calls are not counted")

	_, err = repositories.AuthenticateAPIKey(ctx, "key-q", "2024-04-05", 3)
	require.NoError(t, err)
	count, err = repositories.UsageForDay(ctx, user.ID, "2024-04-05")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertActivity(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "u@example.com", "pw", "")

	created, err := repositories.UpsertActivity(ctx, &models.Activity{ID: 42, UserID: user.ID, Name: "Coding", Color: "#00ff00"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repositories.UpsertActivity(ctx, &models.Activity{ID: 42, UserID: user.ID, Name: "Deep work", Description: "focus", Color: "#0000ff"})
	require.NoError(t, err)
	assert.False(t, created)

	activities, err := repositories.ListActivities(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.EqualValues(t, 42, activities[0].ID)
	assert.Equal(t, "Deep work", activities[0].Name)
	assert.Equal(t, "focus", activities[0].Description)
	assert.Equal(t, "#0000ff", activities[0].Color)
}

func TestUpsertActivityForeignIDFails(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, db, "owner@example.com", "pw", "")
	other := testsupport.CreateUser(t, db, "other@example.com", "pw", "")

	require.NoError(t, repositories.CreateActivity(ctx, &models.Activity{ID: 7, UserID: owner.ID, Name: "Mine"}))

	_, err := repositories.UpsertActivity(ctx, &models.Activity{ID: 7, UserID: other.ID, Name: "Theirs"})
	require.Error(t, err)

	found, err := repositories.FindActivity(ctx, 7, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", found.Name)
}

func TestActivityNameGloballyUnique(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	a := testsupport.CreateUser(t, db, "a@example.com", "pw", "")
	b := testsupport.CreateUser(t, db, "b@example.com", "pw", "")

	require.NoError(t, repositories.CreateActivity(ctx, &models.Activity{UserID: a.ID, Name: "Meetings"}))
	assert.Error(t, repositories.CreateActivity(ctx, &models.Activity{UserID: b.ID, Name: "Meetings"}))
}

func TestListWorkingHoursDropsUnknownActivity(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "w@example.com", "pw", "")

	require.NoError(t, repositories.CreateActivity(ctx, &models.Activity{UserID: user.ID, Name: "Coding", Color: "#123456"}))
	require.NoError(t, repositories.CreateWorkingHours(ctx, &models.WorkingHours{
		UserID: user.ID, DateFrom: "2024-04-04", DateTo: "2024-04-04",
		HoursFrom: "09:00", HoursTo: "17:30", Activity: "Coding", Duration: intPtr(510),
	}))
	orphan := &models.WorkingHours{
		UserID: user.ID, DateFrom: "2024-04-05", DateTo: "2024-04-05",
		HoursFrom: "10:00", HoursTo: "11:00", Activity: "Nope", Duration: intPtr(60),
	}
	require.NoError(t, repositories.CreateWorkingHours(ctx, orphan))

	rows, err := repositories.ListWorkingHoursWithColor(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Coding", rows[0].Activity)
	assert.Equal(t, "#123456", rows[0].Color)

	stored, err := repositories.FindWorkingHours(ctx, orphan.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nope", stored.Activity)
}

func TestUpdateWorkingHours(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "w@example.com", "pw", "")
	other := testsupport.CreateUser(t, db, "x@example.com", "pw", "")

	entry := &models.WorkingHours{
		UserID: user.ID, DateFrom: "2024-04-04", DateTo: "2024-04-04",
		HoursFrom: "09:00", HoursTo: "10:00", Activity: "Coding", Duration: intPtr(60),
	}
	require.NoError(t, repositories.CreateWorkingHours(ctx, entry))

	updated, err := repositories.UpdateWorkingHours(ctx, &models.WorkingHours{
		ID: entry.ID, UserID: user.ID, DateFrom: "2024-04-04", DateTo: "2024-04-04",
		HoursFrom: "09:00", HoursTo: "12:15", Activity: "Review", Description: "PRs", Duration: intPtr(195),
	})
	require.NoError(t, err)
	assert.Equal(t, "12:15", updated.HoursTo)
	assert.Equal(t, "Review", updated.Activity)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 195, *updated.Duration)

	_, err = repositories.UpdateWorkingHours(ctx, &models.WorkingHours{ID: entry.ID, UserID: other.ID, Activity: "Hijack"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repositories.UpdateWorkingHours(ctx, &models.WorkingHours{ID: 999, UserID: user.ID, Activity: "Ghost"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.WorkingHours{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSumDurationMinutes(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "s@example.com", "pw", "")
	other := testsupport.CreateUser(t, db, "t@example.com", "pw", "")

	for _, e := range []models.WorkingHours{
		{UserID: user.ID, DateFrom: "2024-04-01", DateTo: "2024-04-01", HoursFrom: "09:00", HoursTo: "10:00", Activity: "a", Duration: intPtr(60)},
		{UserID: user.ID, DateFrom: "2024-04-04", DateTo: "2024-04-04", HoursFrom: "09:00", HoursTo: "09:30", Activity: "a", Duration: intPtr(30)},
		{UserID: user.ID, DateFrom: "2024-04-30", DateTo: "2024-05-01", HoursFrom: "22:00", HoursTo: "02:00", Activity: "a", Duration: intPtr(240)},
		{UserID: other.ID, DateFrom: "2024-04-04", DateTo: "2024-04-04", HoursFrom: "09:00", HoursTo: "17:00", Activity: "a", Duration: intPtr(480)},
	} {
		entry := e
		require.NoError(t, repositories.CreateWorkingHours(ctx, &entry))
	}

	total, err := repositories.SumDurationMinutes(ctx, user.ID, "2024-04-01", "2024-04-30")
	require.NoError(t, err)
	assert.EqualValues(t, 90, total, "entries spilling past the window are excluded")

	total, err = repositories.SumDurationMinutes(ctx, user.ID, "2025-01-01", "2025-12-31")
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestAuthenticateAPIKeyConcurrentCallsAllCounted(t *testing.T) {
	db := testsupport.NewFileDB(t)
	user := testsupport.CreateUser(t, db, "busy@example.com", "pw", "key-busy")

	const calls = 50
	errs := make(chan error, calls)
	var wg sync.WaitGroup
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repositories.AuthenticateAPIKey(context.Background(), "key-busy", "2024-04-04", 1000)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	count, err := repositories.UsageForDay(context.Background(), user.ID, "2024-04-04")
	require.NoError(t, err)
	assert.Equal(t, calls, count)
}

func TestAuthenticateAPIKeyConcurrentCallsStopAtLimit(t *testing.T) {
	db := testsupport.NewFileDB(t)
	user := testsupport.CreateUser(t, db, "burst@example.com", "pw", "key-burst")

	const calls, limit = 50, 20
	errs := make(chan error, calls)
	var wg sync.WaitGroup
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repositories.AuthenticateAPIKey(context.Background(), "key-burst", "2024-04-04", limit)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, repositories.ErrQuotaExceeded)
		rejected++
	}
	assert.Equal(t, limit, ok)
	assert.Equal(t, calls-limit, rejected)

	count, err := repositories.UsageForDay(context.Background(), user.ID, "2024-04-04")
	require.NoError(t, err)
	assert.Equal(t, limit, count)
}

func TestUpsertActivityConcurrentSameID(t *testing.T) {
	db := testsupport.NewFileDB(t)
	user := testsupport.CreateUser(t, db, "race@example.com", "pw", "")

	const writers = 20
	created := make(chan bool, writers)
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := repositories.UpsertActivity(context.Background(), &models.Activity{
				ID:     42,
				UserID: user.ID,
				Name:   fmt.Sprintf("focus-%d", i),
			})
			errs <- err
			created <- c
		}()
	}
	wg.Wait()
	close(errs)
	close(created)

	for err := range errs {
		require.NoError(t, err)
	}
	inserts := 0
	for c := range created {
		if c {
			inserts++
		}
	}
	assert.Equal(t, 1, inserts)

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
