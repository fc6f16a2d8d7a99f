package store

import (
	"testing"
	"time"

	"github.com/go-aegis/aegis/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("sqlite", ":memory:")
	require.NoError(t, err)
	return s
}

func makeTestUser(t *testing.T, s *Store) *models.User {
	t.Helper()
	u := &models.User{
		ID:            uuid.New().String(),
		Email:         uuid.New().String()[:8] + "@example.com",
		PasswordHash:  "hash",
		DisplayName:   "Test User",
		SecurityStamp: uuid.New().String(),
	}
	require.NoError(t, s.CreateUser(u))
	return u
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New("oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenDialector(t *testing.T) {
	dialector, err := openDialector(DriverSQLite, ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", dialector.Name())

	dialector, err = openDialector(DriverPostgres, "host=localhost")
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialector.Name())
}

func TestGetUserByEmail_Normalizes(t *testing.T) {
	s := setupTestStore(t)
	u := makeTestUser(t, s)

	got, err := s.GetUserByEmail("  " + u.Email + "  ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetUserByEmail("absent@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetUserByID_ExcludesSoftDeleted(t *testing.T) {
	s := setupTestStore(t)
	u := makeTestUser(t, s)

	require.NoError(t, s.SoftDeleteUser(u.ID))

	_, err := s.GetUserByID(u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetLockoutState(t *testing.T) {
	s := setupTestStore(t)
	u := makeTestUser(t, s)

	end := time.Now().Add(15 * time.Minute).UTC()
	require.NoError(t, s.SetLockoutState(u.ID, 5, &end))

	got, err := s.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.FailedSignInCount)
	require.NotNil(t, got.LockoutEnd)
	assert.WithinDuration(t, end, *got.LockoutEnd, time.Second)

	// Clearing the lockout resets both columns
	require.NoError(t, s.SetLockoutState(u.ID, 0, nil))
	got, err = s.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedSignInCount)
	assert.Nil(t, got.LockoutEnd)
}

func TestSetSecurityStamp(t *testing.T) {
	s := setupTestStore(t)
	u := makeTestUser(t, s)

	next := uuid.New().String()
	require.NoError(t, s.SetSecurityStamp(u.ID, next))

	got, err := s.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.SecurityStamp)
}

func TestGetDefaultRoles_SeededMemberRole(t *testing.T) {
	s := setupTestStore(t)

	roles, err := s.GetDefaultRoles()
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "member", roles[0].Name)
	assert.True(t, roles[0].AssignByDefault)
}

func TestAddUserToRoles(t *testing.T) {
	s := setupTestStore(t)
	u := makeTestUser(t, s)

	roles, err := s.GetRolesByNames([]string{"member", "admin"})
	require.NoError(t, err)
	require.NoError(t, s.AddUserToRoles(u, roles))

	got, err := s.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"member", "admin"}, got.RoleNames())
}

func TestGetRolesByNames_Missing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetRolesByNames([]string{"member", "nonexistent"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestGetClient_SeededRelyingParty(t *testing.T) {
	s := setupTestStore(t)

	client, err := s.GetClient("aegis-portal")
	require.NoError(t, err)
	assert.Equal(t, "Aegis Portal", client.ClientName)
	assert.Equal(t, "http://localhost:8080/signed-out", client.FirstPostLogoutRedirectURI())
}

func TestCreateAuditLogBatch(t *testing.T) {
	s := setupTestStore(t)

	entries := []*models.AuditLog{
		{
			ID:        uuid.New().String(),
			EventType: models.EventSignInSuccess,
			EventTime: time.Now(),
			Severity:  models.SeverityInfo,
			Action:    "sign in",
			Success:   true,
			CreatedAt: time.Now(),
		},
		{
			ID:        uuid.New().String(),
			EventType: models.EventSignInFailure,
			EventTime: time.Now(),
			Severity:  models.SeverityWarning,
			Action:    "sign in",
			Success:   false,
			CreatedAt: time.Now(),
		},
	}
	require.NoError(t, s.CreateAuditLogBatch(entries))

	failures, err := s.GetAuditLogsByType(models.EventSignInFailure, 10)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.False(t, failures[0].Success)
}

func TestDeleteOldAuditLogs(t *testing.T) {
	s := setupTestStore(t)

	old := &models.AuditLog{
		ID:        uuid.New().String(),
		EventType: models.EventSignOut,
		EventTime: time.Now().Add(-48 * time.Hour),
		Severity:  models.SeverityInfo,
		Action:    "sign out",
		Success:   true,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, s.CreateAuditLog(old))

	deleted, err := s.DeleteOldAuditLogs(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}
