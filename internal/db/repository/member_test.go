package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "orgdesk/internal/db"
	"orgdesk/internal/domain"
)

func testMember(id, name string, role domain.Role) *domain.MemberRecord {
	return &domain.MemberRecord{
		ID:            id,
		Name:          name,
		Email:         id + "@example.edu",
		Role:          role,
		Status:        domain.MemberStatusActive,
		SignInMethod:  "test",
		LastUpdated:   time.Now().UTC(),
		LastUpdatedBy: "test",
	}
}

func TestMemberRepo_CreateGet(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)
	ctx := context.Background()

	m := testMember("m-1", "Uma", domain.RoleMember)
	m.Major = ptr("CS")
	m.GraduationYear = ptrInt(2027)
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "Uma", got.Name)
	assert.Equal(t, domain.RoleMember, got.Role)
	require.NotNil(t, got.Major)
	assert.Equal(t, "CS", *got.Major)
	require.NotNil(t, got.GraduationYear)
	assert.Equal(t, 2027, *got.GraduationYear)
	assert.Nil(t, got.Position)
}

func TestMemberRepo_GetMissing(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)

	var notFound *domain.NotFoundError
	_, err := repo.Get(context.Background(), "nope")
	require.ErrorAs(t, err, &notFound)
}

func TestMemberRepo_CreateDuplicate(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testMember("m-1", "Uma", domain.RoleMember)))

	var validationErr *domain.ValidationError
	err := repo.Create(ctx, testMember("m-1", "Uma Again", domain.RoleMember))
	require.ErrorAs(t, err, &validationErr)
}

func TestMemberRepo_List(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testMember("m-2", "Zoe", domain.RoleMember)))
	require.NoError(t, repo.Create(ctx, testMember("m-1", "Ada", domain.RoleSponsor)))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].Name)
	assert.Equal(t, "Zoe", all[1].Name)
}

func TestMemberRepo_Update(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testMember("m-1", "Uma", domain.RoleMember)))

	updated, err := repo.Update(ctx, "m-1", func(m *domain.MemberRecord) error {
		m.Points = 42
		m.Position = ptr("Treasurer")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Points)

	got, err := repo.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 42, got.Points)
	require.NotNil(t, got.Position)
	assert.Equal(t, "Treasurer", *got.Position)
}

func TestMemberRepo_UpdateMutateError(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testMember("m-1", "Uma", domain.RoleMember)))

	// A mutate error aborts the write and surfaces unchanged.
	sentinel := domain.ErrPrecondition("no")
	_, err := repo.Update(ctx, "m-1", func(m *domain.MemberRecord) error {
		m.Points = 99
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	got, err := repo.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Zero(t, got.Points)
}

func TestMemberRepo_Delete(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewMemberRepo(writeDB, readDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testMember("m-1", "Uma", domain.RoleMember)))
	require.NoError(t, repo.Delete(ctx, "m-1"))

	var notFound *domain.NotFoundError
	require.ErrorAs(t, repo.Delete(ctx, "m-1"), &notFound)
}

func TestProfileRepo_UpsertGetDelete(t *testing.T) {
	writeDB, readDB := internaldb.OpenTest(t)
	repo := NewProfileRepo(writeDB, readDB)
	ctx := context.Background()

	p := &domain.PublicProfile{MemberID: "m-1", Name: "Uma", Points: 7, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, p))

	p.Points = 9
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Points)

	require.NoError(t, repo.Delete(ctx, "m-1"))
	var notFound *domain.NotFoundError
	_, err = repo.Get(ctx, "m-1")
	require.ErrorAs(t, err, &notFound)

	// Deleting an absent projection is not an error.
	require.NoError(t, repo.Delete(ctx, "m-1"))
}

func ptr(s string) *string { return &s }
func ptrInt(n int) *int    { return &n }
