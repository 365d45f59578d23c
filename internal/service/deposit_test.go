package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "orgdesk/internal/db"
	"orgdesk/internal/db/repository"
	"orgdesk/internal/domain"
)

var (
	adminActor = domain.Principal{ID: "admin-1", Role: domain.RoleAdministrator}
	memberU    = domain.Principal{ID: "member-1", Role: domain.RoleMember}
	memberV    = domain.Principal{ID: "member-2", Role: domain.RoleMember}
	execActor  = domain.Principal{ID: "exec-1", Role: domain.RoleExecutiveOfficer}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeReceiptStore records deletions and serves canned presign URLs.
type fakeReceiptStore struct {
	mu         sync.Mutex
	deleted    []string
	presignErr error
}

func (f *fakeReceiptStore) Delete(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeReceiptStore) PresignGet(_ context.Context, ref string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://receipts.test/" + ref, nil
}

func (f *fakeReceiptStore) deletedRefs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// fakeNotifier counts status-change notifications.
type fakeNotifier struct {
	mu       sync.Mutex
	invites  int
	deposits int
}

func (f *fakeNotifier) InviteIssued(context.Context, *domain.Invitation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites++
}

func (f *fakeNotifier) DepositStatusChanged(context.Context, *domain.Deposit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deposits++
}

func seedMember(t *testing.T, members domain.MemberRepository, p domain.Principal, name string) {
	t.Helper()
	err := members.Create(context.Background(), &domain.MemberRecord{
		ID:            p.ID,
		Name:          name,
		Email:         p.ID + "@example.edu",
		Role:          p.Role,
		Status:        domain.MemberStatusActive,
		LastUpdated:   time.Now().UTC(),
		LastUpdatedBy: "test",
	})
	require.NoError(t, err)
}

func setupDepositService(t *testing.T) (*DepositService, *fakeReceiptStore, *fakeNotifier) {
	t.Helper()
	writeDB, readDB := internaldb.OpenTest(t)

	members := repository.NewMemberRepo(writeDB, readDB)
	deposits := repository.NewDepositRepo(writeDB, readDB)
	receipts := &fakeReceiptStore{}
	notifier := &fakeNotifier{}

	seedMember(t, members, adminActor, "Alice Admin")
	seedMember(t, members, memberU, "Uma Member")
	seedMember(t, members, memberV, "Vic Member")

	return NewDepositService(deposits, members, receipts, notifier, discardLogger()), receipts, notifier
}

func testDraft() domain.DepositDraft {
	return domain.DepositDraft{
		Title:       "october dues",
		Amount:      2500,
		DepositDate: time.Now().UTC(),
		Method:      domain.DepositMethod{Kind: domain.DepositMethodCash},
		Purpose:     "dues",
	}
}

func TestDepositSubmit(t *testing.T) {
	svc, _, _ := setupDepositService(t)

	d, err := svc.Submit(context.Background(), memberU, testDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, domain.DepositStatusPending, d.Status)
	assert.Equal(t, memberU.ID, d.DepositedBy)
	require.Len(t, d.AuditLog, 1)
	assert.Equal(t, domain.AuditActionSubmitted, d.AuditLog[0].Action)
	assert.Equal(t, memberU.ID, d.AuditLog[0].CreatedBy)
	assert.Equal(t, "Uma Member", d.AuditLog[0].CreatedByName)
}

func TestDepositSubmit_InvalidDraft(t *testing.T) {
	svc, _, _ := setupDepositService(t)

	draft := testDraft()
	draft.Amount = 0
	_, err := svc.Submit(context.Background(), memberU, draft)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestDepositSubmit_OtherMethod(t *testing.T) {
	svc, _, _ := setupDepositService(t)

	draft := testDraft()
	draft.Method = domain.DepositMethod{Kind: domain.DepositMethodOther}
	_, err := svc.Submit(context.Background(), memberU, draft)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	draft.Method.Detail = "venmo transfer"
	d, err := svc.Submit(context.Background(), memberU, draft)
	require.NoError(t, err)
	assert.Equal(t, "venmo transfer", d.Method.Detail)

	// Round-trips through the store.
	got, err := svc.Get(context.Background(), memberU, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositMethodOther, got.Method.Kind)
	assert.Equal(t, "venmo transfer", got.Method.Detail)
}

func TestDepositVerify(t *testing.T) {
	svc, _, notifier := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	verified, err := svc.Verify(ctx, adminActor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedAt)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, adminActor.ID, *verified.VerifiedBy)
	require.Len(t, verified.AuditLog, 2)
	assert.Equal(t, domain.AuditActionVerified, verified.AuditLog[1].Action)
	assert.Equal(t, 1, notifier.deposits)
}

func TestDepositVerify_NonAdmin(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	var denied *domain.PermissionDeniedError
	_, err = svc.Verify(ctx, memberU, d.ID)
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.DenialRole, denied.Reason)

	_, err = svc.Verify(ctx, execActor, d.ID)
	require.ErrorAs(t, err, &denied)
}

func TestDepositVerify_Twice(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	first, err := svc.Verify(ctx, adminActor, d.ID)
	require.NoError(t, err)

	// The second call fails the pending guard and leaves the record alone.
	_, err = svc.Verify(ctx, adminActor, d.ID)
	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)

	got, err := svc.Get(ctx, adminActor, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.AuditLog, 2)
	assert.Equal(t, first.VerifiedAt.Unix(), got.VerifiedAt.Unix())
}

func TestDepositReject(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, adminActor, d.ID, "missing receipt")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusRejected, rejected.Status)
	assert.Equal(t, "missing receipt", rejected.RejectionReason)
	require.Len(t, rejected.AuditLog, 2)
	assert.Equal(t, domain.AuditActionRejected, rejected.AuditLog[1].Action)
	assert.Equal(t, "missing receipt", rejected.AuditLog[1].Note)

	// Terminal state: a later verify fails the precondition.
	_, err = svc.Verify(ctx, adminActor, d.ID)
	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
}

func TestDepositReject_EmptyReason(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	_, err = svc.Reject(ctx, adminActor, d.ID, "")
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	got, err := svc.Get(ctx, adminActor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusPending, got.Status)
	assert.Len(t, got.AuditLog, 1)
}

func TestDepositVerifyRejectRace(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	// One of the two concurrent transitions must lose with a precondition
	// failure; the winner's terminal state must survive.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Verify(ctx, adminActor, d.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Reject(ctx, adminActor, d.ID, "duplicate")
	}()
	wg.Wait()

	var precondition *domain.PreconditionError
	switch {
	case errs[0] == nil:
		require.ErrorAs(t, errs[1], &precondition)
	case errs[1] == nil:
		require.ErrorAs(t, errs[0], &precondition)
	default:
		t.Fatalf("both transitions failed: %v / %v", errs[0], errs[1])
	}

	got, err := svc.Get(ctx, adminActor, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Terminal())
	assert.Len(t, got.AuditLog, 2)
}

func TestDepositRemove_SubmitterPending(t *testing.T) {
	svc, receipts, _ := setupDepositService(t)
	ctx := context.Background()

	draft := testDraft()
	draft.ReceiptFiles = []string{"r/1.jpg", "r/2.jpg"}
	d, err := svc.Submit(ctx, memberU, draft)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, memberU, d.ID))

	var notFound *domain.NotFoundError
	_, err = svc.Get(ctx, adminActor, d.ID)
	require.ErrorAs(t, err, &notFound)
	assert.ElementsMatch(t, []string{"r/1.jpg", "r/2.jpg"}, receipts.deletedRefs())
}

func TestDepositRemove_OtherMember(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	var denied *domain.PermissionDeniedError
	err = svc.Remove(ctx, memberV, d.ID)
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.DenialOwnership, denied.Reason)
}

func TestDepositRemove_TerminalState(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)
	_, err = svc.Verify(ctx, adminActor, d.ID)
	require.NoError(t, err)

	// The submitter may no longer delete a verified deposit.
	var denied *domain.PermissionDeniedError
	err = svc.Remove(ctx, memberU, d.ID)
	require.ErrorAs(t, err, &denied)

	// An administrator still may.
	require.NoError(t, svc.Remove(ctx, adminActor, d.ID))
}

func TestDepositRemoveReceiptFile(t *testing.T) {
	svc, receipts, _ := setupDepositService(t)
	ctx := context.Background()

	draft := testDraft()
	draft.ReceiptFiles = []string{"r/1.jpg", "r/2.jpg"}
	d, err := svc.Submit(ctx, memberU, draft)
	require.NoError(t, err)

	updated, err := svc.RemoveReceiptFile(ctx, memberU, d.ID, "r/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"r/2.jpg"}, updated.ReceiptFiles)
	require.Len(t, updated.AuditLog, 2)
	assert.Equal(t, domain.AuditActionReceiptRemoved, updated.AuditLog[1].Action)
	assert.Equal(t, "r/1.jpg", updated.AuditLog[1].Note)
	assert.Equal(t, []string{"r/1.jpg"}, receipts.deletedRefs())

	var notFound *domain.NotFoundError
	_, err = svc.RemoveReceiptFile(ctx, memberU, d.ID, "r/9.jpg")
	require.ErrorAs(t, err, &notFound)

	// Other members cannot detach files from a deposit they cannot view.
	var denied *domain.PermissionDeniedError
	_, err = svc.RemoveReceiptFile(ctx, memberV, d.ID, "r/2.jpg")
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.DenialOwnership, denied.Reason)
}

func TestDepositVisibility(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	d, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)

	_, err = svc.Get(ctx, memberU, d.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, adminActor, d.ID)
	require.NoError(t, err)

	var denied *domain.PermissionDeniedError
	_, err = svc.Get(ctx, memberV, d.ID)
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.DenialOwnership, denied.Reason)
}

func TestDepositList(t *testing.T) {
	svc, _, _ := setupDepositService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, memberU, testDraft())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, memberV, testDraft())
	require.NoError(t, err)

	own, err := svc.List(ctx, memberU)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, memberU.ID, own[0].DepositedBy)

	all, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDepositPresignReceipt(t *testing.T) {
	svc, receipts, _ := setupDepositService(t)
	ctx := context.Background()

	draft := testDraft()
	draft.ReceiptFiles = []string{"r/1.jpg"}
	d, err := svc.Submit(ctx, memberU, draft)
	require.NoError(t, err)

	url, err := svc.PresignReceipt(ctx, memberU, d.ID, "r/1.jpg", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://receipts.test/r/1.jpg", url)

	var notFound *domain.NotFoundError
	_, err = svc.PresignReceipt(ctx, memberU, d.ID, "r/9.jpg", time.Minute)
	require.ErrorAs(t, err, &notFound)

	receipts.presignErr = context.DeadlineExceeded
	var dependency *domain.DependencyError
	_, err = svc.PresignReceipt(ctx, memberU, d.ID, "r/1.jpg", time.Minute)
	require.ErrorAs(t, err, &dependency)
}
