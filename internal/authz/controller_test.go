package authz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattaxpro/client-go/internal/api/dto"
	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/pkg/util"
)

type fakeAPI struct {
	mu           sync.Mutex
	listCalls    int
	requestCalls int
	updateCalls  int
	removeCalls  int

	invitations   []dto.AuthorizationRequestResponse
	requestResult *dto.AuthorizationRequestResponse
	updateErr     error
	removeErr     error

	// When non-nil, UpdateAuthorizationStatus signals updateStarted and
	// then blocks until updateRelease closes.
	updateStarted chan struct{}
	updateRelease chan struct{}
}

func (f *fakeAPI) ListInvitations(ctx context.Context, userID string) ([]dto.AuthorizationRequestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]dto.AuthorizationRequestResponse{}, f.invitations...), nil
}

func (f *fakeAPI) RequestAuthorization(ctx context.Context, accountantID string) (*dto.AuthorizationRequestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requestCalls++
	if f.requestResult != nil {
		return f.requestResult, nil
	}
	return &dto.AuthorizationRequestResponse{
		ID:           "req-" + accountantID,
		UserID:       "u-1",
		AccountantID: accountantID,
		Status:       "pending",
		CreatedAt:    time.Now(),
	}, nil
}

func (f *fakeAPI) UpdateAuthorizationStatus(ctx context.Context, requestID string, status domain.AuthorizationStatus) error {
	f.mu.Lock()
	f.updateCalls++
	started, release := f.updateStarted, f.updateRelease
	err := f.updateErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	return err
}

func (f *fakeAPI) RemoveAuthorization(ctx context.Context, requestID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	return f.removeErr
}

func (f *fakeAPI) counts() (list, request, update, remove int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.requestCalls, f.updateCalls, f.removeCalls
}

func invitation(id, accountantID, status string) dto.AuthorizationRequestResponse {
	return dto.AuthorizationRequestResponse{
		ID:           id,
		UserID:       "u-1",
		AccountantID: accountantID,
		Status:       status,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newController(t *testing.T, fake *fakeAPI, role domain.Role) *Controller {
	t.Helper()
	ctrl := New(Options{
		API:       fake,
		SubjectID: "u-1",
		Role:      role,
		Interval:  5 * time.Millisecond,
	})
	require.NoError(t, ctrl.Refresh(context.Background()))
	return ctrl
}

func TestRefreshIsIdempotent(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "pending"),
		invitation("req-2", "acct-7", "approved"),
	}}
	ctrl := newController(t, fake, domain.RoleUser)

	first := ctrl.Snapshot()
	require.NoError(t, ctrl.Refresh(context.Background()))
	second := ctrl.Snapshot()

	assert.Equal(t, first, second, "two polls with no server change must yield identical snapshots")
	assert.Len(t, second, 2, "no duplicate entries after repeated polls")
}

func TestRequestAuthorizationTransitionsToPending(t *testing.T) {
	fake := &fakeAPI{}
	ctrl := newController(t, fake, domain.RoleUser)

	outcome, err := ctrl.RequestAuthorization(context.Background(), "acct-42")
	require.NoError(t, err)
	assert.False(t, outcome.Informational)
	assert.Equal(t, domain.AuthorizationPending, ctrl.Status("acct-42"))

	_, requests, _, _ := fake.counts()
	assert.Equal(t, 1, requests)
}

// A second request while the first is pending is an informational no-op
// with zero network calls, not an error.
func TestRequestWhilePendingShortCircuits(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "pending"),
	}}
	ctrl := newController(t, fake, domain.RoleUser)

	outcome, err := ctrl.RequestAuthorization(context.Background(), "acct-42")
	require.NoError(t, err)
	assert.True(t, outcome.Informational)

	_, requests, _, _ := fake.counts()
	assert.Zero(t, requests, "pending request must not hit the network")
	assert.Equal(t, domain.AuthorizationPending, ctrl.Status("acct-42"))
}

func TestRequestAfterRejectionIsLegal(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "rejected"),
	}}
	fake.requestResult = &dto.AuthorizationRequestResponse{
		ID: "req-2", UserID: "u-1", AccountantID: "acct-42", Status: "pending", CreatedAt: time.Now(),
	}
	ctrl := newController(t, fake, domain.RoleUser)

	outcome, err := ctrl.RequestAuthorization(context.Background(), "acct-42")
	require.NoError(t, err)
	assert.False(t, outcome.Informational)
	assert.Equal(t, domain.AuthorizationPending, ctrl.Status("acct-42"))
	assert.Len(t, ctrl.Snapshot(), 1, "re-request replaces the rejected record")
}

func TestRequestWhileApprovedIsRefused(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "approved"),
	}}
	ctrl := newController(t, fake, domain.RoleUser)

	_, err := ctrl.RequestAuthorization(context.Background(), "acct-42")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, requests, _, _ := fake.counts()
	assert.Zero(t, requests)
}

func TestApproveRequiresPendingStatus(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "rejected"),
	}}
	ctrl := newController(t, fake, domain.RoleAccountant)

	err := ctrl.Approve(context.Background(), "req-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.True(t, util.IsKind(err, util.KindAuthorization))

	_, _, updates, _ := fake.counts()
	assert.Zero(t, updates, "illegal transition must be refused before the network call")
}

func TestApproveRequiresAccountantRole(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "pending"),
	}}
	ctrl := newController(t, fake, domain.RoleUser)

	err := ctrl.Approve(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrWrongRole)

	_, _, updates, _ := fake.counts()
	assert.Zero(t, updates)
}

func TestRejectAppliesOnlyAfterConfirmation(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-7", "acct-42", "pending"),
	}}
	ctrl := newController(t, fake, domain.RoleAccountant)

	// Server failure: displayed status stays pending.
	fake.mu.Lock()
	fake.updateErr = errors.New("boom")
	fake.mu.Unlock()
	err := ctrl.Reject(context.Background(), "req-7")
	require.Error(t, err)
	assert.Equal(t, domain.AuthorizationPending, ctrl.Status("acct-42"))

	// Server success: status becomes rejected.
	fake.mu.Lock()
	fake.updateErr = nil
	fake.mu.Unlock()
	require.NoError(t, ctrl.Reject(context.Background(), "req-7"))
	assert.Equal(t, domain.AuthorizationRejected, ctrl.Status("acct-42"))
}

func TestRevokeApprovedAccess(t *testing.T) {
	fake := &fakeAPI{invitations: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "approved"),
	}}
	ctrl := newController(t, fake, domain.RoleUser)

	require.NoError(t, ctrl.Revoke(context.Background(), "req-1"))
	assert.Equal(t, domain.AuthorizationUnauthorized, ctrl.Status("acct-42"))

	err := ctrl.Revoke(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestRevokeUnknownRequest(t *testing.T) {
	ctrl := newController(t, &fakeAPI{}, domain.RoleUser)

	err := ctrl.Revoke(context.Background(), "req-missing")
	assert.ErrorIs(t, err, ErrUnknownRequest)
}

// While one mutation for a request id is in flight, a second mutation
// for the same id is refused until the first settles.
func TestInFlightGuardPerRequestID(t *testing.T) {
	fake := &fakeAPI{
		invitations: []dto.AuthorizationRequestResponse{
			invitation("req-1", "acct-42", "pending"),
		},
		updateStarted: make(chan struct{}, 1),
		updateRelease: make(chan struct{}),
	}
	ctrl := newController(t, fake, domain.RoleAccountant)

	done := make(chan error, 1)
	go func() { done <- ctrl.Approve(context.Background(), "req-1") }()
	<-fake.updateStarted

	err := ctrl.Reject(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(fake.updateRelease)
	require.NoError(t, <-done)
	assert.Equal(t, domain.AuthorizationApproved, ctrl.Status("acct-42"))

	// First mutation settled; the id accepts mutations again.
	err = ctrl.Approve(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrIllegalTransition, "guard released, legality check reached")
}

func TestRunStopsOnCancel(t *testing.T) {
	fake := &fakeAPI{}
	ctrl := newController(t, fake, domain.RoleUser)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(stopped)
	}()

	assert.Eventually(t, func() bool {
		list, _, _, _ := fake.counts()
		return list >= 3
	}, time.Second, time.Millisecond, "poll loop should keep refreshing")

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	list, _, _, _ := fake.counts()
	time.Sleep(20 * time.Millisecond)
	after, _, _, _ := fake.counts()
	assert.Equal(t, list, after, "no refreshes after cancellation")
}

// A snapshot response that lands after cancellation is discarded; no
// state moves once the consuming view is gone.
func TestLateRefreshResponseDiscarded(t *testing.T) {
	block := make(chan struct{})
	fake := &blockingListAPI{release: block, result: []dto.AuthorizationRequestResponse{
		invitation("req-1", "acct-42", "approved"),
	}}
	ctrl := New(Options{API: fake, SubjectID: "u-1", Role: domain.RoleUser})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(ctx) }()

	cancel()
	close(block)

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ctrl.Snapshot(), "late response must not be applied")
}

type blockingListAPI struct {
	release chan struct{}
	result  []dto.AuthorizationRequestResponse
}

func (b *blockingListAPI) ListInvitations(context.Context, string) ([]dto.AuthorizationRequestResponse, error) {
	<-b.release
	return b.result, nil
}

func (b *blockingListAPI) RequestAuthorization(context.Context, string) (*dto.AuthorizationRequestResponse, error) {
	return nil, errors.New("not implemented")
}

func (b *blockingListAPI) UpdateAuthorizationStatus(context.Context, string, domain.AuthorizationStatus) error {
	return errors.New("not implemented")
}

func (b *blockingListAPI) RemoveAuthorization(context.Context, string) error {
	return errors.New("not implemented")
}
