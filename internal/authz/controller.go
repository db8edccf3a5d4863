package authz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mattaxpro/client-go/internal/api/dto"
	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/internal/events"
	"github.com/mattaxpro/client-go/pkg/util"
)

// Sentinel causes for locally refused operations. They are wrapped in an
// authorization-kind ClientError so views surface them inline, with no
// login redirect.
var (
	ErrUnknownRequest    = errors.New("unknown authorization request")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrMutationInFlight  = errors.New("a change for this request is still in flight")
	ErrWrongRole         = errors.New("operation not permitted for this role")
)

// API is the slice of the REST client the controller needs.
type API interface {
	ListInvitations(ctx context.Context, userID string) ([]dto.AuthorizationRequestResponse, error)
	RequestAuthorization(ctx context.Context, accountantID string) (*dto.AuthorizationRequestResponse, error)
	UpdateAuthorizationStatus(ctx context.Context, requestID string, status domain.AuthorizationStatus) error
	RemoveAuthorization(ctx context.Context, requestID string) error
}

// Outcome reports a non-error result of a mutation attempt.
// Informational outcomes (request while already pending) made no network
// call and changed nothing.
type Outcome struct {
	Informational bool
	Message       string
}

// Controller drives the accountant authorization state machine for one
// signed-in principal. Transition legality is checked locally before any
// network call, local status changes only after server confirmation, and
// at most one mutation per request id may be in flight at a time.
type Controller struct {
	api        API
	subjectID  string
	role       domain.Role
	interval   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu           sync.Mutex
	byID         map[string]domain.AuthorizationRequest
	byAccountant map[string]string
	inflight     map[string]struct{}
}

// Options configures a Controller.
type Options struct {
	API        API
	SubjectID  string
	Role       domain.Role
	Interval   time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// New constructs a controller. Interval defaults to 30s.
func New(opts Options) *Controller {
	interval := opts.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:          opts.API,
		subjectID:    opts.SubjectID,
		role:         opts.Role,
		interval:     interval,
		dispatcher:   opts.Dispatcher,
		logger:       logger,
		byID:         make(map[string]domain.AuthorizationRequest),
		byAccountant: make(map[string]string),
		inflight:     make(map[string]struct{}),
	}
}

// Snapshot returns the current records in a stable order.
func (c *Controller) Snapshot() []domain.AuthorizationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.AuthorizationRequest, 0, len(c.byID))
	for _, rec := range c.byID {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Status returns the current status for an accountant; absence of a
// record means unauthorized.
func (c *Controller) Status(accountantID string) domain.AuthorizationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byAccountant[accountantID]; ok {
		return c.byID[id].Status
	}
	return domain.AuthorizationUnauthorized
}

// Refresh re-fetches the full snapshot and reconciles local state with
// server-confirmed transitions made by the counterparty. A response
// arriving after the context is cancelled is discarded so no state moves
// after the consuming view is gone.
func (c *Controller) Refresh(ctx context.Context) error {
	invitations, err := c.api.ListInvitations(ctx, c.subjectID)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	type change struct {
		rec domain.AuthorizationRequest
		old domain.AuthorizationStatus
	}
	var changed []change

	c.mu.Lock()
	next := make(map[string]domain.AuthorizationRequest, len(invitations))
	nextAcct := make(map[string]string, len(invitations))
	for _, inv := range invitations {
		rec := inv.AuthorizationRequest()
		next[rec.ID] = rec
		nextAcct[rec.AccountantID] = rec.ID
		if prev, ok := c.byID[rec.ID]; ok && prev.Status != rec.Status {
			changed = append(changed, change{rec: rec, old: prev.Status})
		}
	}
	c.byID = next
	c.byAccountant = nextAcct
	c.mu.Unlock()

	for _, ch := range changed {
		c.publishChange(ctx, ch.rec, ch.old)
	}
	return nil
}

// Run polls until the context is cancelled, keeping local state within
// one interval of the server-confirmed truth. Cancel the context when
// the consuming view unmounts.
func (c *Controller) Run(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
		c.logger.Warn("authorization refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				c.logger.Warn("authorization refresh failed", zap.Error(err))
			}
		}
	}
}

// RequestAuthorization asks the accountant for access. Legal only while
// unauthorized or rejected; a request while one is already pending is an
// informational no-op with zero network calls.
func (c *Controller) RequestAuthorization(ctx context.Context, accountantID string) (*Outcome, error) {
	c.mu.Lock()
	guardKey := "request:" + accountantID
	if id, ok := c.byAccountant[accountantID]; ok {
		rec := c.byID[id]
		switch rec.Status {
		case domain.AuthorizationPending:
			c.mu.Unlock()
			return &Outcome{Informational: true, Message: "authorization request already pending"}, nil
		case domain.AuthorizationApproved:
			c.mu.Unlock()
			return nil, util.Wrap(util.KindAuthorization, "accountant already authorized", ErrIllegalTransition)
		}
		guardKey = rec.ID
	}
	if err := c.acquireLocked(guardKey); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()
	defer c.release(guardKey)

	created, err := c.api.RequestAuthorization(ctx, accountantID)
	if err != nil {
		return nil, err
	}

	rec := created.AuthorizationRequest()
	var old domain.AuthorizationStatus
	c.mu.Lock()
	if prevID, ok := c.byAccountant[accountantID]; ok {
		old = c.byID[prevID].Status
		delete(c.byID, prevID)
	} else {
		old = domain.AuthorizationUnauthorized
	}
	c.byID[rec.ID] = rec
	c.byAccountant[rec.AccountantID] = rec.ID
	c.mu.Unlock()

	c.publishChange(ctx, rec, old)
	return &Outcome{Message: "authorization requested"}, nil
}

// Approve accepts a pending request. Accountant side only.
func (c *Controller) Approve(ctx context.Context, requestID string) error {
	return c.decide(ctx, requestID, domain.AuthorizationApproved)
}

// Reject declines a pending request. Accountant side only.
func (c *Controller) Reject(ctx context.Context, requestID string) error {
	return c.decide(ctx, requestID, domain.AuthorizationRejected)
}

func (c *Controller) decide(ctx context.Context, requestID string, target domain.AuthorizationStatus) error {
	if c.role != domain.RoleAccountant {
		return util.Wrap(util.KindAuthorization, "only the accountant can decide a request", ErrWrongRole)
	}

	rec, err := c.begin(requestID, target)
	if err != nil {
		return err
	}
	defer c.release(requestID)

	if err := c.api.UpdateAuthorizationStatus(ctx, requestID, target); err != nil {
		// Confirmation failed: displayed status stays as it was.
		return err
	}
	c.commit(ctx, rec, target)
	return nil
}

// Revoke withdraws approved access. Only the owning user may revoke.
func (c *Controller) Revoke(ctx context.Context, requestID string) error {
	if c.role != domain.RoleUser {
		return util.Wrap(util.KindAuthorization, "only the owning user can revoke access", ErrWrongRole)
	}

	rec, err := c.begin(requestID, domain.AuthorizationUnauthorized)
	if err != nil {
		return err
	}
	defer c.release(requestID)

	if err := c.api.RemoveAuthorization(ctx, requestID); err != nil {
		return err
	}
	c.commit(ctx, rec, domain.AuthorizationUnauthorized)
	return nil
}

// begin validates the transition locally and takes the per-id guard.
// Both checks happen before any network call.
func (c *Controller) begin(requestID string, target domain.AuthorizationStatus) (domain.AuthorizationRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.byID[requestID]
	if !ok {
		return domain.AuthorizationRequest{}, util.Wrap(util.KindAuthorization, "no such authorization request", ErrUnknownRequest)
	}
	if !rec.Status.CanTransition(target) {
		msg := fmt.Sprintf("cannot move request from %s to %s", rec.Status, target)
		return domain.AuthorizationRequest{}, util.Wrap(util.KindAuthorization, msg, ErrIllegalTransition)
	}
	if err := c.acquireLocked(requestID); err != nil {
		return domain.AuthorizationRequest{}, err
	}
	return rec, nil
}

// commit applies a server-confirmed transition and publishes the change.
func (c *Controller) commit(ctx context.Context, rec domain.AuthorizationRequest, target domain.AuthorizationStatus) {
	old := rec.Status
	rec.Status = target

	c.mu.Lock()
	c.byID[rec.ID] = rec
	c.mu.Unlock()

	c.publishChange(ctx, rec, old)
}

func (c *Controller) acquireLocked(key string) error {
	if _, busy := c.inflight[key]; busy {
		return util.Wrap(util.KindAuthorization, "another change is still in flight", ErrMutationInFlight)
	}
	c.inflight[key] = struct{}{}
	return nil
}

func (c *Controller) release(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Controller) publishChange(ctx context.Context, rec domain.AuthorizationRequest, old domain.AuthorizationStatus) {
	c.logger.Info("authorization status changed",
		zap.String("request_id", rec.ID),
		zap.String("accountant_id", rec.AccountantID),
		zap.String("old", string(old)),
		zap.String("new", string(rec.Status)),
	)
	if c.dispatcher == nil {
		return
	}
	c.dispatcher.Publish(ctx, events.Event{
		Type: events.EventAuthorizationChanged,
		Payload: events.AuthorizationChangedPayload{
			RequestID:    rec.ID,
			AccountantID: rec.AccountantID,
			OldStatus:    old,
			NewStatus:    rec.Status,
		},
	})
}
