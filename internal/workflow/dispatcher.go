// Package workflow turns operator intents into backend workflows.
//
// A Dispatcher accepts an onboarding or offboarding intent, issues exactly one
// backend call for it, classifies the settlement (success, application error,
// transport failure) and drives the event log, the directory cache and the
// onboarding draft accordingly. Within one workflow, log entries are appended
// in a fixed order; across workflows, entries interleave by completion order.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aryan0dhankhar/hrautomator/internal/directory"
	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/draft"
	"github.com/aryan0dhankhar/hrautomator/internal/eventlog"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrautomator/internal/security/audit"
)

// Fixed messages for transport failures; no diagnostic is surfaced.
const (
	MsgOnboardNetworkError  = "NETWORK ERROR: Is the backend running?"
	MsgOffboardNetworkError = "Failed to connect to backend"
)

var (
	// ErrInvalidDraft rejects an incomplete draft before dispatch
	ErrInvalidDraft = errors.New("onboarding draft is incomplete")
	// ErrWorkflowInFlight rejects a dispatch in exclusive mode while another
	// workflow is outstanding
	ErrWorkflowInFlight = errors.New("another workflow is in flight")
)

// Outcome classifies how a workflow ended
type Outcome string

const (
	OutcomeSucceeded   Outcome = "succeeded"
	OutcomeRejected    Outcome = "rejected"    // application error
	OutcomeUnreachable Outcome = "unreachable" // transport failure
	OutcomeAborted     Outcome = "aborted"     // confirmation declined
)

// Backend is the automation backend contract consumed by the dispatcher
type Backend interface {
	Onboard(ctx context.Context, draft domain.OnboardingDraft) (*domain.OnboardResult, error)
	Offboard(ctx context.Context, username string) (*domain.OffboardResult, error)
}

// Dispatcher owns the workflow state: busy flag, event log, directory and draft
type Dispatcher struct {
	backend   Backend
	log       *eventlog.Log
	directory *directory.Cache
	draft     *draft.Store
	audit     *audit.Logger
	logger    *slog.Logger
	tracer    trace.Tracer
	exclusive bool

	busy     BusyFlag
	inFlight sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithExclusiveWorkflows allows at most one workflow in flight at a time
func WithExclusiveWorkflows(enabled bool) Option {
	return func(d *Dispatcher) { d.exclusive = enabled }
}

// WithAuditLogger emits one audit record per settled workflow
func WithAuditLogger(al *audit.Logger) Option {
	return func(d *Dispatcher) { d.audit = al }
}

// NewDispatcher creates a dispatcher over the given state objects
func NewDispatcher(
	backend Backend,
	log *eventlog.Log,
	dir *directory.Cache,
	draftStore *draft.Store,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		backend:   backend,
		log:       log,
		directory: dir,
		draft:     draftStore,
		logger:    logger,
		tracer:    otel.Tracer("github.com/aryan0dhankhar/hrautomator/internal/workflow"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.audit == nil {
		d.audit = audit.NewLogger(logger)
	}
	return d
}

func (d *Dispatcher) Log() *eventlog.Log { return d.log }
func (d *Dispatcher) Directory() *directory.Cache { return d.directory }
func (d *Dispatcher) Draft() *draft.Store { return d.draft }
func (d *Dispatcher) Busy() bool { return d.busy.Busy() }
func (d *Dispatcher) Exclusive() bool { return d.exclusive }

// Wait blocks until every dispatched workflow has settled
func (d *Dispatcher) Wait() {
	d.inFlight.Wait()
}

// Onboard runs an onboarding workflow and waits for it to settle
func (d *Dispatcher) Onboard(ctx context.Context, od domain.OnboardingDraft) (Outcome, error) {
	done, err := d.OnboardAsync(ctx, od)
	if err != nil {
		return "", err
	}
	return <-done, nil
}

// SubmitDraft onboards the current contents of the draft store
func (d *Dispatcher) SubmitDraft(ctx context.Context) (Outcome, error) {
	return d.Onboard(ctx, d.draft.Get())
}

// SubmitDraftAsync is the non-blocking form of SubmitDraft
func (d *Dispatcher) SubmitDraftAsync(ctx context.Context) (<-chan Outcome, error) {
	return d.OnboardAsync(ctx, d.draft.Get())
}

// OnboardAsync validates the draft, records the start of the workflow and
// issues the backend call in the background. The returned channel receives
// the outcome once the call has settled and every follow-up effect is done.
// Cancelling ctx does not abort an issued call.
func (d *Dispatcher) OnboardAsync(ctx context.Context, od domain.OnboardingDraft) (<-chan Outcome, error) {
	if missing := draft.Validate(od); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}
	if err := d.acquire(); err != nil {
		return nil, err
	}

	d.log.Info(fmt.Sprintf("Starting onboarding workflow for %s %s...", od.FirstName, od.LastName))
	d.busy.Set()
	d.audit.LogAction(ctx, audit.Operator(ctx), "onboard", displayName(od), "initiated", "")

	done := make(chan Outcome, 1)
	d.inFlight.Add(1)
	go func() {
		defer d.inFlight.Done()
		done <- d.runOnboard(context.WithoutCancel(ctx), od)
	}()
	return done, nil
}

func (d *Dispatcher) runOnboard(ctx context.Context, od domain.OnboardingDraft) Outcome {
	defer d.busy.Clear()

	name := displayName(od)
	ctx, span := d.tracer.Start(ctx, "workflow.onboard",
		trace.WithAttributes(
			attribute.String("employee.name", name),
			attribute.String("employee.department", od.Department),
		),
	)
	defer span.End()

	start := time.Now()
	metrics.IncrementInFlight()
	result, err := d.backend.Onboard(ctx, od)
	metrics.DecrementInFlight()

	outcome, message := classify(err)
	switch outcome {
	case OutcomeSucceeded:
		d.log.Success(result.Message)
		for _, step := range result.Steps {
			d.log.Success(step)
		}
		d.directory.Refresh(ctx)
		d.draft.Reset()
	case OutcomeRejected:
		d.log.Error(message)
	default:
		d.log.Error(MsgOnboardNetworkError)
	}

	d.settle(ctx, span, "onboard", name, outcome, err, time.Since(start))
	return outcome
}

// Offboard runs an offboarding workflow and waits for it to settle
func (d *Dispatcher) Offboard(ctx context.Context, username string, confirm Confirmer) (Outcome, error) {
	done, err := d.OffboardAsync(ctx, username, confirm)
	if err != nil {
		return "", err
	}
	return <-done, nil
}

// OffboardAsync asks confirm first; a declined or missing confirmation
// aborts with no log entry, no backend call and no state change. The
// username is trusted as-is.
func (d *Dispatcher) OffboardAsync(ctx context.Context, username string, confirm Confirmer) (<-chan Outcome, error) {
	done := make(chan Outcome, 1)
	if confirm == nil || !confirm.Confirm(ctx, OffboardPrompt(username)) {
		d.logger.Info("offboarding aborted by operator", slog.String("username", username))
		done <- OutcomeAborted
		return done, nil
	}
	if err := d.acquire(); err != nil {
		return nil, err
	}

	d.log.Warning(fmt.Sprintf("Initiating offboarding sequence for %s...", username))
	d.busy.Set()
	d.audit.LogAction(ctx, audit.Operator(ctx), "offboard", username, "initiated", "")

	d.inFlight.Add(1)
	go func() {
		defer d.inFlight.Done()
		done <- d.runOffboard(context.WithoutCancel(ctx), username)
	}()
	return done, nil
}

func (d *Dispatcher) runOffboard(ctx context.Context, username string) Outcome {
	defer d.busy.Clear()

	ctx, span := d.tracer.Start(ctx, "workflow.offboard",
		trace.WithAttributes(attribute.String("employee.username", username)),
	)
	defer span.End()

	start := time.Now()
	metrics.IncrementInFlight()
	_, err := d.backend.Offboard(ctx, username)
	metrics.DecrementInFlight()

	outcome, message := classify(err)
	switch outcome {
	case OutcomeSucceeded:
		d.log.Success(fmt.Sprintf("TERMINATION COMPLETE: %s deactivated.", username))
		d.directory.Refresh(ctx)
	case OutcomeRejected:
		d.log.Error(message)
	default:
		d.log.Error(MsgOffboardNetworkError)
	}

	d.settle(ctx, span, "offboard", username, outcome, err, time.Since(start))
	return outcome
}

// acquire takes the in-flight token in exclusive mode; advisory mode never blocks
func (d *Dispatcher) acquire() error {
	if !d.exclusive {
		return nil
	}
	if !d.busy.TryAcquire() {
		return ErrWorkflowInFlight
	}
	return nil
}

func (d *Dispatcher) settle(ctx context.Context, span trace.Span, workflow, subject string, outcome Outcome, err error, elapsed time.Duration) {
	span.SetAttributes(attribute.String("workflow.outcome", string(outcome)))
	metrics.ObserveWorkflow(workflow, string(outcome), elapsed)

	details := ""
	if err != nil {
		details = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(outcome))
		d.logger.Warn("workflow failed",
			slog.String("workflow", workflow),
			slog.String("subject", subject),
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()),
		)
	} else {
		d.logger.Info("workflow completed",
			slog.String("workflow", workflow),
			slog.String("subject", subject),
			slog.Duration("duration", elapsed),
		)
	}

	operator := audit.Operator(ctx)
	if workflow == "onboard" {
		d.audit.LogOnboarding(ctx, operator, subject, string(outcome), details)
	} else {
		d.audit.LogOffboarding(ctx, operator, subject, string(outcome), details)
	}
}

func displayName(od domain.OnboardingDraft) string {
	return strings.TrimSpace(od.FirstName + " " + od.LastName)
}

// classify maps a backend call result onto an outcome; the message is the
// backend-supplied text for application errors.
func classify(err error) (Outcome, string) {
	if err == nil {
		return OutcomeSucceeded, ""
	}
	var rej *domain.RejectionError
	if errors.As(err, &rej) {
		return OutcomeRejected, rej.Message
	}
	return OutcomeUnreachable, ""
}
