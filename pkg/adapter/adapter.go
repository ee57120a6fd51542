// Package adapter wires a price form to the prediction endpoint. A submission
// puts the submit control in its busy state, snapshots the form, performs one
// prediction request and renders the outcome into the price output and a
// notification. The submit control is restored on every exit path.
//
// The adapter never looks up UI elements itself: front ends hand it the
// regions it drives through Handles.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-priceform/pkg/notify"
	"github.com/goliatone/go-priceform/pkg/predict"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

const (
	// DefaultBusyLabel replaces the submit label while a request is pending.
	DefaultBusyLabel = "Predicting..."
	// Placeholder is shown in the price output when there is no price.
	Placeholder = "--"
	// ErrorText is shown in the price output after a failed submission.
	ErrorText = "Error"
	// SuccessMessage is the notification raised after a successful prediction.
	SuccessMessage = "Price prediction completed successfully!"
	// ErrorMessagePrefix precedes the failure reason in error notifications.
	ErrorMessagePrefix = "Error predicting price: "
	// FallbackReason is used when the service fails without saying why.
	FallbackReason = "Prediction failed"
)

var (
	// ErrPredictionFailed matches failures reported by the service itself.
	ErrPredictionFailed = errors.New("adapter: prediction failed")
	// ErrUnexpected matches panics recovered during a submission.
	ErrUnexpected = errors.New("adapter: unexpected failure")
	// ErrAlreadyRun is returned when a submission's request is started twice.
	ErrAlreadyRun = errors.New("adapter: submission already sent")
)

// PredictionError carries the reason the service gave for a failed
// prediction. Its text is the bare reason so it reads naturally after
// ErrorMessagePrefix.
type PredictionError struct {
	Reason string
}

func (e *PredictionError) Error() string { return e.Reason }

// Is reports ErrPredictionFailed as a match.
func (e *PredictionError) Is(target error) bool { return target == ErrPredictionFailed }

// UnexpectedError wraps a recovered panic value.
type UnexpectedError struct {
	Value any
}

func (e *UnexpectedError) Error() string { return fmt.Sprint(e.Value) }

// Is reports ErrUnexpected as a match.
func (e *UnexpectedError) Is(target error) bool { return target == ErrUnexpected }

// Outcome summarises a settled submission.
type Outcome struct {
	Success bool
	Price   float64
	// Display is the text written to the price output.
	Display string
	// Message is the notification text raised for the submission.
	Message string
	Err     error
}

// Adapter is the form submission adapter.
type Adapter struct {
	predictor Predictor
	submit    SubmitControl
	output    PriceOutput
	notifier  Notifier
	busyLabel string
	format    func(float64) string
	logger    *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBusyLabel overrides the label shown while a request is pending.
func WithBusyLabel(label string) Option {
	return func(a *Adapter) {
		if label != "" {
			a.busyLabel = label
		}
	}
}

// WithPriceFormatter overrides FormatUSD.
func WithPriceFormatter(fn func(float64) string) Option {
	return func(a *Adapter) {
		if fn != nil {
			a.format = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New constructs an Adapter. Every handle and the predictor are required.
func New(predictor Predictor, handles Handles, options ...Option) (*Adapter, error) {
	switch {
	case predictor == nil:
		return nil, errors.New("adapter: predictor is required")
	case handles.Submit == nil:
		return nil, errors.New("adapter: submit control is required")
	case handles.Output == nil:
		return nil, errors.New("adapter: price output is required")
	case handles.Notifier == nil:
		return nil, errors.New("adapter: notifier is required")
	}

	a := &Adapter{
		predictor: predictor,
		submit:    handles.Submit,
		output:    handles.Output,
		notifier:  handles.Notifier,
		busyLabel: DefaultBusyLabel,
		format:    FormatUSD,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a, nil
}

// Submit runs a whole submission on the calling goroutine and returns its
// outcome.
func (a *Adapter) Submit(ctx context.Context, fields []snapshot.Field) Outcome {
	sub := a.Begin(fields)
	result, err := sub.Run(ctx)
	return sub.Settle(result, err)
}

// Begin enters the busy state and snapshots the form. It must run on the UI
// goroutine; the returned Submission's Run may then be called elsewhere.
func (a *Adapter) Begin(fields []snapshot.Field) *Submission {
	original := a.submit.Label()
	a.submit.SetLabel(a.busyLabel)
	a.submit.SetDisabled(true)

	snap := snapshot.Build(fields)
	a.logger.Debug("submission started", zap.Int("fields", snap.Len()))

	return &Submission{
		adapter:  a,
		original: original,
		snap:     snap,
		started:  time.Now(),
	}
}

// Reset clears the price output back to the placeholder. It touches nothing
// else and may be called any number of times.
func (a *Adapter) Reset() {
	a.output.SetText(Placeholder)
	a.output.SetHasValue(false)
}

// Submission is one in-flight form submission.
type Submission struct {
	adapter  *Adapter
	original string
	snap     snapshot.Snapshot
	started  time.Time

	ran     atomic.Bool
	settled bool
	outcome Outcome
}

// Snapshot returns the coerced form payload.
func (s *Submission) Snapshot() snapshot.Snapshot {
	return s.snap
}

// Settled reports whether Settle has run.
func (s *Submission) Settled() bool {
	return s.settled
}

// Run performs the prediction request. It does not touch any UI handle, so
// it is safe to call off the UI goroutine. Panics raised by the predictor
// come back as an UnexpectedError.
func (s *Submission) Run(ctx context.Context) (result predict.Result, err error) {
	if !s.ran.CompareAndSwap(false, true) {
		return predict.Result{}, ErrAlreadyRun
	}
	defer func() {
		if r := recover(); r != nil {
			result = predict.Result{}
			err = &UnexpectedError{Value: r}
		}
	}()
	return s.adapter.predictor.Predict(ctx, s.snap)
}

// Settle renders the outcome of Run and restores the submit control. Only the
// first call has any effect; later calls return the same Outcome. A panic
// while rendering is reported like any other failure.
func (s *Submission) Settle(result predict.Result, err error) (outcome Outcome) {
	if s.settled {
		return s.outcome
	}
	s.settled = true
	defer s.restore()

	a := s.adapter
	defer func() {
		if r := recover(); r != nil {
			s.outcome = a.failSafely(&UnexpectedError{Value: r})
			outcome = s.outcome
		}
	}()

	if err == nil {
		err = checkResult(result)
	}
	if err != nil {
		s.outcome = a.fail(err)
		return s.outcome
	}

	price, _ := result.Price()
	display := a.format(price)
	a.output.SetText(display)
	a.output.SetHasValue(true)
	a.notifier.Notify(notify.KindSuccess, SuccessMessage)

	a.logger.Info("prediction completed",
		zap.Float64("price", price),
		zap.Duration("elapsed", time.Since(s.started)),
	)

	s.outcome = Outcome{
		Success: true,
		Price:   price,
		Display: display,
		Message: SuccessMessage,
	}
	return s.outcome
}

func (s *Submission) restore() {
	s.adapter.submit.SetLabel(s.original)
	s.adapter.submit.SetDisabled(false)
}

func (a *Adapter) fail(err error) Outcome {
	message := ErrorMessagePrefix + err.Error()
	a.logger.Warn("prediction failed", zap.Error(err))

	a.output.SetText(ErrorText)
	a.output.SetHasValue(false)
	a.notifier.Notify(notify.KindError, message)

	return Outcome{
		Display: ErrorText,
		Message: message,
		Err:     err,
	}
}

// failSafely is fail for the panic path: a handle that panics again leaves the
// regions as they are, but the Outcome still describes the failure.
func (a *Adapter) failSafely(err error) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("failure could not be rendered", zap.Error(err), zap.Any("panic", r))
			outcome = Outcome{
				Display: ErrorText,
				Message: ErrorMessagePrefix + err.Error(),
				Err:     err,
			}
		}
	}()
	return a.fail(err)
}

func checkResult(result predict.Result) error {
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = FallbackReason
		}
		return &PredictionError{Reason: reason}
	}
	if _, ok := result.Price(); !ok {
		return &PredictionError{Reason: FallbackReason}
	}
	return nil
}
