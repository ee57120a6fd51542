package adapter

import (
	"context"

	"github.com/goliatone/go-priceform/pkg/notify"
	"github.com/goliatone/go-priceform/pkg/predict"
	"github.com/goliatone/go-priceform/pkg/snapshot"
)

// SubmitControl is the control that triggers a submission.
type SubmitControl interface {
	Label() string
	SetLabel(label string)
	SetDisabled(disabled bool)
}

// PriceOutput is the region showing the predicted price. HasValue mirrors the
// "has a price" styling flag.
type PriceOutput interface {
	SetText(text string)
	SetHasValue(has bool)
}

// Notifier raises transient messages.
type Notifier interface {
	Notify(kind notify.Kind, message string)
}

// Predictor performs the remote prediction call.
type Predictor interface {
	Predict(ctx context.Context, snap snapshot.Snapshot) (predict.Result, error)
}

// Handles groups the UI regions the adapter drives.
type Handles struct {
	Submit   SubmitControl
	Output   PriceOutput
	Notifier Notifier
}

// CenterNotifier adapts a notify.Center to the Notifier interface.
type CenterNotifier struct {
	Center *notify.Center
}

// Notify implements Notifier.
func (n CenterNotifier) Notify(kind notify.Kind, message string) {
	if n.Center == nil {
		return
	}
	n.Center.Notify(kind, message)
}
