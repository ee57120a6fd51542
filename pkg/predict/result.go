package predict

import "errors"

// ErrMalformedResponse marks a response body that is not a JSON
// PredictionResult.
var ErrMalformedResponse = errors.New("predict: malformed response")

// Result mirrors the JSON document returned by the prediction endpoint.
type Result struct {
	Success        bool     `json:"success"`
	PredictedPrice *float64 `json:"predicted_price,omitempty"`
	Error          string   `json:"error,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// Price returns the predicted price when the result carries one.
func (r Result) Price() (float64, bool) {
	if r.PredictedPrice == nil {
		return 0, false
	}
	return *r.PredictedPrice, true
}
