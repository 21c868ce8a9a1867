package linfit

// Results stores the in-sample predictions of a fit. Predicted values are the raw line values
// and are not clamped to the prediction range.
type Results struct {
	X         []float64 `json:"x"`
	Actual    []float64 `json:"actual"`
	Predicted []float64 `json:"predicted"`
	Residual  []float64 `json:"residual"`
}
