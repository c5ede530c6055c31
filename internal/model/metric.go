package model

// WindowSpec selects a contiguous sub-range of a series with two offsets
// counted backward from the last observation (0 is the last one).
// The selected range is [N-1+From, N+To).
type WindowSpec struct {
	From int `json:"desde" yaml:"desde"`
	To   int `json:"hasta" yaml:"hasta"`
}

// MetricRecord is the scoring result of one entity.
// Variation and Deviation are percentages rounded to one decimal.
// Deviation is a sum over the window, not a mean.
type MetricRecord struct {
	Ticker    string  `json:"ticker"`
	Interval  string  `json:"intervalo"`
	From      int     `json:"desde"`
	Variation float64 `json:"variacion"`
	Deviation float64 `json:"desvio"`
}

// ErrorKind tags why an entity could not be scored.
type ErrorKind string

const (
	KindInvalidWindow     ErrorKind = "invalid_window"
	KindDegenerateWindow  ErrorKind = "degenerate_window"
	KindDivisionByZero    ErrorKind = "division_by_zero"
	KindMissingEntityData ErrorKind = "missing_entity_data"
	KindCanceled          ErrorKind = "canceled"
	KindUnknown           ErrorKind = "unknown"
)

// Failure records an entity excluded from the result table.
type Failure struct {
	Ticker string
	Kind   ErrorKind
	Err    error
}

func (f Failure) Error() string {
	if f.Err == nil {
		return f.Ticker + ": " + string(f.Kind)
	}
	return f.Ticker + ": " + f.Err.Error()
}
