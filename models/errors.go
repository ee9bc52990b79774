package models

import "errors"

var (
	// ErrInsufficientHistory is returned when there are fewer bars than the warm-up requires
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrInvalidFeatureConfig is returned for a malformed feature or risk payload
	ErrInvalidFeatureConfig = errors.New("invalid feature configuration")
	// ErrProviderUnavailable is returned when a predictor or sentiment call fails or times out
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidPriceSeries is returned when bar timestamps are not strictly increasing
	ErrInvalidPriceSeries = errors.New("invalid price series")
)
