package models

import "fmt"

// TwelveInterval maps a timeframe code to a Twelve Data interval
func TwelveInterval(timeframe string) (string, error) {
	switch timeframe {
	case "1m":
		return "1min", nil
	case "5m":
		return "5min", nil
	case "15m":
		return "15min", nil
	case "30m":
		return "30min", nil
	case "1h":
		return "1h", nil
	case "4h":
		return "4h", nil
	case "1d":
		return "1day", nil
	}
	return "", fmt.Errorf("unsupported timeframe %q", timeframe)
}
