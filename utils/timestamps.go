package utils

import "time"

// Now returns the current UTC time in the RFC3339 format used for every
// server-assigned timestamp field.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Since returns the elapsed time since an RFC3339 timestamp.
func Since(timestamp string) (time.Duration, error) {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return 0, err
	}
	return time.Since(t), nil
}
