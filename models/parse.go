package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxLooseInt caps decoded counts so the float conversion stays in range.
const maxLooseInt = math.MaxInt32

// parseLooseInt accepts a JSON number or a numeric string, clamped to
// [0, maxLooseInt]. Anything else is 0.
func parseLooseInt(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return clampCount(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return clampCount(f)
		}
	}
	return 0
}

func clampCount(f float64) int {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= maxLooseInt:
		return maxLooseInt
	}
	return int(f)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseLooseTime accepts an RFC 3339-like string or a unix timestamp in
// seconds or milliseconds. Unparseable values yield the zero time.
func parseLooseTime(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
