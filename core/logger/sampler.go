package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

const defaultDebugSampleEvery = 50

// everyNth lets one event in n through; n <= 1 lets everything through.
type everyNth struct {
	n     atomic.Int64
	count atomic.Int64
}

func (s *everyNth) set(n int64) {
	s.n.Store(n)
	s.count.Store(0)
}

func (s *everyNth) allow() bool {
	n := s.n.Load()
	if n <= 1 {
		return true
	}
	return (s.count.Add(1)-1)%n == 0
}

// parseSampleEvery reads LOG_DEBUG_SAMPLE: "50" or "1/50" keep one update
// debug line in fifty, "off" or "0" keep all of them.
func parseSampleEvery(raw string) int64 {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return defaultDebugSampleEvery
	case "off", "0", "all":
		return 1
	}
	raw = strings.TrimPrefix(raw, "1/")
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return defaultDebugSampleEvery
	}
	return n
}
