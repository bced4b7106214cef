package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// lastStamp holds the last millisecond handed out so stamps never repeat within the process.
var lastStamp atomic.Int64

// OrderNumber builds prefix + base-36 timestamp + 4 random base-36 characters, upper cased.
func OrderNumber(prefix string) string {
	return strings.ToUpper(prefix + strconv.FormatInt(nextStamp(time.Now()), 36) + randomBase36(4))
}

func nextStamp(now time.Time) int64 {
	ms := now.UnixMilli()
	for {
		last := lastStamp.Load()
		next := ms
		if next <= last {
			next = last + 1
		}
		if lastStamp.CompareAndSwap(last, next) {
			return next
		}
	}
}

func randomBase36(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			sb.WriteByte(base36[time.Now().UnixNano()%36])
			continue
		}
		sb.WriteByte(base36[idx.Int64()])
	}
	return sb.String()
}
