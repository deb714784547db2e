package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReceiptNumber builds a receipt reference like "HP-FUE-20250601-1A2B3C4D":
// department prefix + date + a random suffix so numbers stay unique across
// tills without a central counter.
func NewReceiptNumber(department string, now time.Time) string {
	prefix := "GEN"
	if len(department) >= 3 {
		prefix = strings.ToUpper(department[:3])
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("HP-%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
