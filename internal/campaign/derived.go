package campaign

import (
	"fmt"
	"math/big"
	"time"

	"fundhub/internal/numeric"
)

// Progress returns the funding percentage clamped to [0, 100]. A zero target
// yields 0 rather than dividing by zero.
func Progress(raised, target *big.Int) float64 {
	target = zeroIfNil(target)
	if target.Sign() == 0 {
		return 0
	}
	pct := numeric.FromWei(zeroIfNil(raised)) / numeric.FromWei(target) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// ComputeTimeLeft breaks the time remaining until deadline into the coarsest
// useful units: days+hours, else hours+minutes, else minutes. Seconds are
// never surfaced.
func ComputeTimeLeft(deadline int64, now time.Time) TimeLeft {
	left := deadline - now.Unix()
	if left <= 0 {
		return TimeLeft{Expired: true, Text: "Expired"}
	}
	days := left / (24 * 60 * 60)
	hours := (left % (24 * 60 * 60)) / (60 * 60)
	minutes := (left % (60 * 60)) / 60
	switch {
	case days > 0:
		return TimeLeft{Text: fmt.Sprintf("%dd %dh", days, hours)}
	case hours > 0:
		return TimeLeft{Text: fmt.Sprintf("%dh %dm", hours, minutes)}
	default:
		return TimeLeft{Text: fmt.Sprintf("%dm", minutes)}
	}
}

// IsSuccessful reports whether the campaign met its target. The comparison is
// non-strict, so a zero-target campaign is successful by definition.
func IsSuccessful(raised, target *big.Int) bool {
	return zeroIfNil(raised).Cmp(zeroIfNil(target)) >= 0
}

// CanWithdraw predicts whether the creator's withdrawal would succeed. The
// contract re-checks all four conditions on the actual call; a stale true here
// fails safely there.
func CanWithdraw(isCreator, expired, successful, withdrawn bool) bool {
	return isCreator && expired && successful && !withdrawn
}

// CanRefund predicts whether a contributor's refund would succeed: the
// campaign expired without meeting its target and the viewer put money in.
// Advisory only, same as CanWithdraw.
func CanRefund(isCreator, expired, successful bool, contribution *big.Int) bool {
	return !isCreator && expired && !successful && zeroIfNil(contribution).Sign() > 0
}
