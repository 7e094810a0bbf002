package tracker

import "time"

// Overdue computes the running total and the shortfall against the quota.
// A total below prev is ignored, so a glitchy rescrape never lowers it.
func Overdue(days, quota, prev, sum int) (due, total int) {
	total = max(sum, prev)
	due = max(0, days*quota+prev-total)
	return due, total
}

// ElapsedDays counts whole days between prev and now. A missing or future
// prev counts as zero days.
func ElapsedDays(prev *time.Time, now time.Time) int {
	if prev == nil {
		return 0
	}
	d := now.Sub(*prev)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
