package usage

import "github.com/logicalclocks/hopsworks-usage/pkg/concurrent"

// CallCounter tracks how many times each Site has completed. Counts only
// grow and are safe to update from concurrent call sites.
type CallCounter struct {
	counts *concurrent.Map[Site, int64]
}

func NewCallCounter() *CallCounter {
	return &CallCounter{counts: concurrent.NewMap[Site, int64]()}
}

// Record increments the count for site and returns the new value.
func (c *CallCounter) Record(site Site) int64 {
	return c.counts.Update(site, func(current int64, _ bool) int64 {
		return current + 1
	})
}

// Count returns the current count for site, 0 if never recorded.
func (c *CallCounter) Count(site Site) int64 {
	n, _ := c.counts.Load(site)
	return n
}
