// Package resilience provides the two guards the service puts around
// expensive or flaky work:
//
//   - Bulkhead: bounds how many CPU-heavy calls (password hashing) run at once
//   - Retry: retries startup dependencies (the database) with exponential backoff
//
//	pool := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "hasher", MaxConcurrent: 4})
//	digest, err := resilience.ExecuteWithResult(pool, ctx, func() (string, error) {
//	    return hasher.Hash(pw)
//	})
package resilience
