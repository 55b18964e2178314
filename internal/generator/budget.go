package generator

// retryBudget counts generation attempts against MaxRetryCount.
//
// A budget of n retries allows n+1 attempts: the first attempt is not a retry.
type retryBudget struct {
	maxAttempts int
	used        int
}

func newRetryBudget(maxRetryCount int) *retryBudget {
	return &retryBudget{maxAttempts: maxRetryCount + 1}
}

// next starts a new attempt. Returns false once the budget is spent.
func (b *retryBudget) next() bool {
	if b.used >= b.maxAttempts {
		return false
	}
	b.used++
	return true
}

// attempts returns the number of attempts started so far.
func (b *retryBudget) attempts() int {
	return b.used
}

// limit returns the maximum number of attempts.
func (b *retryBudget) limit() int {
	return b.maxAttempts
}
