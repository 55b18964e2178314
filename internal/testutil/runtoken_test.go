package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunTokens_Default(t *testing.T) {
	gen := NewFixedRunTokens("")
	assert.Equal(t, "test-run-default", gen.Generate())
	assert.Equal(t, "test-run-default", gen.Generate())
}

func TestFixedRunTokens_Sequence(t *testing.T) {
	gen := NewFixedRunTokens("run")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
}

func TestFixedRunTokens_ThreadSafe(t *testing.T) {
	gen := NewFixedRunTokens("run")
	const n = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := gen.Generate()
			mu.Lock()
			seen[tok] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n, "every token should be unique")
}
