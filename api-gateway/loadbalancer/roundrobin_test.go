package loadbalancer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobin_Rotates(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080", "http://b:8080", "http://c:8080"})

	got := []string{rr.Next(), rr.Next(), rr.Next(), rr.Next()}

	assert.Equal(t, []string{
		"http://a:8080", "http://b:8080", "http://c:8080", "http://a:8080",
	}, got)
}

func TestRoundRobin_DefaultsWhenEmpty(t *testing.T) {
	rr := NewRoundRobin(nil)

	assert.Equal(t, "http://localhost:8080", rr.Next())
}

func TestRoundRobin_ServersReturnsCopy(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080"})

	servers := rr.Servers()
	servers[0] = "mutated"

	assert.Equal(t, "http://a:8080", rr.Next())
}

func TestRoundRobin_ConcurrentNext(t *testing.T) {
	servers := []string{"http://a:8080", "http://b:8080"}
	rr := NewRoundRobin(servers)

	const calls = 100
	counts := make(map[string]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			server := rr.Next()
			mu.Lock()
			counts[server]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, calls/2, counts["http://a:8080"])
	assert.Equal(t, calls/2, counts["http://b:8080"])
}
