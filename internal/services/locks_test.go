package services

import (
	"sync"
	"testing"
)

func TestAccountLocksSerializeSameAccount(t *testing.T) {
	locks := newAccountLocks()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("acc")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if n := locks.size(); n != 0 {
		t.Fatalf("locks left behind: %d", n)
	}
}

func TestAccountLocksIndependentAccounts(t *testing.T) {
	locks := newAccountLocks()
	unlockA := locks.lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.lock("b")
		unlock()
		close(done)
	}()
	<-done

	if n := locks.size(); n != 1 {
		t.Fatalf("size = %d, want 1", n)
	}
}
