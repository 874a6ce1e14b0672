package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLockRegistrySerializesSameID(t *testing.T) {
	locks := NewLockRegistry()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(id)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestLockRegistryIDsAreIndependent(t *testing.T) {
	locks := NewLockRegistry()
	first := uuid.New()
	second := uuid.New()

	unlockFirst := locks.Lock(first)

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(second)
		unlock()
		close(done)
	}()
	<-done

	unlockFirst()

	// The same id hands out the same mutex again after release.
	unlock := locks.Lock(first)
	unlock()
}
