package main

import (
	"testing"
	"time"
)

func TestNewSubmitGuard(t *testing.T) {
	t.Run("guard blocks a second submit while one is in flight", func(t *testing.T) {
		sg := NewSubmitGuard("1s")
		if !sg.Begin("post:") {
			t.Errorf("Expected to be allowed to start first submit")
		}
		if sg.Begin("post:") {
			t.Errorf("Expected to be blocked while submit is in flight")
		}
		d, _ := time.ParseDuration("1h")
		sg.clean(time.Now().Add(d))
		if !sg.Begin("post:") {
			t.Errorf("Expected to be allowed again after the slot expired")
		}
	})

	t.Run("end releases the slot immediately", func(t *testing.T) {
		sg := NewSubmitGuard("1h")
		sg.Begin("update:a")
		sg.End("update:a")
		if !sg.Begin("update:a") {
			t.Errorf("Expected to be allowed after End")
		}
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		sg := NewSubmitGuard("1h")
		sg.Begin("remove:a")
		if !sg.Begin("remove:b") {
			t.Errorf("Expected independent keys to be allowed")
		}
	})
}
