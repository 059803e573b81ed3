package render

import "testing"

func TestRegisterAndGetBackend(t *testing.T) {
	name := "test-backend-registry"
	RegisterBackend(name, func() (Backend, error) { return nil, nil })
	if _, err := NewBackend(name); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range BackendNames() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Error("expected backend name in BackendNames()")
	}
}

func TestNewBackendUnknown(t *testing.T) {
	if _, err := NewBackend("does-not-exist"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestRegisterBackendPanicsOnDuplicate(t *testing.T) {
	name := "test-backend-dup"
	RegisterBackend(name, func() (Backend, error) { return nil, nil })
	defer func() {
		if recover() == nil {
			t.Error("expected panic registering duplicate backend name")
		}
	}()
	RegisterBackend(name, func() (Backend, error) { return nil, nil })
}
