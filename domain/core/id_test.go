package core

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewAnalysisID_Unique(t *testing.T) {
	a := NewAnalysisID()
	b := NewAnalysisID()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if ID(a).IsEmpty() {
		t.Fatal("analysis id should not be empty")
	}
}

func TestNewAnalysisID_IsTimeOrderedUUID(t *testing.T) {
	parsed, err := uuid.Parse(NewAnalysisID().String())
	if err != nil {
		t.Fatalf("analysis id is not a uuid: %v", err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected a version 7 uuid, got version %d", parsed.Version())
	}
}
