package repository

import (
	"context"
	"testing"
)

func TestAttributeRepositoryList(t *testing.T) {
	db := openSeeded(t)
	repo := NewAttributeRepository(db)
	ctx := context.Background()

	attrs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(attrs) != 7 {
		t.Fatalf("attributes = %d, want 7", len(attrs))
	}
	if attrs[0].Name != "Strength" || attrs[6].Name != "Personality" {
		t.Fatalf("order wrong: first %s last %s", attrs[0].Name, attrs[6].Name)
	}
	for i := 1; i < len(attrs); i++ {
		if attrs[i-1].ID >= attrs[i].ID {
			t.Fatalf("ids not ascending at %d", i)
		}
	}
}
