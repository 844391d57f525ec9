package repository

import (
	"context"
	"testing"
)

func TestSkillRepositoryListOrdered(t *testing.T) {
	db := openSeeded(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	skills, err := repo.ListOrdered(ctx)
	if err != nil {
		t.Fatalf("ListOrdered error: %v", err)
	}
	if len(skills) != 21 {
		t.Fatalf("skills = %d, want 21", len(skills))
	}

	for i, s := range skills {
		if i < 7 && !s.Major {
			t.Fatalf("position %d (%s) not major, majors must come first", i, s.Name)
		}
		if i >= 7 && s.Major {
			t.Fatalf("position %d (%s) major, only 7 expected", i, s.Name)
		}
		if i > 0 && skills[i-1].Major == s.Major && skills[i-1].SortOrder > s.SortOrder {
			t.Fatalf("sort order descends at position %d (%s)", i, s.Name)
		}
	}
}

func TestSkillRepositorySetMajorsReplacesSet(t *testing.T) {
	db := openSeeded(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	if err := repo.SetMajors(ctx, []uint{4, 5, 6}); err != nil {
		t.Fatalf("SetMajors error: %v", err)
	}

	skills, err := repo.ListOrdered(ctx)
	if err != nil {
		t.Fatalf("ListOrdered error: %v", err)
	}
	want := map[uint]bool{4: true, 5: true, 6: true}
	for _, s := range skills {
		if s.Major != want[s.ID] {
			t.Fatalf("skill %d major = %v, want %v", s.ID, s.Major, want[s.ID])
		}
	}
	for i := 0; i < 3; i++ {
		if !skills[i].Major {
			t.Fatalf("position %d not major after reassignment", i)
		}
	}
}
