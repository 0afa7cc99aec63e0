package freq

import "testing"

func TestUpdateAndStats(t *testing.T) {
	d := New()
	for _, v := range []string{"1", "1", "2", "3"} {
		d.Update(v)
	}
	stats, err := d.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 4 {
		t.Fatalf("Total = %d, want 4", stats.Total)
	}
	if stats.Unique != 3 {
		t.Fatalf("Unique = %d, want 3", stats.Unique)
	}
	if stats.Min != 1 || stats.Max != 3 {
		t.Fatalf("Min/Max = %v/%v, want 1/3", stats.Min, stats.Max)
	}
}

func TestStatsOfEmptyDistributionErrors(t *testing.T) {
	d := New()
	if _, err := d.Stats(); err == nil {
		t.Fatal("expected an error for an empty distribution")
	}
}

func TestSampleRejectsOutOfRangeInput(t *testing.T) {
	d := New()
	d.Update("a")
	if _, err := d.Sample(1.0); err == nil {
		t.Fatal("expected r=1.0 to be rejected (half-open [0,1))")
	}
	if _, err := d.Sample(-0.1); err == nil {
		t.Fatal("expected a negative r to be rejected")
	}
}

func TestSampleIsWeightedByCount(t *testing.T) {
	d := New()
	d.UpdateBy("common", 99)
	d.UpdateBy("rare", 1)
	commonHits := 0
	for i := 0; i < 100; i++ {
		key, err := d.Sample(float64(i) / 100)
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		if key == "common" {
			commonHits++
		}
	}
	if commonHits < 90 {
		t.Fatalf("expected the heavily-weighted key to dominate samples, got %d/100", commonHits)
	}
}

func TestMergeFoldsCountsTogether(t *testing.T) {
	a := New()
	a.Update("x")
	b := New()
	b.UpdateBy("x", 2)
	b.UpdateBy("y", 5)

	a.Merge(b)
	if a.Counts()["x"] != 3 {
		t.Fatalf("x count = %d, want 3", a.Counts()["x"])
	}
	if a.Counts()["y"] != 5 {
		t.Fatalf("y count = %d, want 5", a.Counts()["y"])
	}
}

func TestCloneIsIndependentOfTheOriginal(t *testing.T) {
	a := New()
	a.Update("x")
	clone := a.Clone()
	a.Update("x")
	if clone.Counts()["x"] != 1 {
		t.Fatalf("clone should not see mutations made after Clone, got %d", clone.Counts()["x"])
	}
}
