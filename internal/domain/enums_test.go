package domain

import "testing"

func TestSemester_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		semester Semester
		want     bool
	}{
		{"S1", true},
		{"S10", true},
		{"S0", false},
		{"S11", false},
		{"S01", false},
		{"s1", false},
		{"", false},
		{"S", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.semester), func(t *testing.T) {
			t.Parallel()
			if got := tt.semester.IsValid(); got != tt.want {
				t.Errorf("Semester(%q).IsValid() = %v, want %v", tt.semester, got, tt.want)
			}
		})
	}
}

func TestAllSemesters(t *testing.T) {
	t.Parallel()

	all := AllSemesters()
	if len(all) != 10 {
		t.Fatalf("len(AllSemesters()) = %d, want 10", len(all))
	}
	if all[0] != "S1" || all[9] != "S10" {
		t.Errorf("AllSemesters() = %v", all)
	}
	for _, s := range all {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
}

func TestOperator_IsValid(t *testing.T) {
	t.Parallel()

	for _, op := range []Operator{OpEqual, OpNotEqual, OpLike, OpILike, OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpIn} {
		if !op.IsValid() {
			t.Errorf("Operator(%q).IsValid() = false", op)
		}
	}
	if Operator("=").IsValid() {
		t.Error(`Operator("=").IsValid() = true, want false`)
	}
}
