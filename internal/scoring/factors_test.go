package scoring

import "testing"

func TestBonusTable(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want int
	}{
		{"max", task("", TypeStudyWork, Deadline1Day, ImportanceVery, DifficultyHard), 10},
		{"min", task("", TypePersonal, Deadline3Days, ImportanceNot, DifficultyNormal), 4},
		{"mixed", task("", TypePersonal, Deadline2Days, ImportanceQuite, DifficultyHard), 1 + 2 + 2 + 2},
		{"unknown values add nothing", task("", "Hobby", "someday", ImportanceVery, ""), 3},
		{"zero task", Task{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bonus(tt.task); got != tt.want {
				t.Errorf("Bonus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFactorsMatched(t *testing.T) {
	fs := Factors(task("", TypePersonal, "soon", ImportanceNot, DifficultyHard))
	want := []bool{true, false, true, true}
	for i, f := range fs {
		if f.Matched != want[i] {
			t.Errorf("%s: matched=%v, want %v", f.Name, f.Matched, want[i])
		}
	}
	if fs[1].Points != 0 {
		t.Errorf("unmatched deadline should score 0, got %d", fs[1].Points)
	}
}

func TestBonusBounds(t *testing.T) {
	for _, tk := range allValidTasks() {
		b := Bonus(tk)
		if b < MinBonus || b > MaxBonus {
			t.Errorf("%+v: bonus %d outside [%d,%d]", tk.Attributes(), b, MinBonus, MaxBonus)
		}
	}
}
