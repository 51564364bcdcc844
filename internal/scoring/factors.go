package scoring

// FactorResult captures one attribute's contribution to the bonus.
type FactorResult struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Points  int    `json:"points"`
	Matched bool   `json:"matched"`
}

// Bonus bounds for tasks whose attributes are all valid.
const (
	MinBonus = 4
	MaxBonus = 10
)

var (
	typeBonus = map[TaskType]int{
		TypePersonal:  1,
		TypeStudyWork: 2,
	}
	deadlineBonus = map[Deadline]int{
		Deadline3Days: 1,
		Deadline2Days: 2,
		Deadline1Day:  3,
	}
	importanceBonus = map[Importance]int{
		ImportanceNot:   1,
		ImportanceQuite: 2,
		ImportanceVery:  3,
	}
	difficultyBonus = map[Difficulty]int{
		DifficultyNormal: 1,
		DifficultyHard:   2,
	}
)

// --- Individual factor calculators ---

// TypeFactor awards study/work above personal tasks.
func TypeFactor(t Task) FactorResult {
	p, ok := typeBonus[t.Type]
	return FactorResult{Name: "type", Value: string(t.Type), Points: p, Matched: ok}
}

// DeadlineFactor awards closer deadlines more points.
func DeadlineFactor(t Task) FactorResult {
	p, ok := deadlineBonus[t.Deadline]
	return FactorResult{Name: "deadline", Value: string(t.Deadline), Points: p, Matched: ok}
}

// ImportanceFactor awards more important tasks more points.
func ImportanceFactor(t Task) FactorResult {
	p, ok := importanceBonus[t.Importance]
	return FactorResult{Name: "importance", Value: string(t.Importance), Points: p, Matched: ok}
}

// DifficultyFactor awards hard tasks above normal ones.
func DifficultyFactor(t Task) FactorResult {
	p, ok := difficultyBonus[t.Difficulty]
	return FactorResult{Name: "difficulty", Value: string(t.Difficulty), Points: p, Matched: ok}
}

// Factors returns the four per-attribute bonus contributions in a fixed order.
func Factors(t Task) []FactorResult {
	return []FactorResult{
		TypeFactor(t),
		DeadlineFactor(t),
		ImportanceFactor(t),
		DifficultyFactor(t),
	}
}

// Bonus sums the per-attribute points. Unknown values add nothing.
func Bonus(t Task) int {
	var total int
	for _, f := range Factors(t) {
		total += f.Points
	}
	return total
}
