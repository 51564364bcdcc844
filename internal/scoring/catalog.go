package scoring

// Base scores a catalog row can carry.
const (
	BaseHigh   = 50
	BaseMedium = 30
	BaseLow    = 10
)

// TrainingExample is one labelled row of the training catalog.
type TrainingExample struct {
	Attributes
	Score int
}

var catalog = [...]TrainingExample{
	{Attributes{TypeStudyWork, Deadline1Day, ImportanceVery, DifficultyHard}, BaseHigh},
	{Attributes{TypeStudyWork, Deadline1Day, ImportanceQuite, DifficultyNormal}, BaseHigh},
	{Attributes{TypeStudyWork, Deadline2Days, ImportanceVery, DifficultyHard}, BaseHigh},
	{Attributes{TypePersonal, Deadline1Day, ImportanceVery, DifficultyNormal}, BaseHigh},
	{Attributes{TypeStudyWork, Deadline3Days, ImportanceVery, DifficultyHard}, BaseMedium},
	{Attributes{TypePersonal, Deadline2Days, ImportanceQuite, DifficultyHard}, BaseMedium},
	{Attributes{TypeStudyWork, Deadline3Days, ImportanceNot, DifficultyHard}, BaseMedium},
	{Attributes{TypeStudyWork, Deadline2Days, ImportanceNot, DifficultyNormal}, BaseMedium},
	{Attributes{TypePersonal, Deadline1Day, ImportanceQuite, DifficultyNormal}, BaseLow},
	{Attributes{TypePersonal, Deadline3Days, ImportanceQuite, DifficultyNormal}, BaseLow},
	{Attributes{TypePersonal, Deadline1Day, ImportanceNot, DifficultyNormal}, BaseLow},
	{Attributes{TypePersonal, Deadline3Days, ImportanceNot, DifficultyNormal}, BaseLow},
}

// Catalog returns a copy of the embedded training rows in catalog order.
func Catalog() []TrainingExample {
	out := make([]TrainingExample, len(catalog))
	copy(out, catalog[:])
	return out
}
