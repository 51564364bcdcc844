package hermes

const (
	SubjectStats = "arrange.stats"

	StreamName   = "ARRANGER_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectSetCreated(setID string) string {
	return "arrange.set." + setID + ".created"
}

func SubjectTaskAdded(setID string) string {
	return "arrange.set." + setID + ".task_added"
}

func SubjectSetArranged(setID string) string {
	return "arrange.set." + setID + ".arranged"
}

func SubjectTaskCompleted(setID string) string {
	return "arrange.set." + setID + ".completed"
}

func SubjectSetsReset() string {
	return "arrange.set.all.reset"
}
