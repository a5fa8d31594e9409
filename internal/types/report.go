package types

// Priority of an advisory action item
type Priority string

// Priority values
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)

// ActionItem is one prioritized entry of an advisory report
type ActionItem struct {
	Title      string   `json:"title"`
	Priority   Priority `json:"priority"`
	Timeframe  string   `json:"timeframe"`
	NextAction string   `json:"next_action"`
}

// CareerFit summarizes the overall fit of a candidate
type CareerFit struct {
	Score       int      `json:"score"`
	NextActions []string `json:"next_actions"`
}

// AdvisoryReport is the templated set of prioritized actions derived from a gap analysis
type AdvisoryReport struct {
	CareerFit          CareerFit    `json:"career_fit"`
	LearningPriorities []ActionItem `json:"learning_priorities"`
	PathStrategy       []ActionItem `json:"path_strategy"`
}
