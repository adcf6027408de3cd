package constants

// RunStatus is the canonical status for rows in split_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusCancelled RunStatus = "CANCELLED" // context cancelled between pages
	RunStatusFailed    RunStatus = "FAILED"
)

// JudgmentSource tells where a page judgment came from.
type JudgmentSource string

const (
	SourceOracle    JudgmentSource = "oracle"
	SourceHeuristic JudgmentSource = "heuristic"
	SourceEmptyPage JudgmentSource = "empty-page"
	SourceDefaults  JudgmentSource = "defaults" // oracle unusable and heuristic disabled
)
