package pipeline

// StageStatus classifies how one extraction stage ended.
type StageStatus string

const (
	// StageOK means the stage produced data.
	StageOK StageStatus = "ok"
	// StageEmpty means the stage ran but found nothing.
	StageEmpty StageStatus = "empty"
	// StageFailed means the stage errored and an empty result was
	// substituted. The document still completes.
	StageFailed StageStatus = "failed"
)

// StageResult records the outcome of one stage for the document report.
type StageResult struct {
	Name   string
	Status StageStatus
	Err    error
}

func stageOK(name string, empty bool) StageResult {
	if empty {
		return StageResult{Name: name, Status: StageEmpty}
	}
	return StageResult{Name: name, Status: StageOK}
}

func stageFailed(name string, err error) StageResult {
	return StageResult{Name: name, Status: StageFailed, Err: err}
}
