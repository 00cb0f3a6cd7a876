package audit

// Stage names a step of an audit run.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageAuditing   Stage = "auditing"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// Progress is an immutable snapshot of a run. A failed snapshot resets
// Percent to zero and carries the terminal error.
type Progress struct {
	Stage   Stage `json:"stage"`
	Percent int   `json:"percent"`
	Err     error `json:"-"`
}

var stagePercent = map[Stage]int{
	StageExtracting: 30,
	StageAuditing:   60,
	StageComplete:   100,
	StageFailed:     0,
}

// Observer receives progress snapshots in order.
type Observer interface {
	OnProgress(p Progress)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(p Progress)

func (f ObserverFunc) OnProgress(p Progress) {
	f(p)
}

type noopObserver struct{}

func (noopObserver) OnProgress(Progress) {}

func emit(obs Observer, stage Stage, err error) {
	obs.OnProgress(Progress{Stage: stage, Percent: stagePercent[stage], Err: err})
}
