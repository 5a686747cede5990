package workload

type WorkloadError string

func (e WorkloadError) Error() string {
	return string(e)
}

const (
	ErrInvalidRatios = WorkloadError("ErrInvalidRatios")

	// A snapshot observed a lower version than an earlier snapshot taken by the same goroutine.
	ErrSnapshotVersionRegressed = WorkloadError("ErrSnapshotVersionRegressed")
)
