package montecarlo

import "fmt"

// RemainderPolicy decides what happens to samples % threads.
type RemainderPolicy string

const (
	// RemainderDrop gives every worker floor(samples/threads) and discards the rest.
	RemainderDrop RemainderPolicy = "drop"
	// RemainderDistribute hands one extra sample to each of the first
	// samples%threads workers, so nothing is lost.
	RemainderDistribute RemainderPolicy = "distribute"
)

// ParseRemainderPolicy maps a flag value to a policy. The empty string is drop.
func ParseRemainderPolicy(s string) (RemainderPolicy, error) {
	switch p := RemainderPolicy(s); p {
	case "":
		return RemainderDrop, nil
	case RemainderDrop, RemainderDistribute:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// SampleRequest is the share of the budget handed to one worker.
type SampleRequest struct {
	SampleCount int64
}

// Partition splits samples across threads. Callers validate both are positive.
func Partition(threads int, samples int64, policy RemainderPolicy) []SampleRequest {
	chunk := samples / int64(threads)
	remainder := samples % int64(threads)

	tasks := make([]SampleRequest, threads)
	for i := range tasks {
		tasks[i] = SampleRequest{SampleCount: chunk}
		if policy == RemainderDistribute && int64(i) < remainder {
			tasks[i].SampleCount++
		}
	}
	return tasks
}

// Executed returns the number of points the requests will actually sample.
func Executed(tasks []SampleRequest) int64 {
	var total int64
	for _, t := range tasks {
		total += t.SampleCount
	}
	return total
}
