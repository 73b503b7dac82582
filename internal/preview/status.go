package preview

import (
	"sync"
	"time"
)

// buildStatus tracks the outcome of the latest build for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildID  string
	lastBuildAt  time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) setError(buildID string, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuildID = buildID
	bs.lastBuildAt = time.Now()
}

func (bs *buildStatus) setSuccess(buildID string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuildID = buildID
	bs.lastBuildAt = time.Now()
	bs.hasGoodBuild = true
}

// Health is the body of the /healthz response.
type Health struct {
	Status       string    `json:"status"`
	BuildID      string    `json:"build_id,omitempty"`
	BuiltAt      time.Time `json:"built_at,omitzero"`
	LastError    string    `json:"last_error,omitempty"`
	HasGoodBuild bool      `json:"has_good_build"`
}

func (bs *buildStatus) health() Health {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	h := Health{
		Status:       "ok",
		BuildID:      bs.lastBuildID,
		BuiltAt:      bs.lastBuildAt,
		HasGoodBuild: bs.hasGoodBuild,
	}
	switch {
	case bs.lastError != nil:
		h.Status = "error"
		h.LastError = bs.lastError.Error()
	case !bs.hasGoodBuild:
		h.Status = "starting"
	}
	return h
}
