package models

import "time"

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnalyzing Phase = "analyzing"
	PhaseReported  Phase = "reported"
	PhaseFailed    Phase = "failed"
)

// SessionState is a snapshot of one controller. At most one of Result and
// Error is set, and only in the reported and failed phases respectively.
type SessionState struct {
	Phase      Phase           `json:"phase"`
	Result     *AnalysisResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	ErrorKind  string          `json:"-"`
	Generation uint64          `json:"generation"`
	FileName   string          `json:"file_name,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (s SessionState) Settled() bool {
	return s.Phase != PhaseAnalyzing
}
