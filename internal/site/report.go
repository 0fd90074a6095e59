package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures high-level metrics about a site generation run.
//
// The report is persisted next to the history database, never inside the
// output tree: output must stay a pure function of the sources so repeated
// builds are byte-identical.
type BuildReport struct {
	BuildID         string
	Start           time.Time
	End             time.Time
	Posts           int
	Pages           int // HTML pages written
	Assets          int // asset files copied
	Errors          []error
	Warnings        []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	Outcome         BuildOutcome
}

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		BuildID:         buildID,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
	}
}

func (r *BuildReport) recordError(stage StageName, err *StageError) {
	r.StageErrorKinds[stage] = err.Kind
	r.Errors = append(r.Errors, err)
}

func (r *BuildReport) finish() {
	r.End = time.Now()
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
		for _, err := range r.Errors {
			if se, ok := err.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
			}
		}
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration returns the wall-clock build time.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// FirstError returns the message of the first fatal error, or "".
func (r *BuildReport) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Error()
}

// reportSerializable is the JSON shape of a persisted report.
type reportSerializable struct {
	BuildID        string            `json:"build_id"`
	Start          time.Time         `json:"start"`
	End            time.Time         `json:"end"`
	Posts          int               `json:"posts"`
	Pages          int               `json:"pages"`
	Assets         int               `json:"assets"`
	Outcome        BuildOutcome      `json:"outcome"`
	Errors         []string          `json:"errors,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	StageDurations map[string]string `json:"stage_durations"`
}

// Persist writes the report as JSON into dir (best effort usage by callers).
func (r *BuildReport) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	out := reportSerializable{
		BuildID: r.BuildID,
		Start:   r.Start,
		End:     r.End,
		Posts:   r.Posts,
		Pages:   r.Pages,
		Assets:  r.Assets,
		Outcome: r.Outcome,
	}
	for _, err := range r.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	for _, err := range r.Warnings {
		out.Warnings = append(out.Warnings, err.Error())
	}
	out.StageDurations = make(map[string]string, len(r.StageDurations))
	for name, d := range r.StageDurations {
		out.StageDurations[string(name)] = d.String()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "last-build.json"), data, 0o600)
}
