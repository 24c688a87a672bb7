package reconcile

import (
	"errors"
	"fmt"
	"time"
)

// Record is one service's view of one title.
type Record struct {
	// ID is the Steam app id, the join key across services.
	ID int `json:"appid"`

	// Name is the display title. Empty when the service does not supply one.
	Name string `json:"name,omitempty"`

	// Unlocked is the number of achievements unlocked.
	Unlocked int `json:"unlocked"`

	// Total is the number of achievements defined for the title, nil when unknown.
	Total *int `json:"total"`

	// IsPerfect reports whether every achievement is unlocked.
	IsPerfect Tristate `json:"isPerfect"`

	// IsCompleted is the service-specific completion status.
	IsCompleted Tristate `json:"isCompleted"`

	// IsCounted reports whether the service's own scoring includes the title.
	IsCounted bool `json:"isCounted"`

	// IsTrusted is the service's anti-cheat judgement for the title.
	IsTrusted Tristate `json:"isTrusted"`

	// Ref is a service-specific reference used to build title links (e.g. a URL slug).
	Ref string `json:"ref,omitempty"`
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// PerfectFrom derives IsPerfect from the counts. It is Unknown when total is.
func PerfectFrom(unlocked int, total *int) Tristate {
	if total == nil {
		return Unknown
	}
	return Bool(unlocked >= *total)
}

// DisplayName returns the name or a placeholder built from the id.
func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Unknown App %d", r.ID)
}

// Validate checks the record-level invariants.
func (r Record) Validate() error {
	if r.Unlocked < 0 {
		return fmt.Errorf("app %d: negative unlocked count %d", r.ID, r.Unlocked)
	}
	if r.IsPerfect == True && (r.Total == nil || r.Unlocked < *r.Total) {
		return fmt.Errorf("app %d: perfect without a reached total", r.ID)
	}
	return nil
}

// Merge returns primary with its absent name and total filled in from
// secondary. Ref is service-specific and never copied.
func Merge(primary Record, secondary *Record) Record {
	if secondary == nil {
		return primary
	}
	out := primary
	if out.Name == "" {
		out.Name = secondary.Name
	}
	if out.Total == nil && secondary.Total != nil {
		out.Total = IntPtr(*secondary.Total)
	}
	return out
}

// Status is the out-of-band outcome of one adapter invocation.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNeedsSignIn Status = "needs-sign-in"
	StatusError       Status = "error"
)

// SignIn describes the call to action for a service that needs authentication.
type SignIn struct {
	// Link is where the user signs in.
	Link string `json:"link,omitempty"`
	// As names the identity the user must sign in as, when another one is signed in.
	As string `json:"as,omitempty"`
}

// Result is the output of one adapter invocation.
type Result struct {
	Service  string        `json:"service"`
	Status   Status        `json:"status"`
	Records  []Record      `json:"records"`
	SignIn   *SignIn       `json:"sign_in,omitempty"`
	Error    string        `json:"error,omitempty"`
	NoData   bool          `json:"no_data,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// HasData reports whether the result contributes at least one record.
func (r Result) HasData() bool {
	return r.Status == StatusOK && len(r.Records) > 0
}

// SignInError is returned by adapters that cannot authenticate.
type SignInError struct {
	Link string
	As   string
}

func (e *SignInError) Error() string {
	if e.As != "" {
		return "sign in required as " + e.As
	}
	return "sign in required"
}

// FormatError marks an unexpected upstream response shape.
// The engine reports it as "no data" for that service only.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "unexpected response format: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Formatf builds a FormatError.
func Formatf(format string, args ...any) error {
	return &FormatError{Err: fmt.Errorf(format, args...)}
}

var (
	// ErrTooFewServices is returned when a comparison names fewer than two services.
	ErrTooFewServices = errors.New("at least two services must be selected")
	// ErrProfileURLRequired is returned by adapters that need a manual profile reference.
	ErrProfileURLRequired = errors.New("a profile URL is required for this service")
)

// Difference is one flagged discrepancy between two services for one title.
type Difference struct {
	ID         int      `json:"appid"`
	Name       string   `json:"name"`
	Reasons    []string `json:"reasons"`
	SourceLink string   `json:"source_link,omitempty"`
	TargetLink string   `json:"target_link,omitempty"`
}

// PairDiff holds the differences between two services.
type PairDiff struct {
	Source      string       `json:"source"`
	Target      string       `json:"target"`
	Differences []Difference `json:"differences"`
}

// SummaryState classifies one service in the report.
type SummaryState string

const (
	StateUpToDate    SummaryState = "up-to-date"
	StateBehind      SummaryState = "behind"
	StateNeedsSignIn SummaryState = "needs-sign-in"
	StateError       SummaryState = "error"
	StateNoData      SummaryState = "no-data"
	StateNotCompared SummaryState = "not-compared"
)

// GameDelta is one title a service is behind or ahead on.
type GameDelta struct {
	ID            int    `json:"appid"`
	Name          string `json:"name"`
	Authoritative int    `json:"authoritative"`
	Service       int    `json:"service"`
	Total         *int   `json:"total"`
	Link          string `json:"link,omitempty"`
}

// Delta is the absolute unlocked-count gap.
func (g GameDelta) Delta() int {
	if g.Authoritative > g.Service {
		return g.Authoritative - g.Service
	}
	return g.Service - g.Authoritative
}

// DeltaSet is a group of titles sharing a direction, with copyable artifacts.
type DeltaSet struct {
	Games        []GameDelta `json:"games"`
	Achievements int         `json:"achievements"`
	Headline     string      `json:"headline"`
	AppIDs       string      `json:"app_ids"`
	JSON         string      `json:"json"`
}

// Recovery is a link that asks the service to rescan titles.
type Recovery struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Form   map[string]string `json:"form,omitempty"`
}

// Summary is the report entry for one tracker.
type Summary struct {
	Service     string       `json:"service"`
	State       SummaryState `json:"state"`
	Headline    string       `json:"headline"`
	ProfileLink string       `json:"profile_link,omitempty"`
	SignIn      *SignIn      `json:"sign_in,omitempty"`
	Error       string       `json:"error,omitempty"`
	Missing     *DeltaSet    `json:"missing,omitempty"`
	Removed     *DeltaSet    `json:"removed,omitempty"`
	Recovery    *Recovery    `json:"recovery,omitempty"`
}

// Violation lists the policy messages raised for one title by a validating service.
type Violation struct {
	Service  string   `json:"service"`
	ID       int      `json:"appid"`
	Name     string   `json:"name"`
	Messages []string `json:"messages"`
}

// Report is the outcome of one comparison run.
type Report struct {
	SteamID       string        `json:"steamid"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Duration      time.Duration `json:"duration_ns"`
	Insufficient  bool          `json:"insufficient"`
	Results       []Result      `json:"results"`
	Mismatched    []int         `json:"mismatched"`
	Authoritative []Record      `json:"authoritative"`
	Summaries     []Summary     `json:"summaries"`
	Pairs         []PairDiff    `json:"pairs"`
	Violations    []Violation   `json:"violations,omitempty"`
}
