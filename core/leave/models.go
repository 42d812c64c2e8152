package leave

import (
	"strings"
	"time"

	"github.com/trezcool/edutracker/core"
)

type Type string

const (
	Medical   Type = "Medical"
	Personal  Type = "Personal"
	Academic  Type = "Academic"
	Emergency Type = "Emergency"
)

// TypeOption describes a leave type on the request form.
type TypeOption struct {
	Value       string
	Type        Type
	Description string
}

var TypeOptions = []TypeOption{
	{Value: "medical", Type: Medical, Description: "For medical appointments or illness"},
	{Value: "personal", Type: Personal, Description: "For personal or family matters"},
	{Value: "academic", Type: Academic, Description: "For conferences, competitions, or academic events"},
	{Value: "emergency", Type: Emergency, Description: "For urgent family emergencies"},
}

// ParseType maps a form value ("medical") onto its Type.
func ParseType(value string) (Type, bool) {
	for _, opt := range TypeOptions {
		if strings.EqualFold(opt.Value, value) {
			return opt.Type, true
		}
	}
	return "", false
}

type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// All disables a select filter.
const All = "all"

type Attachment struct {
	Name        string
	Size        string
	ContentType string
}

// PriorRequest summarizes an earlier request on the approval screen.
type PriorRequest struct {
	Date   time.Time
	Type   Type
	Days   int
	Status Status
}

type Request struct {
	ID               int
	Reference        string
	StudentID        int
	StudentName      string
	StudentCode      string
	Email            string
	Type             Type
	StartDate        time.Time
	EndDate          time.Time
	Days             int
	Reason           string
	Details          string
	Status           Status
	SubmittedAt      time.Time
	ReviewedAt       *time.Time
	ReviewedBy       string
	Comments         string
	EstimatedReview  *time.Time
	Attachments      []Attachment
	AffectedClasses  []string
	PreviousRequests []PriorRequest
}

func (r Request) IsPending() bool { return r.Status == Pending }

// Days counts the calendar days covered by a request, both ends included.
func Days(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) + 1
}

type Filter struct {
	Search    string `query:"search"`
	Status    string `query:"status"`
	Type      string `query:"type"`
	StudentID int    `query:"-"` // scope to one student when set
}

func (f *Filter) Clean() {
	f.Search = core.CleanString(f.Search)
	if f.Status == "" {
		f.Status = All
	}
	if f.Type == "" {
		f.Type = All
	}
}

// Match searches by student on the teacher side and by reason or type on the student side.
func (f Filter) Match(r Request) bool {
	var matchesSearch bool
	if f.StudentID == 0 {
		matchesSearch = core.ContainsFold(r.StudentName, f.Search) || core.ContainsFold(r.StudentCode, f.Search)
	} else {
		matchesSearch = core.ContainsFold(r.Reason, f.Search) || core.ContainsFold(string(r.Type), f.Search)
	}
	matchesStatus := f.Status == All || string(r.Status) == f.Status
	matchesType := f.Type == All || string(r.Type) == f.Type
	return matchesSearch && matchesStatus && matchesType
}

type Stats struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}

// Requester identifies the student submitting a request.
type Requester struct {
	StudentID int
	Name      string
	Code      string
	Email     string
}

// NewRequest is the leave request form.
type NewRequest struct {
	Type              string   `form:"type" validate:"required,oneof=medical personal academic emergency"`
	StartDate         string   `form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate           string   `form:"endDate" validate:"required,datetime=2006-01-02"`
	Reason            string   `form:"reason" validate:"notblank"`
	AdditionalDetails string   `form:"additionalDetails"`
	Attachments       []string `form:"-"`
}

// DefaultNewRequest is the blank form.
func DefaultNewRequest() NewRequest {
	return NewRequest{Type: "personal"}
}

// Days previews the number of days covered, 0 until both dates are valid.
func (nr NewRequest) Days() int {
	start, err1 := time.Parse(core.DateLayout, nr.StartDate)
	end, err2 := time.Parse(core.DateLayout, nr.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return Days(start, end)
}

// Decision is the teacher's approval form.
type Decision struct {
	Decision string `form:"decision" validate:"required,oneof=approve reject"`
	Comments string `form:"comments"`
}

func (d Decision) Status() Status {
	if d.Decision == "approve" {
		return Approved
	}
	return Rejected
}
