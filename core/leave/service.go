package leave

import (
	"bytes"
	"context"
	"net/mail"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"github.com/trezcool/edutracker/core"
)

var (
	nowFunc = time.Now // mockable

	ErrAlreadyDecided = errors.New("this request has already been reviewed")
	errUnknownType    = errors.New("unknown leave type")
)

type (
	Repository interface {
		QueryRequests() ([]Request, error)
		GetRequest(id int) (Request, error)
		CreateRequest(req Request) (Request, error)
		// UpdateRequest applies update to the stored request atomically; an update error leaves it unchanged.
		UpdateRequest(id int, update func(*Request) error) (Request, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		delay   time.Duration
	}
)

// NewService returns a leave Service. Submissions are held for `delay` before being recorded.
func NewService(repo Repository, mailSvc core.EmailService, delay time.Duration) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, delay: delay}
}

// Filter lists the requests matching the filter, most recently submitted first.
func (svc *Service) Filter(filter Filter) ([]Request, error) {
	filter.Clean()
	reqs, err := svc.repo.QueryRequests()
	if err != nil {
		return nil, errors.Wrap(err, "querying requests")
	}
	filtered := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		if filter.StudentID != 0 && r.StudentID != filter.StudentID {
			continue
		}
		if filter.Match(r) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].SubmittedAt.After(filtered[j].SubmittedAt) })
	return filtered, nil
}

// GetStats counts requests by status. studentID scopes the count to one student when non zero.
func (svc *Service) GetStats(studentID int) (Stats, error) {
	reqs, err := svc.repo.QueryRequests()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying requests")
	}
	var stats Stats
	for _, r := range reqs {
		if studentID != 0 && r.StudentID != studentID {
			continue
		}
		stats.Total++
		switch r.Status {
		case Pending:
			stats.Pending++
		case Approved:
			stats.Approved++
		case Rejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

func (svc *Service) GetByID(id int) (Request, error) {
	req, err := svc.repo.GetRequest(id)
	return req, errors.Wrap(err, "getting request")
}

// Submit records a validated request as pending after the configured delay and
// emails a confirmation to the student. It gives up when ctx is done first.
func (svc *Service) Submit(ctx context.Context, nr NewRequest, by Requester) (Request, error) {
	if svc.delay > 0 {
		timer := time.NewTimer(svc.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Request{}, errors.Wrap(ctx.Err(), "waiting to submit")
		case <-timer.C:
		}
	}

	typ, ok := ParseType(nr.Type)
	if !ok {
		return Request{}, core.NewFieldError("type", errUnknownType)
	}
	start, err := time.Parse(core.DateLayout, nr.StartDate)
	if err != nil {
		return Request{}, errors.Wrap(err, "parsing start date")
	}
	end, err := time.Parse(core.DateLayout, nr.EndDate)
	if err != nil {
		return Request{}, errors.Wrap(err, "parsing end date")
	}

	now := nowFunc()
	review := now.AddDate(0, 0, 3)
	req := Request{
		Reference:       uuid.NewString(),
		StudentID:       by.StudentID,
		StudentName:     by.Name,
		StudentCode:     by.Code,
		Email:           by.Email,
		Type:            typ,
		StartDate:       start,
		EndDate:         end,
		Days:            Days(start, end),
		Reason:          nr.Reason,
		Details:         nr.AdditionalDetails,
		Status:          Pending,
		SubmittedAt:     now,
		EstimatedReview: &review,
	}
	for _, name := range nr.Attachments {
		req.Attachments = append(req.Attachments, Attachment{Name: name})
	}

	req, err = svc.repo.CreateRequest(req)
	if err != nil {
		return Request{}, errors.Wrap(err, "creating request")
	}
	svc.notify(req, "Leave request submitted", "leave_submitted")
	return req, nil
}

// Decide approves or rejects a pending request and notifies the student.
// Of concurrent decisions on the same request only the first succeeds.
func (svc *Service) Decide(id int, d Decision, reviewer string) (Request, error) {
	req, err := svc.repo.UpdateRequest(id, func(req *Request) error {
		if !req.IsPending() {
			return core.NewFieldError("decision", ErrAlreadyDecided)
		}
		now := nowFunc()
		req.Status = d.Status()
		req.ReviewedAt = &now
		req.ReviewedBy = reviewer
		req.Comments = d.Comments
		req.EstimatedReview = nil
		return nil
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "deciding request")
	}
	svc.notify(req, "Leave request "+string(req.Status), "leave_decided")
	return req, nil
}

// ReferenceQR encodes a request reference as a PNG QR code.
func ReferenceQR(reference string) ([]byte, error) {
	png, err := qrcode.Encode(reference, qrcode.Medium, 256)
	return png, errors.Wrap(err, "encoding qr code")
}

func (svc *Service) notify(req Request, subject, tmpl string) {
	if svc.mailSvc == nil || req.Email == "" {
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: req.StudentName, Address: req.Email}},
		Subject:      subject,
		TemplateName: tmpl,
		TemplateData: req,
	}
	// the reference QR code goes with the confirmation; the body carries the reference anyway
	if req.IsPending() {
		if png, err := ReferenceQR(req.Reference); err == nil {
			_ = msg.Attach(bytes.NewReader(png), "leave-request-"+req.Reference+".png", "image/png")
		}
	}
	svc.mailSvc.SendMessages(msg)
}
