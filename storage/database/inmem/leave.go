package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/leave"
)

func timePtr(t time.Time) *time.Time { return &t }

func seedLeave() *leaveTable {
	const sarahEmail = "sarah.j@school.edu"
	reqs := []leave.Request{
		{
			ID: 1, Reference: "LR-2024-0001", StudentID: 1, StudentName: "Sarah Johnson", StudentCode: "STU2024001", Email: sarahEmail,
			Type: leave.Medical, StartDate: date("2024-01-25"), EndDate: date("2024-01-27"), Days: 3,
			Reason: "Fever and flu symptoms",
			Details: "Fever and flu symptoms requiring rest as advised by family physician. " +
				"Unable to attend classes during recovery period.",
			Status: leave.Pending, SubmittedAt: dateTime("2024-01-20 09:30 AM"), EstimatedReview: timePtr(date("2024-01-23")),
			Attachments: []leave.Attachment{
				{Name: "medical_certificate.pdf", Size: "125 KB", ContentType: "application/pdf"},
				{Name: "doctor_note.jpg", Size: "89 KB", ContentType: "image/jpeg"},
			},
			AffectedClasses: []string{
				"Mathematics 101 - Jan 25, 27",
				"Physics Advanced - Jan 25, 26",
				"Chemistry Basics - Jan 26, 27",
			},
			PreviousRequests: []leave.PriorRequest{
				{Date: date("2023-12-15"), Type: leave.Personal, Days: 1, Status: leave.Approved},
				{Date: date("2023-11-08"), Type: leave.Medical, Days: 2, Status: leave.Approved},
			},
		},
		{
			ID: 2, Reference: "LR-2024-0002", StudentID: 2, StudentName: "Mike Chen", StudentCode: "STU2024002", Email: "mike.c@school.edu",
			Type: leave.Personal, StartDate: date("2024-01-30"), EndDate: date("2024-01-30"), Days: 1,
			Reason: "Family emergency", Status: leave.Approved, SubmittedAt: dateTime("2024-01-18 02:15 PM"),
			ReviewedAt: timePtr(dateTime("2024-01-19 10:00 AM")), ReviewedBy: "Prof. Smith",
		},
		{
			ID: 3, Reference: "LR-2024-0003", StudentID: 3, StudentName: "Emily Davis", StudentCode: "STU2024003", Email: "emily.d@school.edu",
			Type: leave.Academic, StartDate: date("2024-02-05"), EndDate: date("2024-02-07"), Days: 3,
			Reason: "Academic conference participation", Status: leave.Approved, SubmittedAt: dateTime("2024-01-15 11:20 AM"),
			ReviewedAt: timePtr(dateTime("2024-01-16 03:30 PM")), ReviewedBy: "Prof. Smith",
			Attachments: []leave.Attachment{{Name: "conference_invitation.pdf", Size: "210 KB", ContentType: "application/pdf"}},
		},
		{
			ID: 4, Reference: "LR-2024-0004", StudentID: 4, StudentName: "Alex Rodriguez", StudentCode: "STU2024004", Email: "alex.r@school.edu",
			Type: leave.Medical, StartDate: date("2024-01-22"), EndDate: date("2024-01-24"), Days: 3,
			Reason: "Dental surgery", Status: leave.Rejected, SubmittedAt: dateTime("2024-01-19 04:45 PM"),
			ReviewedAt: timePtr(dateTime("2024-01-21 09:15 AM")), ReviewedBy: "Prof. Smith",
			Comments: "Insufficient medical documentation",
		},
		{
			ID: 5, Reference: "LR-2024-0005", StudentID: 5, StudentName: "Jessica Wu", StudentCode: "STU2024005", Email: "jessica.w@school.edu",
			Type: leave.Personal, StartDate: date("2024-02-10"), EndDate: date("2024-02-12"), Days: 3,
			Reason: "Wedding ceremony attendance", Status: leave.Pending, SubmittedAt: dateTime("2024-01-21 01:20 PM"),
			EstimatedReview: timePtr(date("2024-01-24")),
			Attachments:     []leave.Attachment{{Name: "wedding_invitation.jpg", Size: "340 KB", ContentType: "image/jpeg"}},
		},
		{
			ID: 6, Reference: "LR-2024-0006", StudentID: 1, StudentName: "Sarah Johnson", StudentCode: "STU2024001", Email: sarahEmail,
			Type: leave.Academic, StartDate: date("2024-02-15"), EndDate: date("2024-02-16"), Days: 2,
			Reason: "Mathematics competition participation", Status: leave.Approved, SubmittedAt: dateTime("2024-01-18 11:45 AM"),
			ReviewedAt: timePtr(dateTime("2024-01-19 09:30 AM")), ReviewedBy: "Prof. Smith",
			Comments:    "Excellent opportunity! Approved. Please share your experience with the class upon return.",
			Attachments: []leave.Attachment{{Name: "competition_invitation.pdf", Size: "180 KB", ContentType: "application/pdf"}},
		},
		{
			ID: 7, Reference: "LR-2024-0007", StudentID: 1, StudentName: "Sarah Johnson", StudentCode: "STU2024001", Email: sarahEmail,
			Type: leave.Personal, StartDate: date("2024-01-15"), EndDate: date("2024-01-15"), Days: 1,
			Reason: "Family emergency", Status: leave.Rejected, SubmittedAt: dateTime("2024-01-14 08:20 PM"),
			ReviewedAt: timePtr(dateTime("2024-01-15 07:00 AM")), ReviewedBy: "Prof. Davis",
			Comments: "Request submitted too late. Please submit requests at least 24 hours in advance except for true emergencies. " +
				"Contact me directly for urgent situations.",
		},
		{
			ID: 8, Reference: "LR-2024-0008", StudentID: 1, StudentName: "Sarah Johnson", StudentCode: "STU2024001", Email: sarahEmail,
			Type: leave.Medical, StartDate: date("2024-01-08"), EndDate: date("2024-01-10"), Days: 3,
			Reason: "Dental surgery", Status: leave.Approved, SubmittedAt: dateTime("2024-01-05 02:30 PM"),
			ReviewedAt: timePtr(dateTime("2024-01-06 10:15 AM")), ReviewedBy: "Prof. Johnson",
			Comments:    "Approved. Medical documentation provided. Take care and recover well.",
			Attachments: []leave.Attachment{{Name: "dental_appointment.pdf", Size: "96 KB", ContentType: "application/pdf"}},
		},
	}

	tbl := &leaveTable{table: make(map[int]*leave.Request, len(reqs))}
	for _, r := range reqs {
		r := r
		tbl.table[r.ID] = &r
		if r.ID > tbl.pk {
			tbl.pk = r.ID
		}
	}
	return tbl
}

type leaveRepository struct {
	db *leaveTable
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *DB) leave.Repository {
	return &leaveRepository{db: db.leave}
}

func (repo *leaveRepository) QueryRequests() ([]leave.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]leave.Request, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		reqs = append(reqs, *r)
	}
	return reqs, nil
}

func (repo *leaveRepository) GetRequest(id int) (leave.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return leave.Request{}, errors.Wrapf(core.ErrNotFound, "leave request %d", id)
}

func (repo *leaveRepository) CreateRequest(req leave.Request) (leave.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	req.ID = repo.db.pk
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *leaveRepository) UpdateRequest(id int, update func(*leave.Request) error) (leave.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[id]
	if !ok {
		return leave.Request{}, errors.Wrapf(core.ErrNotFound, "leave request %d", id)
	}
	req := *stored
	if err := update(&req); err != nil {
		return leave.Request{}, err
	}
	repo.db.table[id] = &req
	return req, nil
}
