// Package projection computes the read-side views of the dashboard from raw
// collection snapshots. Nothing here is cached; every call recomputes.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

// TaskStats counts tasks per status.
type TaskStats struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
	Pending  int `json:"pending"`
	Active   int `json:"active"`
}

// AppointmentStats summarizes the schedule relative to now.
type AppointmentStats struct {
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

// Dashboard is the landing page summary.
type Dashboard struct {
	Tasks        TaskStats            `json:"tasks"`
	Appointments AppointmentStats     `json:"appointments"`
	Patients     int                  `json:"patients"`
	Upcoming     []domain.Appointment `json:"upcomingAppointments"`
	OpenTasks    []domain.Task        `json:"recentTasks"`
}

// DashboardLimit is how many upcoming appointments and open tasks are listed.
const DashboardLimit = 5

func BuildDashboard(tasks []domain.Task, patients []domain.Patient, appts []domain.Appointment, now time.Time) Dashboard {
	return Dashboard{
		Tasks:        CountTasks(tasks),
		Appointments: CountAppointments(appts, now),
		Patients:     len(patients),
		Upcoming:     UpcomingAppointments(appts, now, DashboardLimit),
		OpenTasks:    OpenTasksByDueDate(tasks, DashboardLimit),
	}
}

func CountTasks(tasks []domain.Task) TaskStats {
	s := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskComplete:
			s.Complete++
		case domain.TaskPending:
			s.Pending++
		case domain.TaskActive:
			s.Active++
		}
	}
	return s
}

// CountAppointments counts appointments on now's calendar day, scheduled
// ones still ahead of now, and completed ones.
func CountAppointments(appts []domain.Appointment, now time.Time) AppointmentStats {
	var s AppointmentStats
	for _, a := range appts {
		if SameDay(a.Date, now) {
			s.Today++
		}
		if a.Status == domain.AppointmentScheduled && a.Date.After(now) {
			s.Upcoming++
		}
		if a.Status == domain.AppointmentCompleted {
			s.Completed++
		}
	}
	return s
}

// UpcomingAppointments returns scheduled appointments after now, soonest
// first. limit <= 0 means no limit.
func UpcomingAppointments(appts []domain.Appointment, now time.Time, limit int) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range appts {
		if a.Status == domain.AppointmentScheduled && a.Date.After(now) {
			out = append(out, a)
		}
	}
	sortByDate(out)
	return truncate(out, limit)
}

// OpenTasksByDueDate returns tasks that are not complete, earliest due first.
func OpenTasksByDueDate(tasks []domain.Task, limit int) []domain.Task {
	out := make([]domain.Task, 0)
	for _, t := range tasks {
		if t.Status != domain.TaskComplete {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return truncate(out, limit)
}

// OverdueTasks counts open tasks due before now.
func OverdueTasks(tasks []domain.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.Status != domain.TaskComplete && !t.DueDate.IsZero() && t.DueDate.Before(now) {
			n++
		}
	}
	return n
}

// Board groups tasks into their status columns, keeping collection order.
// Every known status has a column, possibly empty.
func Board(tasks []domain.Task) map[domain.TaskStatus][]domain.Task {
	board := make(map[domain.TaskStatus][]domain.Task, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		board[s] = []domain.Task{}
	}
	for _, t := range tasks {
		board[t.Status] = append(board[t.Status], t)
	}
	return board
}

// SortedByDate returns a copy of appts ordered by date ascending.
func SortedByDate(appts []domain.Appointment) []domain.Appointment {
	out := append([]domain.Appointment(nil), appts...)
	sortByDate(out)
	return out
}

// OnDay returns the appointments falling on day's calendar date in day's location.
func OnDay(appts []domain.Appointment, day time.Time) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range appts {
		if SameDay(a.Date, day) {
			out = append(out, a)
		}
	}
	sortByDate(out)
	return out
}

// Telemedicine returns remote appointments ordered by date.
func Telemedicine(appts []domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range appts {
		if a.IsTelemedicine() {
			out = append(out, a)
		}
	}
	sortByDate(out)
	return out
}

// SearchPatients matches query case-insensitively against name or email.
// An empty query returns every patient.
func SearchPatients(patients []domain.Patient, query string) []domain.Patient {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Patient, 0, len(patients))
	for _, p := range patients {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Email), q) {
			out = append(out, p)
		}
	}
	return out
}

// SameDay compares calendar dates, reading a in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortByDate(appts []domain.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool { return appts[i].Date.Before(appts[j].Date) })
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
