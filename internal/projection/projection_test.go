package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/repository"
)

var now = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func appt(id string, at time.Time, status domain.AppointmentStatus, typ string) domain.Appointment {
	return domain.Appointment{ID: id, Date: at, Status: status, Type: typ}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func apptIDs(a []domain.Appointment) []string {
	return ids(a, func(x domain.Appointment) string { return x.ID })
}

func TestCountTasksOnSeed(t *testing.T) {
	s := CountTasks(repository.DemoTasks())
	assert.Equal(t, TaskStats{Total: 3, Complete: 1, Pending: 1, Active: 1}, s)
}

func TestAppointmentStatsAndUpcoming(t *testing.T) {
	appts := []domain.Appointment{
		appt("past-today", now.Add(-time.Hour), domain.AppointmentScheduled, domain.TypeConsultation),
		appt("later-today", now.Add(time.Hour), domain.AppointmentScheduled, domain.TypeConsultation),
		appt("tomorrow", now.Add(24*time.Hour), domain.AppointmentScheduled, domain.TypeTelemedicine),
		appt("confirmed", now.Add(2*time.Hour), domain.AppointmentConfirmed, domain.TypeConsultation),
		appt("done", now.Add(-48*time.Hour), domain.AppointmentCompleted, domain.TypeConsultation),
	}
	s := CountAppointments(appts, now)
	assert.Equal(t, AppointmentStats{Today: 3, Upcoming: 2, Completed: 1}, s)

	assert.Equal(t, []string{"later-today", "tomorrow"}, apptIDs(UpcomingAppointments(appts, now, 0)))
	assert.Equal(t, []string{"later-today"}, apptIDs(UpcomingAppointments(appts, now, 1)))
}

func TestOpenTasksByDueDate(t *testing.T) {
	tasks := []domain.Task{
		{ID: "late", Status: domain.TaskPending, DueDate: now.Add(72 * time.Hour)},
		{ID: "done", Status: domain.TaskComplete, DueDate: now.Add(-72 * time.Hour)},
		{ID: "soon", Status: domain.TaskActive, DueDate: now.Add(time.Hour)},
	}
	got := OpenTasksByDueDate(tasks, 5)
	assert.Equal(t, []string{"soon", "late"}, ids(got, func(t domain.Task) string { return t.ID }))
	assert.Equal(t, 0, OverdueTasks(tasks, now))
	assert.Equal(t, 2, OverdueTasks(tasks, now.Add(100*time.Hour)))
}

func TestBoardHasEveryColumn(t *testing.T) {
	board := Board([]domain.Task{{ID: "1", Status: domain.TaskActive}, {ID: "2", Status: domain.TaskActive}})
	require.Len(t, board, 3)
	assert.Empty(t, board[domain.TaskPending])
	assert.Len(t, board[domain.TaskActive], 2)
	assert.Empty(t, board[domain.TaskComplete])
}

func TestOnDayAndTelemedicine(t *testing.T) {
	appts := repository.DemoAppointments()
	day := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"1", "2"}, apptIDs(OnDay(appts, day)))
	assert.Empty(t, OnDay(appts, day.AddDate(0, 0, 1)))

	tele := Telemedicine(append(appts, appt("3", now, domain.AppointmentScheduled, "telemedicine")))
	assert.Equal(t, []string{"2", "3"}, apptIDs(tele))
}

func TestSortedByDateDoesNotMutateInput(t *testing.T) {
	appts := []domain.Appointment{appt("b", now.Add(time.Hour), "", ""), appt("a", now, "", "")}
	sorted := SortedByDate(appts)
	assert.Equal(t, []string{"a", "b"}, apptIDs(sorted))
	assert.Equal(t, "b", appts[0].ID)
}

func TestSearchPatients(t *testing.T) {
	patients := repository.DemoPatients()
	assert.Len(t, SearchPatients(patients, ""), 2)
	got := SearchPatients(patients, "GARCIA")
	require.Len(t, got, 1)
	assert.Equal(t, "Maria Garcia", got[0].Name)
	assert.Len(t, SearchPatients(patients, "john.smith@"), 1)
	assert.Empty(t, SearchPatients(patients, "zzz"))
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(repository.DemoTasks(), repository.DemoPatients(), repository.DemoAppointments(), time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, 3, d.Tasks.Total)
	assert.Equal(t, 2, d.Patients)
	assert.Equal(t, 2, d.Appointments.Today)
	assert.Equal(t, 1, d.Appointments.Upcoming)
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, "2", d.Upcoming[0].ID)
	require.Len(t, d.OpenTasks, 2)
	assert.Equal(t, "2", d.OpenTasks[0].ID, "medication inventory is due first")
}
