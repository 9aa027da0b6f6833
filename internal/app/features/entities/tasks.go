// internal/app/features/entities/tasks.go
package entities

import (
	"context"
	"net/url"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type taskInput struct {
	Title       string `validate:"required,max=100" label:"Title"`
	Description string `validate:"max=500" label:"Description"`
	Location    string `validate:"max=100" label:"Location"`
	Status      string `validate:"required,oneof=Planned|Active|Completed" label:"Status"`
	Priority    string `validate:"required,oneof=Low|Medium|High|Critical" label:"Priority"`
}

const msgEndBeforeStart = "End date must not be before the start date."

// Tasks describes relief tasks.
func Tasks() *Kind[models.ReliefTask] {
	return &Kind[models.ReliefTask]{
		Key:       "task",
		Singular:  "Relief task",
		Plural:    "Relief tasks",
		Base:      "/tasks",
		Coll:      models.CollReliefTasks,
		SortField: "start_date",
		SortDesc:  true,
		Fields: []Field{
			{Name: "title", Label: "Title", Type: TypeText, Required: true},
			{Name: "description", Label: "Description", Type: TypeTextarea},
			{Name: "disaster_report_id", Label: "Disaster report", Type: TypeSelect, Choices: reportChoices},
			{Name: "volunteer_id", Label: "Volunteer", Type: TypeSelect, Choices: volunteerChoices},
			{Name: "location", Label: "Location", Type: TypeText},
			{Name: "start_date", Label: "Start date", Type: TypeDate},
			{Name: "end_date", Label: "End date", Type: TypeDate},
			{Name: "status", Label: "Status", Type: TypeSelect, Required: true,
				Options: []string{models.TaskPlanned, models.TaskActive, models.TaskCompleted}},
			{Name: "priority", Label: "Priority", Type: TypeSelect, Required: true,
				Options: []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical}},
		},
		Columns:     []string{"title", "location", "start_date", "end_date", "status", "priority"},
		DeleteRoles: authz.AdminOnly,

		Blank: func(now time.Time) models.ReliefTask {
			start := startOfDay(now)
			return models.ReliefTask{
				StartDate: start,
				EndDate:   start.Add(models.DefaultTaskSpan),
				Status:    models.TaskPlanned,
				Priority:  models.PriorityMedium,
			}
		},
		Decode: decodeTask,
		Encode: func(rec models.ReliefTask) map[string]string {
			return map[string]string{
				"title":              rec.Title,
				"description":        rec.Description,
				"disaster_report_id": fmtRef(rec.DisasterReportID),
				"volunteer_id":       fmtRef(rec.VolunteerID),
				"location":           rec.Location,
				"start_date":         fmtDate(rec.StartDate),
				"end_date":           fmtDate(rec.EndDate),
				"status":             rec.Status,
				"priority":           rec.Priority,
			}
		},
		ID:    func(rec models.ReliefTask) primitive.ObjectID { return rec.ID },
		Label: func(rec models.ReliefTask) string { return rec.Title },
		Check: checkTask,
	}
}

func decodeTask(f url.Values, now time.Time) (models.ReliefTask, string) {
	fr := newFormReader(f)
	in := taskInput{
		Title:       fr.text("title"),
		Description: fr.text("description"),
		Location:    fr.text("location"),
		Status:      fr.text("status"),
		Priority:    fr.text("priority"),
	}
	if in.Status == "" {
		in.Status = models.TaskPlanned
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	reportID := fr.ref("disaster_report_id", "Disaster report")
	volunteerID := fr.ref("volunteer_id", "Volunteer")
	start := fr.date("start_date", "Start date", startOfDay(now))
	end := fr.date("end_date", "End date", start.Add(models.DefaultTaskSpan))
	if fr.msg != "" {
		return models.ReliefTask{}, fr.msg
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.ReliefTask{}, res.First()
	}
	if end.Before(start) {
		return models.ReliefTask{}, msgEndBeforeStart
	}

	return models.ReliefTask{
		Title:            in.Title,
		Description:      in.Description,
		DisasterReportID: reportID,
		VolunteerID:      volunteerID,
		Location:         in.Location,
		StartDate:        start,
		EndDate:          end,
		Status:           in.Status,
		Priority:         in.Priority,
	}, ""
}

// checkTask confirms optional references point at existing records.
func checkTask(ctx context.Context, recs records.Store, rec *models.ReliefTask) (string, error) {
	if rec.DisasterReportID != nil {
		ok, err := reportExists(ctx, recs, *rec.DisasterReportID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "Selected disaster report does not exist.", nil
		}
	}
	if rec.VolunteerID != nil {
		_, ok, err := findVolunteer(ctx, recs, *rec.VolunteerID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "Selected volunteer does not exist.", nil
		}
	}
	return "", nil
}
