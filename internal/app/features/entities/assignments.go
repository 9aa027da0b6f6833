// internal/app/features/entities/assignments.go
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

type assignmentInput struct {
	TaskName         string              `validate:"required,max=100" label:"Task name"`
	Description      string              `validate:"max=500" label:"Description"`
	VolunteerID      *primitive.ObjectID `validate:"required" label:"Volunteer"`
	VolunteerName    string              `validate:"max=100" label:"Volunteer name"`
	DisasterReportID *primitive.ObjectID `validate:"required" label:"Disaster report"`
	Location         string              `validate:"required,max=100" label:"Location"`
	StartDate        time.Time           `validate:"required" label:"Start date"`
	Status           string              `validate:"required,oneof=Assigned|In Progress|Completed" label:"Status"`
}

// Assignments describes task assignments. Coordinators (the Volunteer role)
// manage them alongside admins.
func Assignments() *Kind[models.TaskAssignment] {
	return &Kind[models.TaskAssignment]{
		Key:       "assignment",
		Singular:  "Task assignment",
		Plural:    "Task assignments",
		Base:      "/assignments",
		Coll:      models.CollTaskAssignments,
		SortField: "start_date",
		SortDesc:  true,
		Fields: []Field{
			{Name: "task_name", Label: "Task name", Type: TypeText, Required: true},
			{Name: "description", Label: "Description", Type: TypeTextarea},
			{Name: "volunteer_id", Label: "Volunteer", Type: TypeSelect, Required: true, Choices: volunteerChoices},
			{Name: "volunteer_name", Label: "Volunteer name", Type: TypeText},
			{Name: "disaster_report_id", Label: "Disaster report", Type: TypeSelect, Required: true, Choices: reportChoices},
			{Name: "location", Label: "Location", Type: TypeText, Required: true},
			{Name: "start_date", Label: "Start date", Type: TypeDate, Required: true},
			{Name: "end_date", Label: "End date", Type: TypeDate},
			{Name: "status", Label: "Status", Type: TypeSelect, Required: true,
				Options: []string{models.AssignmentAssigned, models.AssignmentInProgress, models.AssignmentCompleted}},
		},
		Columns:     []string{"task_name", "volunteer_name", "location", "start_date", "status"},
		DeleteRoles: authz.VolunteerStaff,

		Blank: func(now time.Time) models.TaskAssignment {
			start := startOfDay(now)
			return models.TaskAssignment{
				StartDate: start,
				EndDate:   start.Add(models.DefaultTaskSpan),
				Status:    models.AssignmentAssigned,
			}
		},
		Decode: decodeAssignment,
		Encode: func(rec models.TaskAssignment) map[string]string {
			return map[string]string{
				"task_name":          rec.TaskName,
				"description":        rec.Description,
				"volunteer_id":       fmtRef(&rec.VolunteerID),
				"volunteer_name":     rec.VolunteerName,
				"disaster_report_id": fmtRef(&rec.DisasterReportID),
				"location":           rec.Location,
				"start_date":         fmtDate(rec.StartDate),
				"end_date":           fmtDate(rec.EndDate),
				"status":             rec.Status,
			}
		},
		ID:    func(rec models.TaskAssignment) primitive.ObjectID { return rec.ID },
		Label: func(rec models.TaskAssignment) string { return rec.TaskName },
		Check: checkAssignment,
	}
}

func decodeAssignment(f url.Values, _ time.Time) (models.TaskAssignment, string) {
	fr := newFormReader(f)
	in := assignmentInput{
		TaskName:         fr.text("task_name"),
		Description:      fr.text("description"),
		VolunteerID:      fr.ref("volunteer_id", "Volunteer"),
		VolunteerName:    fr.text("volunteer_name"),
		DisasterReportID: fr.ref("disaster_report_id", "Disaster report"),
		Location:         fr.text("location"),
		StartDate:        fr.date("start_date", "Start date", time.Time{}),
		Status:           fr.text("status"),
	}
	end := fr.date("end_date", "End date", time.Time{})
	if fr.msg != "" {
		return models.TaskAssignment{}, fr.msg
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.TaskAssignment{}, res.First()
	}
	if end.IsZero() {
		end = in.StartDate.Add(models.DefaultTaskSpan)
	}
	if end.Before(in.StartDate) {
		return models.TaskAssignment{}, msgEndBeforeStart
	}

	return models.TaskAssignment{
		TaskName:         in.TaskName,
		Description:      in.Description,
		VolunteerID:      *in.VolunteerID,
		VolunteerName:    in.VolunteerName,
		DisasterReportID: *in.DisasterReportID,
		Location:         in.Location,
		StartDate:        in.StartDate,
		EndDate:          end,
		Status:           in.Status,
	}, ""
}

// checkAssignment confirms both references exist and fills the volunteer's
// name when the form left it blank.
func checkAssignment(ctx context.Context, recs records.Store, rec *models.TaskAssignment) (string, error) {
	vol, ok, err := findVolunteer(ctx, recs, rec.VolunteerID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Selected volunteer does not exist.", nil
	}
	if rec.VolunteerName == "" {
		rec.VolunteerName = vol.FullName
	}

	ok, err = reportExists(ctx, recs, rec.DisasterReportID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Selected disaster report does not exist.", nil
	}
	return "", nil
}
