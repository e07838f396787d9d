package project

import (
	"context"

	"fieldflow/bizerror"
	"fieldflow/event"
	"fieldflow/idgen"
	"fieldflow/persistence"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	projectIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateProjectFunc       = CreateProject
	QueryProjectsFunc       = QueryProjects
	DetailProjectFunc       = DetailProject
	UpdateProjectActiveFunc = UpdateProjectActive
	LoadProjectsFunc        = LoadProjects
)

func CreateProject(c *ProjectCreation, s *session.Session) (*Project, error) {
	if !s.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}

	record := Project{
		ID:          idgen.NextID(projectIdWorker),
		Identifier:  c.Identifier,
		ProjectName: c.ProjectName,

		Status: StatusNotStarted,

		CreatedBy:      s.DisplayName(),
		ContractorName: c.ContractorName,
		WorkerName:     c.WorkerName,

		ProjectStartDate: c.ProjectStartDate,
		CreateTime:       types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, record.ID, record.Identifier,
			event.EventCategoryCreated, nil, &s.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &record, nil
}

// QueryProjects lists projects with optional name/status filters. Workers and
// contractors are always pinned to their own records; admins may filter freely.
func QueryProjects(q ProjectQuery, s *session.Session) ([]Project, error) {
	if s.IsContractor() {
		q.ContractorName = s.DisplayName()
	} else if s.IsWorker() {
		q.WorkerName = s.DisplayName()
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	query := db.Model(&Project{})
	if q.ContractorName != "" {
		query = query.Where("contractor_name = ?", q.ContractorName)
	}
	if q.CreatedBy != "" {
		query = query.Where("created_by = ?", q.CreatedBy)
	}
	if q.WorkerName != "" {
		query = query.Where("worker_name = ?", q.WorkerName)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	projects := []Project{}
	if err := query.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// LoadProjects pages through all records without role scoping; used by the
// search index synchronizer.
func LoadProjects(page, pageSize int) ([]Project, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	records := []Project{}
	if err := db.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func DetailProject(identifier string, s *session.Session) (*Project, error) {
	id, _ := types.ParseID(identifier)
	record := Project{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where("id = ? OR project_identifier = ?", id, identifier).First(&record).Error; err != nil {
		return nil, err
	}

	if s.IsContractor() && record.ContractorName != s.DisplayName() {
		return nil, bizerror.ErrForbidden
	}
	if s.IsWorker() && record.WorkerName != s.DisplayName() {
		return nil, bizerror.ErrForbidden
	}
	return &record, nil
}

func UpdateProjectActive(id types.ID, u *ProjectActiveUpdating, s *session.Session) (*Project, error) {
	if u.ProjectStatus != "" && !s.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	if u.ProjectStatus != "" && u.ProjectStatus != ProjectApproved && u.ProjectStatus != ProjectRejected {
		return nil, bizerror.ErrUnknownState
	}
	if u.CompletionPercentage != nil && (*u.CompletionPercentage < 0 || *u.CompletionPercentage > 100) {
		return nil, &bizerror.ErrBadParam{}
	}

	var record Project
	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		record = Project{}
		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			return err
		}
		if !s.IsAdmin() && record.ContractorName != s.DisplayName() {
			return bizerror.ErrForbidden
		}

		changes := map[string]interface{}{}
		updatedProperties := []event.UpdatedProperty{}

		if u.Status != record.Status {
			if _, found := LifecycleMachine.FindState(u.Status); !found {
				return bizerror.ErrUnknownState
			}
			if len(LifecycleMachine.AvailableTransitions(record.Status, u.Status)) != 1 {
				return bizerror.ErrInvalidStateTransition
			}
			changes["status"] = u.Status
			updatedProperties = append(updatedProperties, event.UpdatedProperty{
				PropertyName: "status", OldValue: record.Status, NewValue: u.Status})
		}
		if u.ProjectEndDate != "" {
			changes["project_end_date"] = u.ProjectEndDate
		}
		if u.ReasonOnHold != "" {
			changes["reason_on_hold"] = u.ReasonOnHold
		}
		if u.ProjectStatus != "" && u.ProjectStatus != record.ProjectStatus {
			changes["project_status"] = u.ProjectStatus
			updatedProperties = append(updatedProperties, event.UpdatedProperty{
				PropertyName: "project_status", OldValue: record.ProjectStatus, NewValue: u.ProjectStatus})
		}
		if u.CompletionPercentage != nil {
			changes["completion_percentage"] = *u.CompletionPercentage
		}

		if len(changes) == 0 {
			return nil
		}

		query := tx.Model(&Project{}).Where(&Project{ID: record.ID, Status: record.Status}).Update(changes)
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrInvalidStateTransition
		}

		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeProject, record.ID, record.Identifier,
			event.EventCategoryPropertyUpdated, updatedProperties, &s.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &record, nil
}
