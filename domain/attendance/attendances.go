package attendance

import (
	"errors"
	"time"

	"fieldflow/bizerror"
	"fieldflow/event"
	"fieldflow/idgen"
	"fieldflow/persistence"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// LogoutTimeOpen marks a record whose clock-out has not happened yet.
const LogoutTimeOpen = "--"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

var (
	attendanceIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	nowFunc = time.Now

	ClockInFunc         = ClockIn
	ClockOutFunc        = ClockOut
	QueryAttendanceFunc = QueryAttendance
)

// AttendanceRecord is the server-held attendance ledger. The source app kept
// these on-device only; holding them here survives reinstalls and second
// devices.
type AttendanceRecord struct {
	ID types.ID `json:"id"`

	ProjectIdentifier string `json:"project_Id" gorm:"column:project_identifier;unique_index:uni_attendance_day"`
	WorkerName        string `json:"worker_name" gorm:"unique_index:uni_attendance_day"`
	WorkDate          string `json:"work_date" gorm:"unique_index:uni_attendance_day"`

	LoginTime  string `json:"login_time"`
	LogoutTime string `json:"logout_time"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ClockRequest struct {
	ProjectIdentifier string `json:"project_Id" binding:"required"`
}

func ClockIn(r *ClockRequest, s *session.Session) (*AttendanceRecord, error) {
	if !s.IsWorker() {
		return nil, bizerror.ErrForbidden
	}

	now := nowFunc()
	record := AttendanceRecord{
		ID:                idgen.NextID(attendanceIdWorker),
		ProjectIdentifier: r.ProjectIdentifier,
		WorkerName:        s.DisplayName(),
		WorkDate:          now.Format(dateLayout),
		LoginTime:         now.Format(timeLayout),
		LogoutTime:        LogoutTimeOpen,
		CreateTime:        types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		existed := AttendanceRecord{}
		err := tx.Where(&AttendanceRecord{ProjectIdentifier: r.ProjectIdentifier,
			WorkerName: record.WorkerName, WorkDate: record.WorkDate}).First(&existed).Error
		if err == nil {
			return bizerror.ErrAlreadyClockedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		ev, err = event.CreateEvent(event.SourceTypeAttendance, record.ID, record.ProjectIdentifier,
			event.EventCategoryCreated, nil, &s.Identity, tx)
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

// ClockOut closes the most recent open record of the worker on the project.
func ClockOut(r *ClockRequest, s *session.Session) (*AttendanceRecord, error) {
	if !s.IsWorker() {
		return nil, bizerror.ErrForbidden
	}

	var record AttendanceRecord
	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		record = AttendanceRecord{}
		err := tx.Where(&AttendanceRecord{ProjectIdentifier: r.ProjectIdentifier,
			WorkerName: s.DisplayName(), LogoutTime: LogoutTimeOpen}).
			Order("work_date DESC").First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotClockedIn
		}
		if err != nil {
			return err
		}

		logoutTime := nowFunc().Format(timeLayout)
		query := tx.Model(&AttendanceRecord{}).
			Where(&AttendanceRecord{ID: record.ID, LogoutTime: LogoutTimeOpen}).
			Update("logout_time", logoutTime)
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrNotClockedIn
		}
		ev, err = event.CreateEvent(event.SourceTypeAttendance, record.ID, record.ProjectIdentifier,
			event.EventCategoryPropertyUpdated, []event.UpdatedProperty{
				{PropertyName: "logout_time", OldValue: record.LogoutTime, NewValue: logoutTime}},
			&s.Identity, tx)
		record.LogoutTime = logoutTime
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

func QueryAttendance(workerName string, s *session.Session) ([]AttendanceRecord, error) {
	if s.IsWorker() {
		workerName = s.DisplayName()
	}

	records := []AttendanceRecord{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&AttendanceRecord{WorkerName: workerName}).
		Order("work_date ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
