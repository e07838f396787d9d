package complaint

import (
	"fieldflow/bizerror"
	"fieldflow/event"
	"fieldflow/idgen"
	"fieldflow/persistence"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const StatusOpen = "Open"

var (
	complaintIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateComplaintFunc         = CreateComplaint
	QueryComplaintsByWorkerFunc = QueryComplaintsByWorker
)

type Complaint struct {
	ID types.ID `json:"id"`

	Identifier        string `json:"complaint_Id" gorm:"column:complaint_identifier;unique_index:uni_complaint_identifier"`
	ProjectIdentifier string `json:"project_Id" gorm:"column:project_identifier"`
	WorkerName        string `json:"worker_name"`

	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ComplaintCreation struct {
	ProjectIdentifier string `json:"project_Id" binding:"required"`
	Subject           string `json:"subject" binding:"required"`
	Description       string `json:"description" binding:"required"`
}

func CreateComplaint(c *ComplaintCreation, s *session.Session) (*Complaint, error) {
	if !s.IsWorker() {
		return nil, bizerror.ErrForbidden
	}

	id := idgen.NextID(complaintIdWorker)
	record := Complaint{
		ID:                id,
		Identifier:        "C" + id.String(),
		ProjectIdentifier: c.ProjectIdentifier,
		WorkerName:        s.DisplayName(),
		Subject:           c.Subject,
		Description:       c.Description,
		Status:            StatusOpen,
		CreateTime:        types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeComplaint, record.ID, record.Identifier,
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

func QueryComplaintsByWorker(workerName string, s *session.Session) ([]Complaint, error) {
	if s.IsWorker() {
		workerName = s.DisplayName()
	}

	records := []Complaint{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&Complaint{WorkerName: workerName}).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
