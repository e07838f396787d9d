package funds

import (
	"errors"
	"strconv"

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
	fundIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	AllocateAmountFunc   = AllocateAmount
	GetFundByProjectFunc = GetFundByProject
)

// Fund is the single allocated-funds record of a project. Updates overwrite,
// no history is kept.
type Fund struct {
	ID types.ID `json:"id"`

	ProjectIdentifier string  `json:"project_Id" gorm:"column:project_identifier;unique_index:uni_fund_project"`
	AmountAllocated   float64 `json:"new_amount_allocated" gorm:"column:amount_allocated"`

	AllocatedBy string          `json:"allocated_by"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	UpdateTime  types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

type FundAllocation struct {
	ProjectIdentifier string `json:"project_Id" binding:"required"`

	// kept as a string on the wire: the source forms submit free text and a
	// non-numeric value must be rejected before any write happens
	AmountAllocated string `json:"amount_allocated" binding:"required"`
}

// AllocateAmount creates the fund record on first call and overwrites the
// amount on later ones; the allocate/update distinction is cosmetic.
func AllocateAmount(a *FundAllocation, s *session.Session) (*Fund, error) {
	if !s.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	amount, err := strconv.ParseFloat(a.AmountAllocated, 64)
	if err != nil {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("amount_allocated is not numeric: '" + a.AmountAllocated + "'")}
	}

	var record Fund
	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err = db.Transaction(func(tx *gorm.DB) error {
		now := types.CurrentTimestamp()
		record = Fund{}
		err := tx.Where(&Fund{ProjectIdentifier: a.ProjectIdentifier}).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = Fund{ID: idgen.NextID(fundIdWorker), ProjectIdentifier: a.ProjectIdentifier,
				AmountAllocated: amount, AllocatedBy: s.DisplayName(), CreateTime: now, UpdateTime: now}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			ev, err = event.CreateEvent(event.SourceTypeFund, record.ID, record.ProjectIdentifier,
				event.EventCategoryCreated, nil, &s.Identity, tx)
			return err
		}
		if err != nil {
			return err
		}

		old := record.AmountAllocated
		updates := map[string]interface{}{"amount_allocated": amount, "allocated_by": s.DisplayName(), "update_time": now}
		if err := tx.Model(&Fund{}).Where("id = ?", record.ID).Update(updates).Error; err != nil {
			return err
		}
		record.AmountAllocated = amount
		record.AllocatedBy = s.DisplayName()
		record.UpdateTime = now

		ev, err = event.CreateEvent(event.SourceTypeFund, record.ID, record.ProjectIdentifier,
			event.EventCategoryPropertyUpdated, []event.UpdatedProperty{{
				PropertyName: "amount_allocated",
				OldValue:     strconv.FormatFloat(old, 'f', -1, 64),
				NewValue:     strconv.FormatFloat(amount, 'f', -1, 64)}},
			&s.Identity, tx)
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

func GetFundByProject(projectIdentifier string, s *session.Session) (*Fund, error) {
	record := Fund{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&Fund{ProjectIdentifier: projectIdentifier}).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
