package payment

import (
	"errors"

	"fieldflow/bizerror"
	"fieldflow/domain/funds"
	"fieldflow/domain/project"
	"fieldflow/domain/state"
	"fieldflow/event"
	"fieldflow/persistence"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// approval states derived from the two payment status fields
const (
	StateUnapproved    = "Unapproved"
	StateFirstApproved = "FirstApproved"
	StateFullyApproved = "FullyApproved"
)

const (
	TransitionFirstLevelApprove    = "first-level-approve"
	TransitionFirstLevelReapprove  = "first-level-reapprove"
	TransitionSecondLevelApprove   = "second-level-approve"
	TransitionSecondLevelReapprove = "second-level-reapprove"
)

var (
	stateUnapproved    = state.State{Name: StateUnapproved, Category: state.InBacklog}
	stateFirstApproved = state.State{Name: StateFirstApproved, Category: state.InProcess}
	stateFullyApproved = state.State{Name: StateFullyApproved, Category: state.Done}

	// ApprovalMachine is the single authority over approval ordering. The
	// two-step lock is monotonic: re-approvals reattribute the approver
	// (last write wins) but no transition ever moves a status back.
	ApprovalMachine = state.NewStateMachine(
		[]state.State{stateUnapproved, stateFirstApproved, stateFullyApproved},
		[]state.Transition{
			{Name: TransitionFirstLevelApprove, From: stateUnapproved, To: stateFirstApproved, Role: session.RoleAdmin},
			{Name: TransitionFirstLevelReapprove, From: stateFirstApproved, To: stateFirstApproved, Role: session.RoleAdmin},
			{Name: TransitionSecondLevelApprove, From: stateFirstApproved, To: stateFullyApproved, Role: session.RoleContractor},
			{Name: TransitionSecondLevelReapprove, From: stateFullyApproved, To: stateFullyApproved, Role: session.RoleContractor},
		})
)

// ApprovalStateOf derives the workflow state from a project's status fields.
func ApprovalStateOf(p *project.Project) string {
	if p.SecondLevelPaymentStatus == project.PaymentApproved {
		return StateFullyApproved
	}
	if p.FirstLevelPaymentStatus == project.PaymentApproved {
		return StateFirstApproved
	}
	return StateUnapproved
}

// PaymentApproval is the body of PUT /update-project-status/:id. The level is
// taken from whichever status field the caller sets, matching what the
// per-method screens used to send.
type PaymentApproval struct {
	FirstLevelPaymentStatus  string `json:"first_level_payment_status"`
	SecondLevelPaymentStatus string `json:"second_level_payment_status"`

	PaymentMethod string       `json:"payment_method" binding:"required"`
	Detail        MethodDetail `json:"payment_detail"`
}

const (
	firstLevel  = 1
	secondLevel = 2
)

func (a *PaymentApproval) level() (int, error) {
	first := a.FirstLevelPaymentStatus == project.PaymentApproved
	second := a.SecondLevelPaymentStatus == project.PaymentApproved
	if first == second {
		return 0, &bizerror.ErrBadParam{Cause: errors.New("exactly one of first_level_payment_status and second_level_payment_status must be 'Approved'")}
	}
	if first {
		return firstLevel, nil
	}
	return secondLevel, nil
}

// ApprovalResult carries what the confirmation screen shows: the updated
// record, the approver and the allocated amount to prefill.
type ApprovalResult struct {
	Project         project.Project `json:"project"`
	Approver        string          `json:"approver"`
	AmountAllocated float64         `json:"amount_allocated"`
}

var (
	ApprovePaymentFunc        = ApprovePayment
	QueryEligibleProjectsFunc = QueryEligibleProjects
)

// ApprovePayment records a first- or second-level approval on the project
// identified by idOrIdentifier. Only the approver/status pair is persisted;
// validated method details are discarded.
func ApprovePayment(idOrIdentifier string, a *PaymentApproval, s *session.Session) (*ApprovalResult, error) {
	level, err := a.level()
	if err != nil {
		return nil, err
	}
	if err := ValidateMethodDetail(a.PaymentMethod, a.Detail); err != nil {
		return nil, err
	}
	if (level == firstLevel && !s.IsAdmin()) || (level == secondLevel && !s.IsContractor()) {
		return nil, bizerror.ErrForbidden
	}

	var record project.Project
	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err = db.Transaction(func(tx *gorm.DB) error {
		id, _ := types.ParseID(idOrIdentifier)
		record = project.Project{}
		if err := tx.Where("id = ? OR project_identifier = ?", id, idOrIdentifier).First(&record).Error; err != nil {
			return err
		}
		if !record.IsPayable() {
			return bizerror.ErrProjectNotPayable
		}

		from := ApprovalStateOf(&record)
		transitionName := transitionNameFor(level, from)
		if _, allowed := ApprovalMachine.Allowed(transitionName, from, s.Role); !allowed {
			return bizerror.ErrApprovalOutOfOrder
		}

		// the WHERE clause pins both status fields; a concurrent approval
		// makes RowsAffected 0 and the request is rejected, not lost
		guard := map[string]interface{}{
			"first_level_payment_status":  record.FirstLevelPaymentStatus,
			"second_level_payment_status": record.SecondLevelPaymentStatus,
		}
		changes := map[string]interface{}{}
		updatedProperties := []event.UpdatedProperty{}
		if level == firstLevel {
			changes["first_level_payment_approver"] = s.DisplayName()
			changes["first_level_payment_status"] = project.PaymentApproved
			updatedProperties = append(updatedProperties,
				event.UpdatedProperty{PropertyName: "first_level_payment_status",
					OldValue: record.FirstLevelPaymentStatus, NewValue: project.PaymentApproved},
				event.UpdatedProperty{PropertyName: "first_level_payment_approver",
					OldValue: record.FirstLevelPaymentApprover, NewValue: s.DisplayName()})
		} else {
			changes["second_level_payment_approver"] = s.DisplayName()
			changes["second_level_payment_status"] = project.PaymentApproved
			updatedProperties = append(updatedProperties,
				event.UpdatedProperty{PropertyName: "second_level_payment_status",
					OldValue: record.SecondLevelPaymentStatus, NewValue: project.PaymentApproved},
				event.UpdatedProperty{PropertyName: "second_level_payment_approver",
					OldValue: record.SecondLevelPaymentApprover, NewValue: s.DisplayName()})
		}

		query := tx.Model(&project.Project{}).Where("id = ?", record.ID).Where(guard).Update(changes)
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrApprovalConflict
		}

		if err := tx.Where("id = ?", record.ID).First(&record).Error; err != nil {
			return err
		}

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

	result := ApprovalResult{Project: record, Approver: s.DisplayName()}
	if fund, err := funds.GetFundByProjectFunc(record.Identifier, s); err == nil {
		result.AmountAllocated = fund.AmountAllocated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &result, nil
}

func transitionNameFor(level int, from string) string {
	if level == firstLevel {
		if from == StateFirstApproved {
			return TransitionFirstLevelReapprove
		}
		return TransitionFirstLevelApprove
	}
	if from == StateFullyApproved {
		return TransitionSecondLevelReapprove
	}
	return TransitionSecondLevelApprove
}

// EligibleForInitiatePayment filters a contractor's projects down to those
// awaiting second-level approval. Pure; order preserved. The approver ==
// created_by coupling is carried over from the original screens verbatim.
func EligibleForInitiatePayment(projects []project.Project) []project.Project {
	r := []project.Project{}
	for _, p := range projects {
		if p.Status != project.StatusCompleted || p.ProjectStatus != project.ProjectApproved {
			continue
		}
		if p.FirstLevelPaymentStatus != project.PaymentApproved || p.FirstLevelPaymentApprover == "" {
			continue
		}
		if p.FirstLevelPaymentApprover != p.CreatedBy {
			continue
		}
		if p.SecondLevelPaymentStatus == project.PaymentApproved {
			continue
		}
		r = append(r, p)
	}
	return r
}

func QueryEligibleProjects(contractorName string, s *session.Session) ([]project.Project, error) {
	records, err := project.QueryProjectsFunc(project.ProjectQuery{
		ContractorName: contractorName, Status: project.StatusCompleted}, s)
	if err != nil {
		return nil, err
	}
	return EligibleForInitiatePayment(records), nil
}
