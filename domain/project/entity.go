package project

import (
	"fieldflow/domain/state"

	"github.com/fundwit/go-commons/types"
)

// lifecycle states, distinct from the payment approval fields
const (
	StatusNotStarted = "Not-started"
	StatusInProgress = "In-Progress"
	StatusOnHold     = "On-Hold"
	StatusCompleted  = "Completed"
)

// project_status values gating the payment workflow
const (
	ProjectApproved = "Approved"
	ProjectRejected = "Rejected"
)

// PaymentApproved is the only non-empty value of the two payment status
// fields; the pair never moves back to empty once set.
const PaymentApproved = "Approved"

var (
	stateNotStarted = state.State{Name: StatusNotStarted, Category: state.InBacklog}
	stateInProgress = state.State{Name: StatusInProgress, Category: state.InProcess}
	stateOnHold     = state.State{Name: StatusOnHold, Category: state.InProcess}
	stateCompleted  = state.State{Name: StatusCompleted, Category: state.Done}

	// LifecycleMachine drives update-project-active; any other ordering
	// is rejected.
	LifecycleMachine = state.NewStateMachine(
		[]state.State{stateNotStarted, stateInProgress, stateOnHold, stateCompleted},
		[]state.Transition{
			{Name: "begin", From: stateNotStarted, To: stateInProgress},
			{Name: "hold", From: stateInProgress, To: stateOnHold},
			{Name: "resume", From: stateOnHold, To: stateInProgress},
			{Name: "finish", From: stateInProgress, To: stateCompleted},
		})
)

type Project struct {
	ID types.ID `json:"id"`

	Identifier  string `json:"project_Id" gorm:"column:project_identifier;unique_index:uni_project_identifier"`
	ProjectName string `json:"project_name"`

	Status               string `json:"status"`
	ProjectStatus        string `json:"project_status"`
	CompletionPercentage int    `json:"completion_percentage"`

	CreatedBy      string `json:"created_by"`
	ContractorName string `json:"contractor_name"`
	WorkerName     string `json:"worker_name"`

	ProjectStartDate string `json:"project_start_date"`
	ProjectEndDate   string `json:"project_end_date"`
	ReasonOnHold     string `json:"reason_on_hold"`

	FirstLevelPaymentApprover string `json:"first_level_payment_approver"`
	FirstLevelPaymentStatus   string `json:"first_level_payment_status"`

	SecondLevelPaymentApprover string `json:"second_level_payment_approver"`
	SecondLevelPaymentStatus   string `json:"second_level_payment_status"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ProjectCreation struct {
	Identifier  string `json:"project_Id" binding:"required"`
	ProjectName string `json:"project_name" binding:"required"`

	ContractorName   string `json:"contractor_name" binding:"required"`
	WorkerName       string `json:"worker_name"`
	ProjectStartDate string `json:"project_start_date"`
}

type ProjectQuery struct {
	ContractorName string `form:"contractor_name"`
	CreatedBy      string `form:"created_by"`
	WorkerName     string `form:"worker_name"`
	Status         string `form:"status"`
}

type ProjectActiveUpdating struct {
	Status         string `json:"status" binding:"required"`
	ProjectEndDate string `json:"project_end_date"`
	ReasonOnHold   string `json:"reason_on_hold"`

	// gate for the payment workflow; honored for admins only
	ProjectStatus        string `json:"project_status"`
	CompletionPercentage *int   `json:"completion_percentage"`
}

// IsPayable is the precondition every payment action checks.
func (p *Project) IsPayable() bool {
	return p.Status == StatusCompleted && p.ProjectStatus == ProjectApproved
}
