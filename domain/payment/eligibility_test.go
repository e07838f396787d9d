package payment_test

import (
	"testing"

	"fieldflow/domain/payment"
	"fieldflow/domain/project"

	. "github.com/onsi/gomega"
)

func TestApprovalStateOf(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should derive the approval state from the two status fields", func(t *testing.T) {
		Expect(payment.ApprovalStateOf(&project.Project{})).To(Equal(payment.StateUnapproved))
		Expect(payment.ApprovalStateOf(&project.Project{
			FirstLevelPaymentStatus: project.PaymentApproved})).To(Equal(payment.StateFirstApproved))
		Expect(payment.ApprovalStateOf(&project.Project{
			FirstLevelPaymentStatus:  project.PaymentApproved,
			SecondLevelPaymentStatus: project.PaymentApproved})).To(Equal(payment.StateFullyApproved))
	})
}

func TestEligibleForInitiatePayment(t *testing.T) {
	RegisterTestingT(t)

	base := project.Project{
		Identifier: "P0001", ProjectName: "demo",
		Status: project.StatusCompleted, ProjectStatus: project.ProjectApproved,
		CreatedBy:                 "Ada Admin",
		FirstLevelPaymentStatus:   project.PaymentApproved,
		FirstLevelPaymentApprover: "Ada Admin",
	}

	t.Run("should keep projects awaiting second level approval", func(t *testing.T) {
		Expect(payment.EligibleForInitiatePayment([]project.Project{base})).To(Equal([]project.Project{base}))
	})

	t.Run("should drop projects not completed or not approved", func(t *testing.T) {
		notCompleted := base
		notCompleted.Status = project.StatusInProgress
		notApproved := base
		notApproved.ProjectStatus = project.ProjectRejected
		Expect(payment.EligibleForInitiatePayment([]project.Project{notCompleted, notApproved})).To(BeEmpty())
	})

	t.Run("should drop projects without a first level approval", func(t *testing.T) {
		noStatus := base
		noStatus.FirstLevelPaymentStatus = ""
		noApprover := base
		noApprover.FirstLevelPaymentApprover = ""
		Expect(payment.EligibleForInitiatePayment([]project.Project{noStatus, noApprover})).To(BeEmpty())
	})

	t.Run("should drop projects whose first approver is not the creator", func(t *testing.T) {
		other := base
		other.FirstLevelPaymentApprover = "Bob Admin"
		Expect(payment.EligibleForInitiatePayment([]project.Project{other})).To(BeEmpty())
	})

	t.Run("should drop projects already fully approved", func(t *testing.T) {
		done := base
		done.SecondLevelPaymentStatus = project.PaymentApproved
		Expect(payment.EligibleForInitiatePayment([]project.Project{done})).To(BeEmpty())
	})

	t.Run("should preserve input order", func(t *testing.T) {
		second := base
		second.Identifier = "P0002"
		skipped := base
		skipped.Identifier = "P0003"
		skipped.SecondLevelPaymentStatus = project.PaymentApproved
		r := payment.EligibleForInitiatePayment([]project.Project{base, skipped, second})
		Expect(r).To(HaveLen(2))
		Expect(r[0].Identifier).To(Equal("P0001"))
		Expect(r[1].Identifier).To(Equal("P0002"))
	})
}
