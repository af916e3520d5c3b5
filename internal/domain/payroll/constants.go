package payroll

const (
	ComponentTypeEarning   = "Earning"
	ComponentTypeDeduction = "Deduction"
	ComponentTypeTax       = "Tax"

	RunStatusDraft     = "Draft"
	RunStatusProcessed = "Processed"
	RunStatusPaid      = "Paid"
	RunStatusCancelled = "Cancelled"

	DetailStatusDraft    = "Draft"
	DetailStatusApproved = "Approved"

	SlipStatusGenerated = "Generated"
	SlipStatusApproved  = "Approved"
	SlipStatusSent      = "Sent"
	SlipStatusPaid      = "Paid"

	// Fixed monthly basis for scaling percentage-based leave deductions.
	leaveDaysPerMonth = 30
)
