package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// GenerateSlip expands a computed detail into a named-component payslip. The
// slip snapshots the detail's figures, so later recalculations never rewrite
// an issued slip. One slip per detail.
func (s *Service) GenerateSlip(ctx context.Context, detailID int64, period, remarks string) (*Slip, error) {
	detail, err := s.store.GetDetail(ctx, detailID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.store.GetSlipByDetail(ctx, detailID); err != nil && !errors.Is(err, ErrSlipNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrSlipExists
	}
	run, err := s.store.GetRun(ctx, detail.RunID)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = fmt.Sprintf("%s to %s",
			run.StartDate.Format("2006-01-02"), run.EndDate.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	slip := &Slip{
		DetailID:        detailID,
		EmployeeID:      detail.EmployeeID,
		SlipNumber:      fmt.Sprintf("SS-%d-%d-%s", run.ID, detail.EmployeeID, now.Format("20060102")),
		Period:          period,
		GrossSalary:     detail.GrossSalary,
		TotalDeductions: detail.TotalDeductions,
		IncomeTax:       detail.TotalTax,
		NetPayable:      detail.NetSalary,
		Status:          SlipStatusGenerated,
		Remarks:         remarks,
		Components:      s.slipComponents(ctx, detail),
	}
	slip.Touch(now)

	id, err := s.store.CreateSlip(ctx, slip)
	if err != nil {
		return nil, err
	}
	slip.ID = id
	return slip, nil
}

// slipComponents prices each active structure component against the detail's
// gross, prorated by the detail's recorded day counts. An employee without an
// assignment anymore still gets a slip, just without the line items.
func (s *Service) slipComponents(ctx context.Context, detail *Detail) []SlipComponent {
	assignment, err := s.store.ActiveAssignment(ctx, detail.EmployeeID)
	if err != nil || assignment == nil {
		return nil
	}
	structure, err := s.store.GetStructure(ctx, assignment.SalaryStructureID)
	if err != nil {
		return nil
	}

	var out []SlipComponent
	order := 1
	for _, c := range orderedComponents(structure, ComponentTypeEarning, ComponentTypeDeduction, ComponentTypeTax) {
		amount := Prorate(componentValue(c, detail.GrossSalary), detail.DaysWorked, detail.WorkingDays)
		out = append(out, SlipComponent{
			Name:         c.Name,
			Type:         c.Type,
			Amount:       amount,
			DisplayOrder: order,
		})
		order++
	}
	return out
}

func (s *Service) GetSlip(ctx context.Context, id int64) (*Slip, error) {
	return s.store.GetSlip(ctx, id)
}

func (s *Service) ListSlips(ctx context.Context, employeeID int64, limit, offset int) ([]Slip, int, error) {
	return s.store.ListSlips(ctx, employeeID, limit, offset)
}

// ApproveSlip moves Generated to Approved.
func (s *Service) ApproveSlip(ctx context.Context, id int64) error {
	return s.transitionSlip(ctx, id, SlipStatusGenerated, SlipStatusApproved, nil)
}

// SendSlip moves Approved to Sent.
func (s *Service) SendSlip(ctx context.Context, id int64) error {
	return s.transitionSlip(ctx, id, SlipStatusApproved, SlipStatusSent, nil)
}

// MarkSlipPaid moves Sent to Paid and stamps the credit date.
func (s *Service) MarkSlipPaid(ctx context.Context, id int64, creditedDate time.Time) error {
	return s.transitionSlip(ctx, id, SlipStatusSent, SlipStatusPaid, &creditedDate)
}

func (s *Service) transitionSlip(ctx context.Context, id int64, from, to string, creditedDate *time.Time) error {
	slip, err := s.store.GetSlip(ctx, id)
	if err != nil {
		return err
	}
	if slip.Status != from {
		return &StateError{Entity: "salary slip", ID: slip.ID, Status: slip.Status, Want: from}
	}
	slip.Status = to
	if creditedDate != nil {
		slip.SalaryCreditedDate = creditedDate
	}
	slip.Touch(time.Now().UTC())

	swapped, err := s.store.TransitionSlip(ctx, slip, from)
	if err != nil {
		return err
	}
	if !swapped {
		return &StateError{Entity: "salary slip", ID: slip.ID, Status: to, Want: from}
	}
	return nil
}

// SlipPDF renders the payslip as a one-page A4 document.
func (s *Service) SlipPDF(ctx context.Context, id int64) ([]byte, error) {
	slip, err := s.store.GetSlip(ctx, id)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary Slip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Slip Number: %s", slip.SlipNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %d", slip.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", slip.Period))
	pdf.Ln(10)

	if len(slip.Components) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(100, 8, "Component")
		pdf.Cell(40, 8, "Type")
		pdf.Cell(40, 8, "Amount")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		for _, c := range slip.Components {
			pdf.Cell(100, 8, c.Name)
			pdf.Cell(40, 8, c.Type)
			pdf.Cell(40, 8, c.Amount.StringFixed(2))
			pdf.Ln(7)
		}
		pdf.Ln(5)
	}

	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s", slip.GrossSalary.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %s", slip.TotalDeductions.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Income Tax: %s", slip.IncomeTax.StringFixed(2)))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net Payable: %s", slip.NetPayable.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
