package input

import (
	"it_inventory/lifecycle"
	"it_inventory/models"

	"github.com/shopspring/decimal"
)

type DisposalRequest struct {
	InventoryID       *string          `json:"inventoryId"`
	DisposalDate      *string          `json:"disposalDate"`
	DisposalMethod    *string          `json:"disposalMethod"`
	Reason            *string          `json:"reason"`
	SalePrice         *decimal.Decimal `json:"salePrice"`
	RecipientName     *string          `json:"recipientName"`
	RecipientContact  *string          `json:"recipientContact"`
	CertificateNumber *string          `json:"certificateNumber"`
	Notes             *string          `json:"notes"`
}

func salePrice(p *problems, v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	if v.IsNegative() {
		p.add("salePrice cannot be negative")
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v.Round(2))
}

// Disposal validates a new disposal request. Fields that do not apply to the
// method are dropped later by lifecycle.NewDisposal.
func Disposal(req DisposalRequest, actor string) (lifecycle.DisposalCommand, error) {
	var p problems
	cmd := lifecycle.DisposalCommand{
		InventoryID:       p.required("inventoryId", req.InventoryID),
		DisposalDate:      p.requiredDate("disposalDate", req.DisposalDate),
		Reason:            p.required("reason", req.Reason),
		SalePrice:         salePrice(&p, req.SalePrice),
		RecipientName:     Optional(req.RecipientName),
		RecipientContact:  Optional(req.RecipientContact),
		CertificateNumber: Optional(req.CertificateNumber),
		Notes:             Optional(req.Notes),
		RequestedBy:       actor,
	}
	if m := enum(&p, "disposalMethod", req.DisposalMethod, models.DisposalMethods); m != nil {
		cmd.Method = *m
	} else if Optional(req.DisposalMethod) == nil {
		p.add("disposalMethod is required")
	}
	return cmd, p.err()
}

// DisposalUpdate builds a patch from the fields present in req.
func DisposalUpdate(req DisposalRequest) (lifecycle.DisposalPatch, error) {
	var p problems
	var patch lifecycle.DisposalPatch
	if set(req.DisposalDate) {
		d := p.requiredDate("disposalDate", req.DisposalDate)
		patch.DisposalDate = &d
	}
	if set(req.DisposalMethod) {
		if m := enum(&p, "disposalMethod", req.DisposalMethod, models.DisposalMethods); m != nil {
			patch.Method = m
		} else if Optional(req.DisposalMethod) == nil {
			p.add("disposalMethod is required")
		}
	}
	if set(req.Reason) {
		r := p.required("reason", req.Reason)
		patch.Reason = &r
	}
	if req.SalePrice != nil {
		sp := salePrice(&p, req.SalePrice)
		patch.SalePrice = &sp
	}
	clearable := func(s *string) **string {
		if !set(s) {
			return nil
		}
		v := Optional(s)
		return &v
	}
	patch.RecipientName = clearable(req.RecipientName)
	patch.RecipientContact = clearable(req.RecipientContact)
	patch.CertificateNumber = clearable(req.CertificateNumber)
	patch.Notes = clearable(req.Notes)
	return patch, p.err()
}

type CompleteRequest struct {
	CertificateNumber *string `json:"certificateNumber"`
	Notes             *string `json:"notes"`
}

func Complete(disposalID string, req CompleteRequest, actor string) lifecycle.CompleteCommand {
	return lifecycle.CompleteCommand{
		DisposalID:        disposalID,
		CertificateNumber: Optional(req.CertificateNumber),
		Notes:             Optional(req.Notes),
		DisposedBy:        actor,
	}
}

type CancelRequest struct {
	Notes *string `json:"notes"`
}

func Cancel(disposalID string, req CancelRequest) lifecycle.CancelCommand {
	return lifecycle.CancelCommand{DisposalID: disposalID, Notes: Optional(req.Notes)}
}
