package procurement

import (
	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Email:     s.Email,
		Phone:     s.Phone,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

func toLineItemResponses(items []entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toLineItemResponse(it))
	}
	return out
}

func toLineItemResponse(it entity.LineItem) dto.LineItemResponse {
	return dto.LineItemResponse{
		ItemID:    it.ItemID,
		Name:      it.Name,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		LineTotal: it.LineTotal,
	}
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	return &dto.PurchaseOrderResponse{
		ID:         po.ID,
		CompanyID:  po.CompanyID,
		SupplierID: po.SupplierID,
		Number:     po.Number,
		Status:     po.Status,
		Items:      toLineItemResponses(po.Items),
		Total:      po.Total,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}

func toGRNResponse(g *entity.GoodsReceivedNote) *dto.GRNResponse {
	if g == nil {
		return nil
	}
	items := make([]dto.ReceivedItemResponse, 0, len(g.Items))
	for _, it := range g.Items {
		items = append(items, dto.ReceivedItemResponse{
			LineItemResponse: toLineItemResponse(it.LineItem),
			ReceivedQuantity: it.ReceivedQuantity,
			DamagedQuantity:  it.DamagedQuantity,
			BatchNumber:      it.BatchNumber,
			ExpiryDate:       it.ExpiryDate,
			QualityStatus:    it.QualityStatus,
		})
	}
	return &dto.GRNResponse{
		ID:              g.ID,
		CompanyID:       g.CompanyID,
		PurchaseOrderID: g.PurchaseOrderID,
		Number:          g.Number,
		Items:           items,
		ReceivedAt:      g.ReceivedAt,
		ReceivedBy:      g.ReceivedBy,
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.SupplierInvoiceResponse {
	if inv == nil {
		return nil
	}
	return &dto.SupplierInvoiceResponse{
		ID:              inv.ID,
		CompanyID:       inv.CompanyID,
		SupplierID:      inv.SupplierID,
		Number:          inv.Number,
		PurchaseOrderID: inv.PurchaseOrderID,
		GRNID:           inv.GRNID,
		Items:           toLineItemResponses(inv.Items),
		Total:           inv.Total,
		InvoiceDate:     inv.InvoiceDate,
		Status:          inv.Status,
		CreatedAt:       inv.CreatedAt,
	}
}

func toMatchingResultResponse(r *entity.InvoiceMatchingResult, invoiceStatus string) *dto.MatchingResultResponse {
	if r == nil {
		return nil
	}
	return &dto.MatchingResultResponse{
		ID:                 r.ID,
		InvoiceID:          r.InvoiceID,
		PurchaseOrderID:    r.PurchaseOrderID,
		GRNIDs:             r.GRNIDs,
		Mode:               r.Mode,
		MatchStatus:        string(r.MatchStatus),
		OverallVariance:    r.OverallVariance,
		VariancePercentage: r.VariancePercentage,
		ItemsMatched:       r.ItemsMatched,
		ItemsMismatched:    r.ItemsMismatched,
		ItemsMissing:       r.ItemsMissing,
		ItemsAdditional:    r.ItemsAdditional,
		QuantityVariances:  r.QuantityVariances,
		PriceVariances:     r.PriceVariances,
		TotalVariances:     r.TotalVariances,
		Recommendations:    r.Recommendations,
		RequiresApproval:   r.RequiresApproval,
		ApprovalLevel:      string(r.ApprovalLevel),
		AuditTrail:         r.AuditTrail,
		MatchedAt:          r.MatchedAt,
		InvoiceStatus:      invoiceStatus,
	}
}

func toDisputeResponse(d *entity.Dispute) *dto.DisputeResponse {
	if d == nil {
		return nil
	}
	return &dto.DisputeResponse{
		ID:               d.ID,
		SupplierID:       d.SupplierID,
		PurchaseOrderID:  d.PurchaseOrderID,
		GRNID:            d.GRNID,
		InvoiceID:        d.InvoiceID,
		MatchingResultID: d.MatchingResultID,
		DisputeType:      d.DisputeType,
		DisputedAmount:   d.DisputedAmount,
		ClaimAmount:      d.ClaimAmount,
		Description:      d.Description,
		Status:           d.Status,
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
	}
}
