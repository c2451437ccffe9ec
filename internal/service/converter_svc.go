package service

import (
	"math"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/model"
)

// ==================== Customers ====================

func ToCustomerVO(c *model.Customer) dto.CustomerVO {
	vo := dto.CustomerVO{
		ID:          c.ID,
		ShopifyID:   c.ShopifyID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Phone:       c.Phone,
		OrdersCount: c.OrdersCount,
		TotalSpent:  c.GetTotalSpent(),
		Currency:    c.Currency,
		CreatedAt:   c.SourceCreatedAt(),
	}
	if len(c.Orders) > 0 {
		vo.Orders = make([]dto.OrderBriefVO, 0, len(c.Orders))
		for i := range c.Orders {
			vo.Orders = append(vo.Orders, ToOrderBriefVO(&c.Orders[i]))
		}
	}
	return vo
}

// ==================== Orders ====================

func ToOrderBriefVO(o *model.Order) dto.OrderBriefVO {
	return dto.OrderBriefVO{
		ID:                o.ID,
		ShopifyID:         o.ShopifyID,
		Name:              o.Name,
		Email:             o.Email,
		CustomerID:        o.CustomerID,
		TotalPrice:        o.GetTotalPrice(),
		SubtotalPrice:     o.GetSubtotalPrice(),
		TotalTax:          o.GetTotalTax(),
		TotalDiscounts:    o.GetTotalDiscounts(),
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		CreatedAt:         o.PlacedAt(),
	}
}

// ToOrderVO order with whatever associations were preloaded
func ToOrderVO(o *model.Order) dto.OrderVO {
	vo := dto.OrderVO{
		OrderBriefVO: ToOrderBriefVO(o),
		OrderItems:   make([]dto.OrderItemVO, 0, len(o.Items)),
	}
	if o.Customer != nil {
		c := ToCustomerVO(o.Customer)
		vo.Customer = &c
	}
	for i := range o.Items {
		vo.OrderItems = append(vo.OrderItems, ToOrderItemVO(&o.Items[i]))
	}
	return vo
}

func ToOrderVOs(orders []model.Order) []dto.OrderVO {
	out := make([]dto.OrderVO, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderVO(&orders[i]))
	}
	return out
}

func ToOrderItemVO(item *model.OrderItem) dto.OrderItemVO {
	vo := dto.OrderItemVO{
		ID:           item.ID,
		ProductID:    item.ProductID,
		VariantID:    item.VariantID,
		Title:        item.Title,
		VariantTitle: item.VariantTitle,
		SKU:          item.SKU,
		Quantity:     item.Quantity,
		Price:        item.GetPrice(),
		LinePrice:    item.GetLinePrice(),
	}
	if item.Product != nil {
		p := ToProductVO(item.Product)
		vo.Product = &p
	}
	return vo
}

// ==================== Products ====================

func ToProductVO(p *model.Product) dto.ProductVO {
	createdAt := p.CreatedAt
	if p.ShopifyCreatedAt != nil {
		createdAt = *p.ShopifyCreatedAt
	}
	return dto.ProductVO{
		ID:                 p.ID,
		ShopifyID:          p.ShopifyID,
		Title:              p.Title,
		Handle:             p.Handle,
		Vendor:             p.Vendor,
		ProductType:        p.ProductType,
		Status:             p.Status,
		Price:              p.GetPrice(),
		InventoryQuantity:  p.InventoryQuantity,
		InventoryPolicy:    p.InventoryPolicy,
		FulfillmentService: p.FulfillmentService,
		CreatedAt:          createdAt,
	}
}

// ==================== Store data ====================

func ToAbandonedCartVO(a *model.AbandonedCart) dto.AbandonedCartVO {
	return dto.AbandonedCartVO{
		ID:                   a.ID,
		CheckoutID:           a.CheckoutID,
		Email:                a.Email,
		TotalPrice:           a.GetTotalPrice(),
		SubtotalPrice:        a.GetSubtotalPrice(),
		Currency:             a.Currency,
		AbandonedCheckoutURL: a.AbandonedCheckoutURL,
		CreatedAt:            a.AbandonedAt(),
	}
}

func ToStoreEventVO(e *model.StoreEvent) dto.StoreEventVO {
	return dto.StoreEventVO{
		ID:          e.ID,
		EventID:     e.EventID,
		EventType:   e.EventType,
		Verb:        e.Verb,
		SubjectID:   e.SubjectID,
		Description: e.Description,
		CreatedAt:   e.OccurredAt(),
	}
}

// ==================== Accounts ====================

func ToTenantInfo(t *model.Tenant) dto.TenantInfo {
	if t == nil {
		return dto.TenantInfo{}
	}
	return dto.TenantInfo{ID: t.ID, Name: t.Name, Domain: t.Domain}
}

func ToUserProfile(u *model.User) dto.UserProfile {
	return dto.UserProfile{ID: u.ID, Email: u.Email}
}

// ==================== Numbers ====================

func centsToFloat(amount int64) float64 {
	return float64(amount) / 100
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
