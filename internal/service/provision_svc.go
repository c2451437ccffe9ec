package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
)

// ==================== Demo dataset ====================

type demoProduct struct {
	id       string
	title    string
	vendor   string
	kind     string
	price    int64 // cents
	quantity int
}

type demoCustomer struct {
	id        string
	email     string
	firstName string
	lastName  string
	daysAgo   int
}

type demoLine struct {
	product  int // index into demoProducts
	quantity int
}

type demoOrder struct {
	id          string
	customer    int // index into demoCustomers, -1 for guest checkout
	daysAgo     int
	lines       []demoLine
	financial   string
	fulfillment string // empty while unfulfilled
}

var demoProducts = []demoProduct{
	{"demo-p-1001", "Classic Cotton Tee", "Xenofy Apparel", "Shirts", 79900, 42},
	{"demo-p-1002", "Denim Jacket", "Xenofy Apparel", "Outerwear", 349900, 8},
	{"demo-p-1003", "Canvas Sneakers", "Stride", "Footwear", 249900, 3},
	{"demo-p-1004", "Leather Wallet", "Hide & Co", "Accessories", 129900, 0},
	{"demo-p-1005", "Wool Beanie", "Xenofy Apparel", "Accessories", 49900, 25},
	{"demo-p-1006", "Linen Shirt", "Xenofy Apparel", "Shirts", 189900, 5},
}

var demoCustomers = []demoCustomer{
	{"demo-c-2001", "aarav.sharma@example.com", "Aarav", "Sharma", 200},
	{"demo-c-2002", "diya.patel@example.com", "Diya", "Patel", 120},
	{"demo-c-2003", "kabir.singh@example.com", "Kabir", "Singh", 75},
	{"demo-c-2004", "meera.iyer@example.com", "Meera", "Iyer", 20},
	{"demo-c-2005", "", "Rohan", "Das", 3},
}

var demoOrders = []demoOrder{
	{"demo-o-3001", 0, 150, []demoLine{{1, 10}, {2, 6}}, model.FinancialStatusPaid, model.FulfillmentStatusFulfilled},
	{"demo-o-3002", 0, 40, []demoLine{{0, 2}, {4, 1}}, model.FinancialStatusPaid, model.FulfillmentStatusFulfilled},
	{"demo-o-3003", 1, 95, []demoLine{{5, 12}, {3, 8}}, model.FinancialStatusPaid, model.FulfillmentStatusFulfilled},
	{"demo-o-3004", 1, 33, []demoLine{{1, 1}}, model.FinancialStatusPartiallyRefunded, model.FulfillmentStatusPartial},
	{"demo-o-3005", 2, 60, []demoLine{{0, 3}, {5, 1}}, model.FinancialStatusPaid, model.FulfillmentStatusFulfilled},
	{"demo-o-3006", 3, 10, []demoLine{{2, 1}, {4, 2}}, model.FinancialStatusPaid, ""},
	{"demo-o-3007", 3, 2, []demoLine{{0, 1}}, model.FinancialStatusPending, ""},
	{"demo-o-3008", -1, 1, []demoLine{{4, 3}}, model.FinancialStatusPaid, ""},
}

// ==================== ProvisionService ====================

// ProvisionService seeds the demo tenant so a fresh install has a populated dashboard
type ProvisionService struct {
	accounts *repository.AccountUnitOfWork
	store    StoreRepos
	log      *zap.Logger
	now      func() time.Time
}

func NewProvisionService(accounts *repository.AccountUnitOfWork, store StoreRepos, log *zap.Logger) *ProvisionService {
	return &ProvisionService{
		accounts: accounts,
		store:    store,
		log:      log.Named("provision"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EnsureDemoAccount creates the demo tenant and user when missing and
// refreshes the sample dataset. Safe to call on every start.
func (s *ProvisionService) EnsureDemoAccount(ctx context.Context) (*model.Tenant, error) {
	tenant, err := s.ensureDemoTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.seedSampleData(ctx, tenant.ID); err != nil {
		return nil, fmt.Errorf("seed demo data: %w", err)
	}
	s.log.Info("demo account ready", zap.Int64("tenant_id", tenant.ID), zap.String("email", model.DemoEmail))
	return tenant, nil
}

func (s *ProvisionService) ensureDemoTenant(ctx context.Context) (*model.Tenant, error) {
	user, err := s.accounts.Users.GetByEmail(ctx, model.DemoEmail)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.Tenant == nil {
			return nil, fmt.Errorf("demo user %d has no tenant", user.ID)
		}
		return user.Tenant, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(model.DemoPassword), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	var tenant *model.Tenant
	err = s.accounts.Transaction(ctx, func(uow *repository.AccountUnitOfWork) error {
		existing, err := uow.Tenants.GetByDomain(ctx, model.DemoDomain)
		if err != nil {
			return err
		}
		tenant = existing
		if tenant == nil {
			tenant = &model.Tenant{
				Name:   model.DemoTenantName,
				Domain: model.DemoDomain,
				APIKey: model.DemoAPIKey,
				IsDemo: true,
			}
			if err := uow.Tenants.Create(ctx, tenant); err != nil {
				return err
			}
		}
		return uow.Users.Create(ctx, &model.User{
			Email:        model.DemoEmail,
			PasswordHash: string(hash),
			TenantID:     tenant.ID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create demo account: %w", err)
	}
	return tenant, nil
}

func (s *ProvisionService) seedSampleData(ctx context.Context, tenantID int64) error {
	now := s.now()
	day := func(daysAgo int) *time.Time {
		t := now.Truncate(time.Hour).AddDate(0, 0, -daysAgo)
		return &t
	}

	err := s.store.StoreInfo.Upsert(ctx, &model.StoreInfo{
		TenantID:        tenantID,
		Name:            model.DemoTenantName,
		Domain:          model.DemoDomain,
		MyshopifyDomain: model.DemoDomain,
		PlanName:        "basic",
		ShopOwner:       "Xenofy Demo",
		Email:           model.DemoEmail,
		Currency:        "INR",
		Country:         "IN",
		City:            "Bengaluru",
		Timezone:        "Asia/Kolkata",
	})
	if err != nil {
		return err
	}

	productIDs := make([]int64, len(demoProducts))
	for i, p := range demoProducts {
		row := &model.Product{
			TenantID:          tenantID,
			ShopifyID:         p.id,
			Title:             p.title,
			Handle:            p.id,
			Vendor:            p.vendor,
			ProductType:       p.kind,
			Status:            "active",
			PriceAmount:       p.price,
			InventoryQuantity: p.quantity,
			InventoryPolicy:   model.PolicyForQuantity(p.quantity),
			ShopifyCreatedAt:  day(240),
		}
		if err := s.store.Products.Upsert(ctx, row); err != nil {
			return err
		}
		productIDs[i] = row.ID
	}

	customerIDs := make([]int64, len(demoCustomers))
	for i, c := range demoCustomers {
		row := &model.Customer{
			TenantID:         tenantID,
			ShopifyID:        c.id,
			Email:            c.email,
			FirstName:        c.firstName,
			LastName:         c.lastName,
			Currency:         "INR",
			ShopifyCreatedAt: day(c.daysAgo),
		}
		for _, o := range demoOrders {
			if o.customer == i {
				row.OrdersCount++
				row.TotalSpentAmount += demoOrderTotal(o)
			}
		}
		if err := s.store.Customers.Upsert(ctx, row); err != nil {
			return err
		}
		customerIDs[i] = row.ID
	}

	for _, o := range demoOrders {
		if err := s.seedOrder(ctx, tenantID, o, day(o.daysAgo), productIDs, customerIDs); err != nil {
			return err
		}
	}

	for i, daysAgo := range []int{1, 4, 9} {
		cart := &model.AbandonedCart{
			TenantID:         tenantID,
			CheckoutID:       fmt.Sprintf("demo-ck-%d", 4001+i),
			Email:            demoCustomers[i+1].email,
			TotalPriceAmount: demoProducts[i].price,
			Currency:         "INR",
			ShopifyCreatedAt: day(daysAgo),
		}
		cart.SubtotalPriceAmount = cart.TotalPriceAmount
		if err := s.store.Carts.Upsert(ctx, cart); err != nil {
			return err
		}
	}

	for i, o := range demoOrders {
		err := s.store.Events.Upsert(ctx, &model.StoreEvent{
			TenantID:         tenantID,
			EventID:          fmt.Sprintf("demo-e-%d", 5001+i),
			EventType:        "Order",
			Verb:             "placed",
			SubjectID:        o.id,
			Description:      fmt.Sprintf("Order #%d was placed", 1001+i),
			ShopifyCreatedAt: day(o.daysAgo),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ProvisionService) seedOrder(ctx context.Context, tenantID int64, o demoOrder, placedAt *time.Time, productIDs, customerIDs []int64) error {
	total := demoOrderTotal(o)
	order := &model.Order{
		TenantID:            tenantID,
		ShopifyID:           o.id,
		Name:                "#" + o.id[len(o.id)-4:],
		TotalPriceAmount:    total,
		SubtotalPriceAmount: total,
		Currency:            "INR",
		FinancialStatus:     o.financial,
		ShopifyCreatedAt:    placedAt,
	}
	if o.customer >= 0 {
		id := customerIDs[o.customer]
		order.CustomerID = &id
		order.Email = demoCustomers[o.customer].email
	}
	if o.fulfillment != "" {
		status := o.fulfillment
		order.FulfillmentStatus = &status
	}
	if err := s.store.Orders.Upsert(ctx, order); err != nil {
		return err
	}

	items := make([]model.OrderItem, 0, len(o.lines))
	for i, line := range o.lines {
		p := demoProducts[line.product]
		productID := productIDs[line.product]
		items = append(items, model.OrderItem{
			OrderID:           order.ID,
			TenantID:          tenantID,
			ShopifyLineItemID: model.SyntheticLineItemID(i),
			ProductID:         &productID,
			Title:             p.title,
			Quantity:          line.quantity,
			PriceAmount:       p.price,
			LinePriceAmount:   p.price * int64(line.quantity),
		})
	}
	return s.store.Orders.UpsertItems(ctx, items)
}

func demoOrderTotal(o demoOrder) int64 {
	var total int64
	for _, line := range o.lines {
		total += demoProducts[line.product].price * int64(line.quantity)
	}
	return total
}
