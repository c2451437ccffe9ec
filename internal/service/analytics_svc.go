package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	apperrors "xenofy_analytics_v1_202610/pkg/errors"
)

// ==================== Limits & thresholds ====================

const (
	recentOrdersLimit       = 10
	bestSellersLimit        = 10
	detailedCustomersLimit  = 10
	detailedProductsLimit   = 20
	detailedOrdersLimit     = 20
	topProductsLimit        = 5
	recentActivityLimit     = 5
	abandonedCartsWindow    = 20
	abandonedCartsShown     = 10
	eventsWindow            = 50
	eventsShown             = 20
	stockedProductsShown    = 10
	filteredOrdersShown     = 50
	topSpendersLimit        = 5
	visitsPerCustomer       = 3
	visitsPerOrder          = 10
	segmentMonth            = 30 * 24 * time.Hour
	regularRecencyWindow    = 6 * segmentMonth
	newCustomerWindow       = 3 * segmentMonth
	filterEndOfDayInclusive = 24*time.Hour - time.Millisecond
)

// Segment spend thresholds, in currency units.
const (
	HighValueSpendThreshold = 100000
	RegularSpendLowerBound  = 50000
	RegularSpendUpperBound  = 100000
	LowValueSpendUpperBound = 10000
	centsPerUnit            = 100
)

// ==================== AnalyticsService ====================

// StoreRepos per-tenant store data, shared by ingestion, analytics and demo provisioning
type StoreRepos struct {
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Carts     repository.AbandonedCartRepository
	Events    repository.StoreEventRepository
	StoreInfo repository.StoreInfoRepository
}

func NewStoreRepos(db *gorm.DB) StoreRepos {
	return StoreRepos{
		Customers: repository.NewCustomerRepository(db),
		Products:  repository.NewProductRepository(db),
		Orders:    repository.NewOrderRepository(db),
		Carts:     repository.NewAbandonedCartRepository(db),
		Events:    repository.NewStoreEventRepository(db),
		StoreInfo: repository.NewStoreInfoRepository(db),
	}
}

// AnalyticsService tenant-scoped aggregates behind /api/data
type AnalyticsService struct {
	repos StoreRepos
	now   func() time.Time
}

func NewAnalyticsService(repos StoreRepos) *AnalyticsService {
	return &AnalyticsService{repos: repos, now: time.Now}
}

// ==================== Dashboard & stats ====================

// Dashboard headline counts, read concurrently
func (s *AnalyticsService) Dashboard(ctx context.Context, tenantID int64) (*dto.DashboardResponse, error) {
	var customers, orders, products, revenue int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		customers, err = s.repos.Customers.Count(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		orders, err = s.repos.Orders.Count(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		revenue, err = s.repos.Orders.SumRevenue(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.repos.Products.Count(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &dto.DashboardResponse{
		Customers: dto.CountVO{Total: customers},
		Orders:    dto.OrderTotalsVO{Total: orders, Revenue: centsToFloat(revenue)},
		Products:  dto.CountVO{Total: products},
	}, nil
}

func (s *AnalyticsService) CustomerStats(ctx context.Context, tenantID int64) (*dto.CustomerStatsResponse, error) {
	total, err := s.repos.Customers.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	newThisMonth, err := s.repos.Customers.CountCreatedSince(ctx, tenantID, monthStart(s.now()))
	if err != nil {
		return nil, err
	}
	customers, err := s.repos.Customers.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byEmail := make([]dto.CustomerEmailVO, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		if strings.TrimSpace(c.Email) == "" {
			continue
		}
		byEmail = append(byEmail, dto.CustomerEmailVO{ID: c.ID, Email: c.Email, CreatedAt: c.SourceCreatedAt()})
	}

	return &dto.CustomerStatsResponse{
		TotalCustomers:        total,
		NewCustomersThisMonth: newThisMonth,
		CustomersByEmail:      byEmail,
	}, nil
}

func (s *AnalyticsService) OrderStats(ctx context.Context, tenantID int64) (*dto.OrderStatsResponse, error) {
	total, err := s.repos.Orders.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repos.Orders.SumRevenue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repos.Orders.ListRecent(ctx, tenantID, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	all, err := s.repos.Orders.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderStatsResponse{
		TotalOrders:   total,
		TotalRevenue:  centsToFloat(revenue),
		RecentOrders:  ToOrderVOs(recent),
		OrdersByMonth: groupByMonth(all),
	}, nil
}

func groupByMonth(orders []model.Order) []dto.MonthBucketVO {
	type bucket struct {
		count   int
		revenue int64
	}
	buckets := make(map[string]*bucket)
	for i := range orders {
		key := orders[i].PlacedAt().UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.revenue += orders[i].TotalPriceAmount
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]dto.MonthBucketVO, 0, len(months))
	for _, m := range months {
		out = append(out, dto.MonthBucketVO{Month: m, Count: buckets[m].count, Revenue: centsToFloat(buckets[m].revenue)})
	}
	return out
}

func (s *AnalyticsService) ProductStats(ctx context.Context, tenantID int64) (*dto.ProductStatsResponse, error) {
	total, err := s.repos.Products.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	products, err := s.repos.Products.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	withItems, err := s.repos.Products.ListWithOrderItems(ctx, tenantID, 0)
	if err != nil {
		return nil, err
	}

	briefs := make([]dto.ProductBriefVO, 0, len(products))
	for i := range products {
		vo := ToProductVO(&products[i])
		briefs = append(briefs, dto.ProductBriefVO{ID: vo.ID, Title: vo.Title, Price: vo.Price, CreatedAt: vo.CreatedAt})
	}

	sort.SliceStable(withItems, func(i, j int) bool {
		return len(withItems[i].OrderItems) > len(withItems[j].OrderItems)
	})
	best := make([]dto.BestSellerVO, 0, bestSellersLimit)
	for i := range withItems {
		if i == bestSellersLimit {
			break
		}
		best = append(best, dto.BestSellerVO{ProductVO: ToProductVO(&withItems[i]), OrderCount: len(withItems[i].OrderItems)})
	}

	return &dto.ProductStatsResponse{
		TotalProducts:       total,
		Products:            briefs,
		BestSellingProducts: best,
	}, nil
}

// ==================== Detailed lists ====================

func (s *AnalyticsService) CustomersDetailed(ctx context.Context, tenantID int64) (*dto.CustomersDetailedResponse, error) {
	customers, err := s.repos.Customers.ListRecentWithOrders(ctx, tenantID, detailedCustomersLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerVO, 0, len(customers))
	for i := range customers {
		out = append(out, ToCustomerVO(&customers[i]))
	}
	return &dto.CustomersDetailedResponse{Total: len(out), Customers: out}, nil
}

func (s *AnalyticsService) ProductsDetailed(ctx context.Context, tenantID int64) (*dto.ProductsDetailedResponse, error) {
	products, err := s.repos.Products.ListWithOrderItems(ctx, tenantID, detailedProductsLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductSalesVO, 0, len(products))
	for i := range products {
		sold, revenue := productSales(&products[i])
		out = append(out, dto.ProductSalesVO{
			ProductVO:    ToProductVO(&products[i]),
			TotalSold:    sold,
			TotalRevenue: centsToFloat(revenue),
		})
	}
	return &dto.ProductsDetailedResponse{Total: len(out), Products: out}, nil
}

// productSales units sold and revenue in cents over the preloaded order items
func productSales(p *model.Product) (int, int64) {
	var sold int
	var revenue int64
	for i := range p.OrderItems {
		sold += p.OrderItems[i].Quantity
		revenue += p.OrderItems[i].RevenueAmount()
	}
	return sold, revenue
}

func (s *AnalyticsService) OrdersDetailed(ctx context.Context, tenantID int64) (*dto.OrdersDetailedResponse, error) {
	orders, err := s.repos.Orders.ListRecent(ctx, tenantID, detailedOrdersLimit)
	if err != nil {
		return nil, err
	}
	out := ToOrderVOs(orders)
	return &dto.OrdersDetailedResponse{Total: len(out), Orders: out}, nil
}

// ==================== Insights ====================

func (s *AnalyticsService) Insights(ctx context.Context, tenantID int64) (*dto.InsightsResponse, error) {
	products, err := s.repos.Products.ListWithOrderItems(ctx, tenantID, 0)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repos.Orders.SumRevenue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	customerCount, err := s.repos.Customers.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	orderCount, err := s.repos.Orders.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cartCount, err := s.repos.Carts.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	info, err := s.repos.StoreInfo.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	events, err := s.repos.Events.ListRecent(ctx, tenantID, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	orders, err := s.repos.Orders.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InsightsResponse{
		TopProducts:       topProducts(products),
		TotalRevenue:      centsToFloat(revenue),
		TotalCustomers:    customerCount,
		RecentOrders:      orderCount,
		ConversionMetrics: conversionMetrics(customerCount, orderCount, cartCount),
		RecentActivity:    make([]dto.ActivityVO, 0, len(events)),
		Revenue:           revenueTrend(orders, s.now()),
	}
	if info != nil {
		resp.StoreInfo = dto.StoreInfoVO{Name: info.Name, PlanName: info.PlanName, Currency: info.Currency, Country: info.Country}
	}
	for i := range events {
		resp.RecentActivity = append(resp.RecentActivity, dto.ActivityVO{
			Type:        events[i].EventType,
			Description: events[i].Description,
			CreatedAt:   events[i].OccurredAt(),
		})
	}
	return resp, nil
}

func topProducts(products []model.Product) []dto.TopProductVO {
	ranked := make([]dto.TopProductVO, 0, len(products))
	for i := range products {
		p := &products[i]
		sold, revenue := productSales(p)
		ranked = append(ranked, dto.TopProductVO{
			ID:                p.ID,
			ShopifyID:         p.ShopifyID,
			Title:             p.Title,
			Price:             p.GetPrice(),
			TotalSold:         sold,
			TotalRevenue:      centsToFloat(revenue),
			InventoryQuantity: p.InventoryQuantity,
			InventoryPolicy:   p.InventoryPolicy,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSold > ranked[j].TotalSold
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	return ranked
}

func conversionMetrics(customers, orders, carts int64) dto.ConversionMetricsVO {
	visits := customers * visitsPerCustomer
	if v := orders * visitsPerOrder; v > visits {
		visits = v
	}

	m := dto.ConversionMetricsVO{EstimatedVisits: visits}
	if carts > 0 {
		m.CartAbandonRate = round2(float64(carts) / float64(carts+orders) * 100)
	}
	if visits > 0 {
		m.ConversionRate = round2(float64(orders) / float64(visits) * 100)
	}
	return m
}

// revenueTrend compares the current calendar month (UTC) with the previous one
func revenueTrend(orders []model.Order, now time.Time) dto.RevenueTrendVO {
	thisMonth := monthStart(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var current, previous int64
	for i := range orders {
		at := orders[i].PlacedAt()
		switch {
		case !at.Before(thisMonth):
			current += orders[i].TotalPriceAmount
		case !at.Before(lastMonth):
			previous += orders[i].TotalPriceAmount
		}
	}

	trend := dto.RevenueTrendVO{CurrentMonth: centsToFloat(current), LastMonth: centsToFloat(previous)}
	if previous > 0 {
		trend.GrowthRate = round2(float64(current-previous) / float64(previous) * 100)
	}
	return trend
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ==================== Analytics ====================

func (s *AnalyticsService) AbandonedCarts(ctx context.Context, tenantID int64) (*dto.AbandonedCartsResponse, error) {
	carts, err := s.repos.Carts.ListRecent(ctx, tenantID, abandonedCartsWindow)
	if err != nil {
		return nil, err
	}

	var value int64
	shown := make([]dto.AbandonedCartVO, 0, abandonedCartsShown)
	for i := range carts {
		value += carts[i].TotalPriceAmount
		if i < abandonedCartsShown {
			shown = append(shown, ToAbandonedCartVO(&carts[i]))
		}
	}

	resp := &dto.AbandonedCartsResponse{Total: len(carts), TotalValue: centsToFloat(value), RecentCarts: shown}
	if len(carts) > 0 {
		resp.AverageValue = resp.TotalValue / float64(len(carts))
	}
	return resp, nil
}

func (s *AnalyticsService) Events(ctx context.Context, tenantID int64) (*dto.EventsResponse, error) {
	events, err := s.repos.Events.ListRecent(ctx, tenantID, eventsWindow)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int)
	shown := make([]dto.StoreEventVO, 0, eventsShown)
	for i := range events {
		byType[events[i].TypeOrOther()]++
		if i < eventsShown {
			shown = append(shown, ToStoreEventVO(&events[i]))
		}
	}
	return &dto.EventsResponse{Total: len(events), Events: shown, EventsByType: byType}, nil
}

func (s *AnalyticsService) Inventory(ctx context.Context, tenantID int64) (*dto.InventoryResponse, error) {
	products, err := s.repos.Products.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := dto.InventoryStatsVO{TotalProducts: len(products)}
	stock := make([]dto.StockVO, 0, len(products))
	for i := range products {
		p := &products[i]
		switch {
		case p.InStock():
			stats.InStock++
		case p.InventoryQuantity == 0:
			stats.OutOfStock++
		}
		if p.LowStock() {
			stats.LowStock++
		}
		stock = append(stock, dto.StockVO{
			ID:                p.ID,
			Title:             p.Title,
			InventoryQuantity: p.InventoryQuantity,
			InventoryPolicy:   p.InventoryPolicy,
			Price:             p.GetPrice(),
			StockValue:        centsToFloat(p.StockValueAmount()),
		})
	}

	sort.SliceStable(stock, func(i, j int) bool {
		return stock[i].StockValue > stock[j].StockValue
	})
	if len(stock) > stockedProductsShown {
		stock = stock[:stockedProductsShown]
	}
	return &dto.InventoryResponse{InventoryStats: stats, ProductsWithStock: stock}, nil
}

func (s *AnalyticsService) Fulfillment(ctx context.Context, tenantID int64) (*dto.FulfillmentResponse, error) {
	groups, err := s.repos.Orders.FulfillmentBreakdown(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]dto.FulfillmentVO, len(groups))
	for _, g := range groups {
		breakdown[g.Status] = dto.FulfillmentVO{Count: g.Count, Value: centsToFloat(g.Value)}
	}
	return &dto.FulfillmentResponse{Total: len(groups), StatusBreakdown: breakdown}, nil
}

// CustomerSegments the four segments are independent; a customer can fall in several.
func (s *AnalyticsService) CustomerSegments(ctx context.Context, tenantID int64) (*dto.CustomerSegmentsResponse, error) {
	customers, err := s.repos.Customers.ListWithOrderItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var seg dto.SegmentsVO
	for i := range customers {
		h := orderHistory(customers[i].Orders)
		if h.spend > HighValueSpendThreshold*centsPerUnit {
			seg.HighValue++
		}
		if h.orders > 0 &&
			h.spend >= RegularSpendLowerBound*centsPerUnit && h.spend <= RegularSpendUpperBound*centsPerUnit &&
			now.Sub(h.last) <= regularRecencyWindow {
			seg.Regular++
		}
		if h.orders > 0 && now.Sub(h.first) <= newCustomerWindow {
			seg.New++
		}
		if h.spend < LowValueSpendUpperBound*centsPerUnit {
			seg.LowValue++
		}
	}
	return &dto.CustomerSegmentsResponse{TotalCustomers: len(customers), Segments: seg}, nil
}

type history struct {
	orders int
	items  int
	spend  int64
	first  time.Time
	last   time.Time
}

func orderHistory(orders []model.Order) history {
	var h history
	for i := range orders {
		o := &orders[i]
		at := o.PlacedAt()
		if h.orders == 0 || at.Before(h.first) {
			h.first = at
		}
		if h.orders == 0 || at.After(h.last) {
			h.last = at
		}
		h.orders++
		h.spend += o.TotalPriceAmount
		h.items += o.ItemQuantity()
	}
	return h
}

// ==================== Filtered orders ====================

// ParseDateRange reads optional startDate/endDate. The end bound always covers its whole UTC day,
// whether it is given as a date or as a timestamp.
func ParseDateRange(req dto.FilteredOrdersRequest) (start, end *time.Time, err error) {
	if req.StartDate != "" {
		t, perr := parseDate(req.StartDate)
		if perr != nil {
			return nil, nil, &apperrors.ErrValidation{Message: "Invalid startDate"}
		}
		start = &t
	}
	if req.EndDate != "" {
		t, perr := parseDate(req.EndDate)
		if perr != nil {
			return nil, nil, &apperrors.ErrValidation{Message: "Invalid endDate"}
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Add(filterEndOfDayInclusive)
		end = &t
	}
	return start, end, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t.UTC(), err
}

func (s *AnalyticsService) FilteredOrders(ctx context.Context, tenantID int64, start, end *time.Time) (*dto.FilteredOrdersResponse, error) {
	orders, err := s.repos.Orders.ListPlacedBetween(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	resp := &dto.FilteredOrdersResponse{
		TotalOrders:  len(orders),
		OrdersByDate: make(map[string]*dto.DayBucketVO),
		Orders:       make([]dto.OrderVO, 0, filteredOrdersShown),
	}
	var revenue int64
	dayRevenue := make(map[string]int64)
	for i := range orders {
		vo := ToOrderVO(&orders[i])
		day := orders[i].PlacedAt().UTC().Format("2006-01-02")

		bucket, ok := resp.OrdersByDate[day]
		if !ok {
			bucket = &dto.DayBucketVO{}
			resp.OrdersByDate[day] = bucket
		}
		bucket.TotalOrders++
		bucket.Orders = append(bucket.Orders, vo)
		dayRevenue[day] += orders[i].TotalPriceAmount
		revenue += orders[i].TotalPriceAmount

		if i < filteredOrdersShown {
			resp.Orders = append(resp.Orders, vo)
		}
	}
	for day, cents := range dayRevenue {
		resp.OrdersByDate[day].TotalRevenue = centsToFloat(cents)
	}
	resp.TotalRevenue = centsToFloat(revenue)
	return resp, nil
}

// ==================== Top spenders ====================

func (s *AnalyticsService) TopSpenders(ctx context.Context, tenantID int64) (*dto.TopSpendersResponse, error) {
	customers, err := s.repos.Customers.ListWithOrderItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ranked := make([]dto.TopSpenderVO, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		h := orderHistory(c.Orders)
		vo := dto.TopSpenderVO{
			ID:          c.ID,
			ShopifyID:   c.ShopifyID,
			Email:       c.Email,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			TotalSpend:  centsToFloat(h.spend),
			TotalOrders: h.orders,
			TotalItems:  h.items,
		}
		if h.orders > 0 {
			vo.AvgOrderValue = vo.TotalSpend / float64(h.orders)
			last := h.last
			vo.LastOrderDate = &last
		}
		ranked = append(ranked, vo)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSpend > ranked[j].TotalSpend
	})
	if len(ranked) > topSpendersLimit {
		ranked = ranked[:topSpendersLimit]
	}
	return &dto.TopSpendersResponse{TopCustomers: ranked}, nil
}
