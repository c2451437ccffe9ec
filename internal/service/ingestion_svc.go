package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	apperrors "xenofy_analytics_v1_202610/pkg/errors"
	"xenofy_analytics_v1_202610/pkg/events"
	"xenofy_analytics_v1_202610/pkg/shopify"
)

// ==================== Dependencies ====================

// ShopifyAPI vendor operations the pipeline and the registration check use
type ShopifyAPI interface {
	GetShop(ctx context.Context) (*shopify.Shop, error)
	ListCustomers(ctx context.Context) ([]shopify.Customer, error)
	ListProducts(ctx context.Context) ([]shopify.Product, error)
	ListInventoryLevels(ctx context.Context, inventoryItemIDs []int64) ([]shopify.InventoryLevel, error)
	ListOrders(ctx context.Context) ([]shopify.Order, error)
	ListAbandonedCheckouts(ctx context.Context) ([]shopify.Checkout, error)
	ListEvents(ctx context.Context) ([]shopify.Event, error)
	ListReports(ctx context.Context) ([]shopify.Report, error)
}

// ShopifyClientFactory builds a client bound to one tenant's credential
type ShopifyClientFactory func(domain, accessToken string) (ShopifyAPI, error)

// NewShopifyClientFactory factory over pkg/shopify with shared options
func NewShopifyClientFactory(opts ...shopify.Option) ShopifyClientFactory {
	return func(domain, accessToken string) (ShopifyAPI, error) {
		c, err := shopify.NewClient(domain, accessToken, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// IngestionRepos stores the pipeline writes to, plus its run log
type IngestionRepos struct {
	StoreRepos
	Runs repository.IngestionRunRepository
}

// IngestionOptions timing knobs, zero values fall back to defaults
type IngestionOptions struct {
	LeaseTTL          time.Duration
	RunTimeout        time.Duration
	RegistrationDelay time.Duration
}

var (
	ErrIngestionInProgress = &apperrors.ErrConflict{Message: "Ingestion already running for this tenant"}
	ErrMissingCredential   = &apperrors.ErrValidation{Message: "API key not configured for this tenant. Please update your Shopify connection."}
	ErrRunNotFound         = &apperrors.ErrNotFound{Resource: "Ingestion run"}
	ErrNothingToRetry      = &apperrors.ErrValidation{Message: "Ingestion run has no failed steps to retry"}
)

// ==================== IngestionService ====================

// IngestionService pulls every entity of one tenant's store into the local
// database. Steps run in a fixed order and a failing step never stops the ones after it.
type IngestionService struct {
	repos     IngestionRepos
	locker    Locker
	clients   ShopifyClientFactory
	publisher events.Publisher
	log       *zap.Logger
	opts      IngestionOptions

	now      func() time.Time
	newRunID func() string
	wg       sync.WaitGroup
}

type stepFunc func(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error)

func NewIngestionService(
	repos IngestionRepos,
	locker Locker,
	clients ShopifyClientFactory,
	publisher events.Publisher,
	log *zap.Logger,
	opts IngestionOptions,
) *IngestionService {
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = 30 * time.Minute
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 25 * time.Minute
	}
	// the lease is never renewed, so a run must end before it expires
	if opts.RunTimeout >= opts.LeaseTTL {
		opts.RunTimeout = opts.LeaseTTL * 5 / 6
	}
	if opts.RegistrationDelay < 0 {
		opts.RegistrationDelay = 0
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &IngestionService{
		repos:     repos,
		locker:    locker,
		clients:   clients,
		publisher: publisher,
		log:       log.Named("ingestion"),
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
		newRunID:  func() string { return uuid.NewString() },
	}
}

// RunFullIngest runs every step for the tenant. The error is nil once the
// sequence ran, even if steps failed; callers read run.Status.
func (s *IngestionService) RunFullIngest(ctx context.Context, tenant *model.Tenant, trigger string, triggeredBy int64) (*model.IngestionRun, error) {
	return s.execute(ctx, tenant, trigger, triggeredBy, "", model.IngestionSteps)
}

// RetryFailedSteps re-runs only the failed steps of runID under a new run
func (s *IngestionService) RetryFailedSteps(ctx context.Context, tenant *model.Tenant, runID string, triggeredBy int64) (*model.IngestionRun, error) {
	prev, err := s.repos.Runs.GetByRunID(ctx, tenant.ID, runID)
	if err != nil {
		return nil, fmt.Errorf("load ingestion run: %w", err)
	}
	if prev == nil {
		return nil, ErrRunNotFound
	}
	failed := prev.FailedSteps()
	if len(failed) == 0 {
		return nil, ErrNothingToRetry
	}
	return s.execute(ctx, tenant, model.TriggerRetry, triggeredBy, prev.RunID, failed)
}

// RetryLatestIfPartial retries the tenant's latest run when it ended partial.
// Returns nil, nil when there is nothing to do.
func (s *IngestionService) RetryLatestIfPartial(ctx context.Context, tenant *model.Tenant) (*model.IngestionRun, error) {
	latest, err := s.repos.Runs.Latest(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}
	if latest == nil || latest.Status != model.RunStatusPartial {
		return nil, nil
	}
	return s.RetryFailedSteps(ctx, tenant, latest.RunID, 0)
}

// ScheduleAfterRegistration runs a full ingest in the background after a
// short delay so the registration response is not held up.
func (s *IngestionService) ScheduleAfterRegistration(tenant model.Tenant) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.opts.RegistrationDelay > 0 {
			time.Sleep(s.opts.RegistrationDelay)
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.RunTimeout)
		defer cancel()

		run, err := s.RunFullIngest(ctx, &tenant, model.TriggerRegistration, 0)
		if err != nil {
			s.log.Error("registration ingest failed", zap.Int64("tenant_id", tenant.ID), zap.Error(err))
			return
		}
		s.log.Info("registration ingest finished",
			zap.Int64("tenant_id", tenant.ID), zap.String("run_id", run.RunID), zap.String("status", run.Status))
	}()
}

// Wait blocks until background runs started by ScheduleAfterRegistration return
func (s *IngestionService) Wait() {
	s.wg.Wait()
}

func (s *IngestionService) LatestRun(ctx context.Context, tenantID int64) (*model.IngestionRun, error) {
	return s.repos.Runs.Latest(ctx, tenantID)
}

func (s *IngestionService) ListRuns(ctx context.Context, tenantID int64, limit int) ([]model.IngestionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repos.Runs.List(ctx, tenantID, limit)
}

// ==================== Run lifecycle ====================

func (s *IngestionService) execute(
	ctx context.Context,
	tenant *model.Tenant,
	trigger string,
	triggeredBy int64,
	parentRunID string,
	steps []model.IngestionStep,
) (*model.IngestionRun, error) {
	if !tenant.HasCredential() {
		return nil, ErrMissingCredential
	}

	runID := s.newRunID()
	leaseKey := IngestionLeaseKey(tenant.ID)
	acquired, err := s.locker.Acquire(ctx, leaseKey, runID, s.opts.LeaseTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire ingestion lease: %w", err)
	}
	if !acquired {
		return nil, ErrIngestionInProgress
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	// bookkeeping must land even when the run context has expired
	bg := context.WithoutCancel(ctx)
	defer func() {
		if err := s.locker.Release(bg, leaseKey, runID); err != nil {
			s.log.Warn("release ingestion lease failed", zap.String("run_id", runID), zap.Error(err))
		}
	}()

	log := s.log.With(zap.Int64("tenant_id", tenant.ID), zap.String("run_id", runID), zap.String("trigger", trigger))
	run := &model.IngestionRun{
		RunID:       runID,
		TenantID:    tenant.ID,
		Trigger:     trigger,
		TriggeredBy: triggeredBy,
		ParentRunID: parentRunID,
		Status:      model.RunStatusRunning,
		StartedAt:   s.now(),
	}
	if err := s.repos.Runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create ingestion run: %w", err)
	}
	log.Info("ingestion started", zap.Int("steps", len(steps)))

	api, err := s.clients(tenant.Domain, tenant.APIKey)
	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		s.finish(bg, run, log)
		return run, fmt.Errorf("initialize shopify client: %w", err)
	}

	for _, step := range steps {
		result := s.runStep(ctx, tenant.ID, api, step, log)
		result.RunID = run.RunID
		if err := s.repos.Runs.SaveStep(bg, &result); err != nil {
			log.Error("save step result failed", zap.String("step", string(step)), zap.Error(err))
		}
		run.Steps = append(run.Steps, result)
	}

	run.Status = run.ResolveStatus()
	if failed := run.FailedSteps(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = string(f)
		}
		run.Error = "failed steps: " + strings.Join(names, ", ")
	}
	s.finish(bg, run, log)
	return run, nil
}

func (s *IngestionService) finish(ctx context.Context, run *model.IngestionRun, log *zap.Logger) {
	finishedAt := s.now()
	run.FinishedAt = &finishedAt
	if err := s.repos.Runs.Finish(ctx, run); err != nil {
		log.Error("finish ingestion run failed", zap.Error(err))
	}

	evt := events.RunCompleted{
		RunID:      run.RunID,
		TenantID:   run.TenantID,
		Trigger:    run.Trigger,
		Status:     run.Status,
		StartedAt:  run.StartedAt,
		FinishedAt: finishedAt,
	}
	for _, st := range run.Steps {
		evt.Steps = append(evt.Steps, events.StepRecord{Step: string(st.Step), Status: st.Status, Records: st.Records, Error: st.Error})
	}
	if err := s.publisher.PublishRunCompleted(ctx, evt); err != nil {
		log.Warn("publish run event failed", zap.Error(err))
	}

	log.Info("ingestion finished",
		zap.String("status", run.Status),
		zap.Duration("elapsed", finishedAt.Sub(run.StartedAt)))
}

func (s *IngestionService) runStep(ctx context.Context, tenantID int64, api ShopifyAPI, step model.IngestionStep, log *zap.Logger) (result model.IngestionStepResult) {
	started := time.Now()
	result = model.IngestionStepResult{
		TenantID: tenantID,
		Step:     step,
		Position: model.StepPosition(step),
	}
	defer func() {
		if r := recover(); r != nil {
			result.Status = model.StepStatusFailed
			result.Error = fmt.Sprintf("panic: %v", r)
			log.Error("ingestion step panicked", zap.String("step", string(step)), zap.Any("panic", r))
		}
		result.DurationMs = time.Since(started).Milliseconds()
	}()

	fn := s.stepFunc(step)
	if fn == nil {
		result.Status = model.StepStatusFailed
		result.Error = "unknown step"
		return result
	}

	n, err := fn(ctx, tenantID, api)
	result.Records = n
	switch {
	case errors.Is(err, shopify.ErrUnsupported):
		result.Status = model.StepStatusSkipped
		result.Error = err.Error()
		log.Info("ingestion step skipped", zap.String("step", string(step)), zap.Error(err))
	case err != nil:
		result.Status = model.StepStatusFailed
		result.Error = err.Error()
		log.Error("ingestion step failed", zap.String("step", string(step)), zap.Int("records", n), zap.Error(err))
	default:
		result.Status = model.StepStatusSuccess
		log.Info("ingestion step done", zap.String("step", string(step)), zap.Int("records", n))
	}
	return result
}

func (s *IngestionService) stepFunc(step model.IngestionStep) stepFunc {
	switch step {
	case model.StepStoreInfo:
		return s.ingestStoreInfo
	case model.StepCustomers:
		return s.ingestCustomers
	case model.StepProducts:
		return s.ingestProducts
	case model.StepInventory:
		return s.ingestInventory
	case model.StepOrders:
		return s.ingestOrders
	case model.StepAbandonedCheckouts:
		return s.ingestAbandonedCheckouts
	case model.StepEvents:
		return s.ingestEvents
	case model.StepAnalytics:
		return s.ingestAnalytics
	}
	return nil
}

// ==================== Steps ====================

func (s *IngestionService) ingestStoreInfo(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	shop, err := api.GetShop(ctx)
	if err != nil {
		return 0, err
	}
	err = s.repos.StoreInfo.Upsert(ctx, &model.StoreInfo{
		TenantID:        tenantID,
		Name:            shop.Name,
		Domain:          shop.Domain,
		MyshopifyDomain: shop.MyshopifyDomain,
		PlanName:        shop.PlanName,
		ShopOwner:       shop.ShopOwner,
		Email:           shop.Email,
		Currency:        shop.Currency,
		Country:         shop.CountryCode,
		Province:        shop.Province,
		City:            shop.City,
		Address1:        shop.Address1,
		Zip:             shop.Zip,
		Phone:           shop.Phone,
		Timezone:        shop.Timezone,
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *IngestionService) ingestCustomers(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	customers, err := api.ListCustomers(ctx)
	if err != nil {
		return 0, err
	}
	errs := recordErrors{kind: "customers", total: len(customers)}
	for i := range customers {
		c := &customers[i]
		err := s.repos.Customers.Upsert(ctx, &model.Customer{
			TenantID:         tenantID,
			ShopifyID:        shopify.ID(c.ID),
			Email:            c.Email,
			FirstName:        c.FirstName,
			LastName:         c.LastName,
			Phone:            c.Phone,
			OrdersCount:      c.OrdersCount,
			TotalSpentAmount: shopify.Cents(c.TotalSpent),
			Currency:         c.Currency,
			RawData:          datatypes.JSON(c.Raw),
			ShopifyCreatedAt: utc(c.CreatedAt),
		})
		errs.add(err)
	}
	return errs.ok(), errs.err()
}

func (s *IngestionService) ingestProducts(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	products, err := api.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	errs := recordErrors{kind: "products", total: len(products)}
	for i := range products {
		p := &products[i]
		row := &model.Product{
			TenantID:         tenantID,
			ShopifyID:        shopify.ID(p.ID),
			Title:            p.Title,
			Handle:           p.Handle,
			Vendor:           p.Vendor,
			ProductType:      p.ProductType,
			Status:           p.Status,
			RawData:          datatypes.JSON(p.Raw),
			ShopifyCreatedAt: utc(p.CreatedAt),
		}
		if v := p.FirstVariant(); v != nil {
			row.PriceAmount = shopify.Cents(v.Price)
			row.InventoryItemID = shopify.ID(v.InventoryItemID)
			row.InventoryQuantity = v.InventoryQuantity
			row.InventoryPolicy = v.InventoryPolicy
		}
		errs.add(s.repos.Products.Upsert(ctx, row))
	}
	return errs.ok(), errs.err()
}

// ingestInventory refreshes stock from inventory levels. A level maps to its
// product by inventory item id, or by product id for shops that reuse it;
// quantities from several locations are summed.
func (s *IngestionService) ingestInventory(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	products, err := s.repos.Products.List(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	byItem := make(map[string]int64, len(products))
	byShopifyID := make(map[string]int64, len(products))
	var itemIDs []int64
	for _, p := range products {
		byShopifyID[p.ShopifyID] = p.ID
		if p.InventoryItemID == "" {
			continue
		}
		id, err := strconv.ParseInt(p.InventoryItemID, 10, 64)
		if err != nil {
			continue
		}
		byItem[p.InventoryItemID] = p.ID
		itemIDs = append(itemIDs, id)
	}
	if len(itemIDs) == 0 {
		return 0, nil
	}

	levels, err := api.ListInventoryLevels(ctx, itemIDs)
	if err != nil {
		return 0, err
	}

	type stock struct {
		available int
		location  string
	}
	perProduct := make(map[int64]*stock)
	var order []int64
	for i := range levels {
		lvl := &levels[i]
		key := shopify.ID(lvl.InventoryItemID)
		productID, ok := byItem[key]
		if !ok {
			if productID, ok = byShopifyID[key]; !ok {
				continue
			}
		}
		st, seen := perProduct[productID]
		if !seen {
			st = &stock{location: shopify.ID(lvl.LocationID)}
			perProduct[productID] = st
			order = append(order, productID)
		}
		st.available += lvl.AvailableOrZero()
	}

	errs := recordErrors{kind: "inventory levels", total: len(order)}
	for _, productID := range order {
		st := perProduct[productID]
		errs.add(s.repos.Products.UpdateInventory(ctx, productID, st.available, model.PolicyForQuantity(st.available), st.location))
	}
	return errs.ok(), errs.err()
}

func (s *IngestionService) ingestOrders(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	orders, err := api.ListOrders(ctx)
	if err != nil {
		return 0, err
	}
	customerIDs, err := s.repos.Customers.ShopifyIDMap(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("load customer ids: %w", err)
	}
	productIDs, err := s.repos.Products.ShopifyIDMap(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("load product ids: %w", err)
	}

	errs := recordErrors{kind: "orders", total: len(orders)}
	for i := range orders {
		errs.add(s.saveOrder(ctx, tenantID, &orders[i], customerIDs, productIDs))
	}
	return errs.ok(), errs.err()
}

func (s *IngestionService) saveOrder(ctx context.Context, tenantID int64, o *shopify.Order, customerIDs, productIDs map[string]int64) error {
	order := &model.Order{
		TenantID:             tenantID,
		ShopifyID:            shopify.ID(o.ID),
		Name:                 o.Name,
		Email:                o.Email,
		TotalPriceAmount:     shopify.Cents(o.TotalPrice),
		SubtotalPriceAmount:  shopify.Cents(o.SubtotalPrice),
		TotalTaxAmount:       shopify.Cents(o.TotalTax),
		TotalDiscountsAmount: shopify.Cents(o.TotalDiscounts),
		Currency:             o.Currency,
		FinancialStatus:      o.FinancialStatus,
		FulfillmentStatus:    o.FulfillmentStatus,
		RawData:              datatypes.JSON(o.Raw),
		ShopifyCreatedAt:     utc(o.CreatedAt),
	}
	if id, ok := lookup(customerIDs, o.CustomerID()); ok {
		order.CustomerID = &id
	}
	if err := s.repos.Orders.Upsert(ctx, order); err != nil {
		return err
	}

	items := make([]model.OrderItem, 0, len(o.LineItems))
	for pos, li := range o.LineItems {
		lineID := shopify.ID(li.ID)
		if lineID == "" {
			lineID = model.SyntheticLineItemID(pos)
		}
		item := model.OrderItem{
			OrderID:           order.ID,
			TenantID:          tenantID,
			ShopifyLineItemID: lineID,
			Title:             li.Title,
			VariantTitle:      li.VariantTitle,
			SKU:               li.SKU,
			Quantity:          li.Quantity,
			PriceAmount:       shopify.Cents(li.Price),
			LinePriceAmount:   li.LinePriceCents(),
		}
		if li.VariantID != nil {
			item.VariantID = shopify.ID(*li.VariantID)
		}
		if li.ProductID != nil {
			if id, ok := lookup(productIDs, *li.ProductID); ok {
				item.ProductID = &id
			}
		}
		items = append(items, item)
	}
	if err := s.repos.Orders.UpsertItems(ctx, items); err != nil {
		return fmt.Errorf("order %s items: %w", order.ShopifyID, err)
	}

	var addresses []model.OrderAddress
	if o.ShippingAddress != nil {
		addresses = append(addresses, toOrderAddress(order, model.AddressTypeShipping, o.ShippingAddress))
	}
	if o.BillingAddress != nil {
		addresses = append(addresses, toOrderAddress(order, model.AddressTypeBilling, o.BillingAddress))
	}
	if err := s.repos.Orders.UpsertAddresses(ctx, addresses); err != nil {
		return fmt.Errorf("order %s addresses: %w", order.ShopifyID, err)
	}
	return nil
}

func (s *IngestionService) ingestAbandonedCheckouts(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	checkouts, err := api.ListAbandonedCheckouts(ctx)
	if err != nil {
		return 0, err
	}
	errs := recordErrors{kind: "abandoned checkouts", total: len(checkouts)}
	for i := range checkouts {
		c := &checkouts[i]
		errs.add(s.repos.Carts.Upsert(ctx, &model.AbandonedCart{
			TenantID:             tenantID,
			CheckoutID:           shopify.ID(c.ID),
			Email:                c.Email,
			TotalPriceAmount:     shopify.Cents(c.TotalPrice),
			SubtotalPriceAmount:  shopify.Cents(c.SubtotalPrice),
			Currency:             c.Currency,
			AbandonedCheckoutURL: c.AbandonedCheckoutURL,
			ShopifyCreatedAt:     utc(c.CreatedAt),
		}))
	}
	return errs.ok(), errs.err()
}

func (s *IngestionService) ingestEvents(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	list, err := api.ListEvents(ctx)
	if err != nil {
		return 0, err
	}
	errs := recordErrors{kind: "events", total: len(list)}
	for i := range list {
		e := &list[i]
		errs.add(s.repos.Events.Upsert(ctx, &model.StoreEvent{
			TenantID:         tenantID,
			EventID:          shopify.ID(e.ID),
			EventType:        e.SubjectType,
			Verb:             e.Verb,
			SubjectID:        shopify.ID(e.SubjectID),
			Description:      e.Text(),
			ShopifyCreatedAt: utc(e.CreatedAt),
		}))
	}
	return errs.ok(), errs.err()
}

// ingestAnalytics only probes report availability; reports are not stored.
func (s *IngestionService) ingestAnalytics(ctx context.Context, tenantID int64, api ShopifyAPI) (int, error) {
	reports, err := api.ListReports(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Debug("analytics reports available", zap.Int64("tenant_id", tenantID), zap.Int("reports", len(reports)))
	return len(reports), nil
}

// ==================== Helpers ====================

// recordErrors per-record failures within one step
type recordErrors struct {
	kind   string
	total  int
	failed int
	first  error
}

func (r *recordErrors) add(err error) {
	if err == nil {
		return
	}
	r.failed++
	if r.first == nil {
		r.first = err
	}
}

func (r *recordErrors) ok() int {
	return r.total - r.failed
}

func (r *recordErrors) err() error {
	if r.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d %s failed: %w", r.failed, r.total, r.kind, r.first)
}

func lookup(ids map[string]int64, vendorID int64) (int64, bool) {
	if vendorID == 0 {
		return 0, false
	}
	id, ok := ids[shopify.ID(vendorID)]
	return id, ok
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toOrderAddress(order *model.Order, addressType string, a *shopify.Address) model.OrderAddress {
	return model.OrderAddress{
		OrderID:     order.ID,
		TenantID:    order.TenantID,
		AddressType: addressType,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Company:     a.Company,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		Province:    a.Province,
		Country:     a.Country,
		Zip:         a.Zip,
		Phone:       a.Phone,
	}
}
