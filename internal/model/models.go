package model

// AllModels tables migrated at startup, in dependency order
func AllModels() []interface{} {
	return []interface{}{
		// Account
		&Tenant{}, &User{},
		// Store data
		&StoreInfo{}, &Customer{}, &Product{},
		&Order{}, &OrderItem{}, &OrderAddress{},
		&AbandonedCart{}, &StoreEvent{},
		// Ingestion
		&IngestionRun{}, &IngestionStepResult{}, &IngestionLease{},
	}
}
