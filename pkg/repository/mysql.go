package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OrderArchive keeps a relational copy of every placed order for reporting.
type OrderArchive struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderArchive(cfg *config.MySQLConfig) (*OrderArchive, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return NewOrderArchiveWithDB(db)
}

// NewOrderArchiveWithDB migrates the orders table on an existing connection.
func NewOrderArchiveWithDB(db *gorm.DB) (*OrderArchive, error) {
	if err := db.AutoMigrate(&models.OrderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &OrderArchive{db: db, now: time.Now}, nil
}

func (a *OrderArchive) OrderPlaced(ctx context.Context, sessionID string, order models.Order) error {
	record, err := toRecord(sessionID, order)
	if err != nil {
		return err
	}
	if err := a.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}
	return nil
}

func (a *OrderArchive) OrderStatusChanged(ctx context.Context, _ string, order models.Order, _ models.OrderStatus) error {
	updates := map[string]interface{}{
		"status":     string(order.Status),
		"updated_at": a.now(),
	}
	res := a.db.WithContext(ctx).Model(&models.OrderRecord{}).Where("id = ?", order.ID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update archived order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("archived order %s: %w", order.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Get reads an archived order back.
func (a *OrderArchive) Get(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	var record models.OrderRecord
	err := a.db.WithContext(ctx).Where("id = ?", orderID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s not archived: %w", orderID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &record, nil
}

func (a *OrderArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(sessionID string, order models.Order) (*models.OrderRecord, error) {
	items := make([]models.OrderRecordItem, len(order.Items))
	for i, line := range order.Items {
		item := models.OrderRecordItem{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.TotalPrice,
		}
		if line.SelectedSize != nil {
			item.Size = line.SelectedSize.Name
		}
		for _, sel := range line.SelectedCustomizations {
			for _, opt := range sel.SelectedOptions {
				item.Options = append(item.Options, opt.ID)
			}
		}
		items[i] = item
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize items: %w", err)
	}

	return &models.OrderRecord{
		ID:            order.ID,
		SessionID:     sessionID,
		CustomerName:  order.Customer.Name,
		CustomerPhone: order.Customer.Phone,
		OrderType:     string(order.OrderType),
		StoreID:       order.StoreID,
		Items:         string(itemsJSON),
		Subtotal:      order.Subtotal,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		CreatedAt:     order.OrderDate,
		UpdatedAt:     order.OrderDate,
	}, nil
}
