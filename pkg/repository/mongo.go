package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditService = "storefront"

// Audit actions written by the order sink.
const (
	AuditActionCheckout = "checkout"
	AuditActionStatus   = "update_status"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
	now      func() time.Time
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
		now:      time.Now,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        string    `bson:"_id,omitempty"`
	Service   string    `bson:"service"`
	Action    string    `bson:"action"`
	EntityID  string    `bson:"entity_id"`
	SessionID string    `bson:"session_id"`
	Data      bson.M    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

func (m *MongoRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	collection := m.database.Collection(m.config.Collection)
	log.CreatedAt = m.now()
	_, err := collection.InsertOne(ctx, log)
	return err
}

// GetAuditLogs returns the newest entries recorded for an order. A limit of
// zero or less returns them all.
func (m *MongoRepository) GetAuditLogs(ctx context.Context, orderID string, limit int64) ([]*AuditLog, error) {
	filter := bson.M{"service": auditService, "entity_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := m.database.Collection(m.config.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []*AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode audit log: %w", err)
	}
	return logs, nil
}

// OrderPlaced and OrderStatusChanged make the repository an orders.Sink.
func (m *MongoRepository) OrderPlaced(ctx context.Context, sessionID string, order models.Order) error {
	return m.CreateAuditLog(ctx, checkoutAudit(sessionID, order))
}

func (m *MongoRepository) OrderStatusChanged(ctx context.Context, sessionID string, order models.Order, from models.OrderStatus) error {
	return m.CreateAuditLog(ctx, statusAudit(sessionID, order, from))
}

func checkoutAudit(sessionID string, order models.Order) *AuditLog {
	return &AuditLog{
		Service:   auditService,
		Action:    AuditActionCheckout,
		EntityID:  order.ID,
		SessionID: sessionID,
		Data: bson.M{
			"order_type":   string(order.OrderType),
			"store_id":     order.StoreID,
			"item_count":   order.ItemCount(),
			"subtotal":     order.Subtotal.StringFixed(2),
			"total_amount": order.TotalAmount.StringFixed(2),
		},
	}
}

func statusAudit(sessionID string, order models.Order, from models.OrderStatus) *AuditLog {
	return &AuditLog{
		Service:   auditService,
		Action:    AuditActionStatus,
		EntityID:  order.ID,
		SessionID: sessionID,
		Data: bson.M{
			"from": string(from),
			"to":   string(order.Status),
		},
	}
}
