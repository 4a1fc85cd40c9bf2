package payments

import (
	"context"
	"fmt"
	"time"

	"go-payments/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists payment records keyed by gateway identifiers. Implementations
// must make CompleteCapture a conditional transition so concurrent captures of
// the same record cannot both succeed.
type Store interface {
	// UpsertPending inserts a new Pending record keyed by its gateway order
	// id. A record that already exists under the same gateway order id is
	// left untouched, so a retried creation call after a crash does not
	// create a duplicate.
	UpsertPending(ctx context.Context, record models.PaymentRecord) error

	// CompleteCapture transitions the record matching gatewayOrderID from
	// Pending to Completed, recording the captured amount and the gateway
	// payment id. Returns ErrPaymentRecordNotFound when no record matches,
	// ErrPaymentAlreadyCaptured when a record matches but is not Pending.
	CompleteCapture(ctx context.Context, gatewayOrderID, gatewayPaymentID string, capturedAmount float64) (*models.PaymentRecord, error)

	// FindByGatewayOrderID returns the record created for a gateway order,
	// or ErrPaymentRecordNotFound.
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentRecord, error)

	// FindByOrderID returns every payment attempt recorded against an order.
	FindByOrderID(ctx context.Context, orderID string) ([]models.PaymentRecord, error)
}

// MongoStore is the document-store implementation of Store.
type MongoStore struct {
	Collection *mongo.Collection
}

// NewMongoStore returns a store backed by the payments collection.
func NewMongoStore(client *mongo.Client) *MongoStore {
	collection := client.Database("payments").Collection("payment_records")
	return &MongoStore{Collection: collection}
}

// EnsureIndexes creates the unique index backing the one-record-per-gateway-
// order invariant. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "gateway_order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create gateway_order_id index: %w", err)
	}
	return nil
}

func (s *MongoStore) UpsertPending(ctx context.Context, record models.PaymentRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	// $setOnInsert keeps a retried creation from clobbering an existing
	// record; the gateway order id is the idempotency key.
	_, err := s.Collection.UpdateOne(ctx,
		bson.M{"gateway_order_id": record.GatewayOrderID},
		bson.M{"$setOnInsert": bson.M{
			"order_id":         record.OrderID,
			"amount":           record.Amount,
			"status":           record.Status,
			"gateway_order_id": record.GatewayOrderID,
			"created_at":       record.CreatedAt,
			"updated_at":       record.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert payment record: %w", err)
	}
	return nil
}

func (s *MongoStore) CompleteCapture(ctx context.Context, gatewayOrderID, gatewayPaymentID string, capturedAmount float64) (*models.PaymentRecord, error) {
	// The status filter makes the transition conditional: only a Pending
	// record can move to Completed, giving at-most-once capture under race.
	var record models.PaymentRecord
	err := s.Collection.FindOneAndUpdate(ctx,
		bson.M{"gateway_order_id": gatewayOrderID, "status": models.PaymentStatusPending},
		bson.M{"$set": bson.M{
			"status":             models.PaymentStatusCompleted,
			"gateway_payment_id": gatewayPaymentID,
			"captured_amount":    capturedAmount,
			"updated_at":         time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&record)
	if err == nil {
		return &record, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("update payment record: %w", err)
	}

	// Distinguish a missing record from one already past Pending.
	findErr := s.Collection.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Err()
	if findErr == nil {
		return nil, ErrPaymentAlreadyCaptured
	}
	if findErr == mongo.ErrNoDocuments {
		return nil, ErrPaymentRecordNotFound
	}
	return nil, fmt.Errorf("lookup payment record: %w", findErr)
}

func (s *MongoStore) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.Collection.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPaymentRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment record: %w", err)
	}
	return &record, nil
}

func (s *MongoStore) FindByOrderID(ctx context.Context, orderID string) ([]models.PaymentRecord, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("find payment records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.PaymentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode payment records: %w", err)
	}
	return records, nil
}
