package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/digital-banking/account-service/internal/domain/operation"
)

const (
	// OperationCollectionName is the name of the ledger collection in MongoDB
	OperationCollectionName = "account_operations"
)

// OperationRepository implements the operation.Ledger interface for MongoDB.
// The collection is insert-only: no update or delete path exists, matching
// the append-only ledger contract.
type OperationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewOperationRepository creates a new MongoDB operation ledger
func NewOperationRepository(logger *slog.Logger, db *mongo.Database) operation.Ledger {
	return &OperationRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores a new ledger entry
func (r *OperationRepository) Append(ctx context.Context, op *operation.Operation) error {
	collection := r.db.Collection(OperationCollectionName)

	if _, err := collection.InsertOne(ctx, op); err != nil {
		r.logger.Error("Failed to append ledger entry",
			"operation_id", op.ID.String(),
			"account_id", op.AccountID.String(),
			"error", err)
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// ListByAccount retrieves ledger entries for an account in creation order,
// sliced by limit/offset. Entries created in the same millisecond fall back
// to insertion (_id) order.
func (r *OperationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*operation.Operation, error) {
	collection := r.db.Collection(OperationCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list ledger entries",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*operation.Operation, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode ledger entries",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}

	return entries, nil
}

// CountByAccount counts the total number of ledger entries for an account
func (r *OperationRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(OperationCollectionName)

	filter := bson.M{"account_id": accountID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count ledger entries",
			"account_id", accountID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}
