package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmehra2102/payment-relay/internal/relay/domain"
)

const ordersCollection = "orders"

type Store struct {
	log    *slog.Logger
	client *firestore.Client
}

func NewStore(log *slog.Logger, client *firestore.Client) *Store {
	return &Store{log: log, client: client}
}

// Dial connects with a service-account credential built from env config.
func Dial(ctx context.Context, projectID string, credentialsJSON []byte) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(credentialsJSON))
}

func (s *Store) Create(ctx context.Context, o domain.Order) error {
	_, err := s.client.Collection(ordersCollection).Doc(o.OrderID).Create(ctx, o)
	if err != nil {
		return fmt.Errorf("firestore create %s: %w", o.OrderID, err)
	}
	return nil
}

// MarkPaid runs the created -> paid transition inside a transaction so
// two racing confirmations cannot both succeed.
func (s *Store) MarkPaid(ctx context.Context, orderID, paymentID, signature string, paidAt time.Time) error {
	ref := s.client.Collection(ordersCollection).Doc(orderID)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("firestore get %s: %w", orderID, err)
		}

		var o domain.Order
		if err := snap.DataTo(&o); err != nil {
			return fmt.Errorf("firestore decode %s: %w", orderID, err)
		}
		if o.Status == domain.StatusPaid {
			return domain.ErrAlreadyPaid
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "paymentId", Value: paymentID},
			{Path: "signature", Value: signature},
			{Path: "status", Value: string(domain.StatusPaid)},
			{Path: "paidAt", Value: paidAt.UTC().Format(time.RFC3339)},
		})
	})
}

func (s *Store) Get(ctx context.Context, orderID string) (domain.Order, error) {
	snap, err := s.client.Collection(ordersCollection).Doc(orderID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("firestore get %s: %w", orderID, err)
	}

	var o domain.Order
	if err := snap.DataTo(&o); err != nil {
		return domain.Order{}, fmt.Errorf("firestore decode %s: %w", orderID, err)
	}
	return o, nil
}
