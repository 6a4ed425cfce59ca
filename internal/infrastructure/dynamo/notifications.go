package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-notification-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    API
	tableName string
}

func NewNotificationRepo(client API, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

// Save writes the whole item; PutItem replaces any existing item with the same key.
func (r *NotificationRepo) Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("marshal notification", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("put notification", err)
	}
	return rec, nil
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (domain.NotificationRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldID, notificationID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("get notification", err)
	}
	if out.Item == nil {
		return domain.NotificationRecord{}, fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}
	var rec domain.NotificationRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("unmarshal notification", err)
	}
	return rec, nil
}

// GetAll scans the whole table, following LastEvaluatedKey across pages.
func (r *NotificationRepo) GetAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	recs := []domain.NotificationRecord{}
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, domain.NewStorageError("scan notifications", err)
		}
		var batch []domain.NotificationRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, domain.NewStorageError("unmarshal notifications", err)
		}
		recs = append(recs, batch...)
	}
	return recs, nil
}

// Ping checks that the table is reachable.
func (r *NotificationRepo) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)})
	return domain.NewStorageError("describe table", err)
}
