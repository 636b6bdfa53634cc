package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/yatraone/transit-api/internal/domain"
)

// OTPRepo stores one live OTP record per email.
// PK: email. expires_at is the table's TTL attribute.
//
// Every mutation after issuance is conditioned on created_at so it only
// applies to the record the caller read; a record overwritten by a newer
// send is left alone and the call reports domain.ErrConflict.
type OTPRepo struct {
	client    API
	tableName string
}

func NewOTPRepo(client API, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

// Put atomically replaces whatever record the email had.
func (r *OTPRepo) Put(ctx context.Context, rec *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	var rec domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteIssued removes the record only if it is still the one issued at createdAt.
func (r *OTPRepo) DeleteIssued(ctx context.Context, email string, createdAt int64) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		ConditionExpression:       aws.String("#c = :seen"),
		ExpressionAttributeNames:  map[string]string{"#c": fieldCreatedAt},
		ExpressionAttributeValues: map[string]types.AttributeValue{":seen": numValue(createdAt)},
	})
	return conditional(err, "delete otp record")
}

// IncrementAttempts adds one failed attempt to the record issued at createdAt.
func (r *OTPRepo) IncrementAttempts(ctx context.Context, email string, createdAt int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		UpdateExpression:    aws.String("ADD #a :one"),
		ConditionExpression: aws.String("#c = :seen"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldAttempts,
			"#c": fieldCreatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":  numValue(1),
			":seen": numValue(createdAt),
		},
	})
	return conditional(err, "increment otp attempts")
}

// MarkVerified flags the record issued at createdAt as verified.
func (r *OTPRepo) MarkVerified(ctx context.Context, email string, createdAt int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		UpdateExpression:    aws.String("SET #v = :t"),
		ConditionExpression: aws.String("#c = :seen"),
		ExpressionAttributeNames: map[string]string{
			"#v": fieldVerified,
			"#c": fieldCreatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":    &types.AttributeValueMemberBOOL{Value: true},
			":seen": numValue(createdAt),
		},
	})
	return conditional(err, "mark otp verified")
}

// ListCreatedBefore scans the whole table for records issued before cutoff (Unix seconds).
func (r *OTPRepo) ListCreatedBefore(ctx context.Context, cutoff int64) ([]domain.OTPRecord, error) {
	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("#c < :cutoff"),
		ExpressionAttributeNames:  map[string]string{"#c": fieldCreatedAt},
		ExpressionAttributeValues: map[string]types.AttributeValue{":cutoff": numValue(cutoff)},
	}
	var records []domain.OTPRecord
	p := dynamodb.NewScanPaginator(r.client, input)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan otp records: %w", err)
		}
		var page []domain.OTPRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		records = append(records, page...)
	}
	return records, nil
}

func conditional(err error, op string) error {
	if err == nil {
		return nil
	}
	if isConditionFailed(err) {
		return fmt.Errorf("%s: record replaced: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
