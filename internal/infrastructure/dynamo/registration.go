package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/yatraone/transit-api/internal/domain"
)

// RegistrationWriter commits a new account in one transaction: the user row,
// consumption of the verified register OTP, and the audit entry.
type RegistrationWriter struct {
	client API
	tables registrationTables
}

type registrationTables struct {
	users, otp, audit string
}

func NewRegistrationWriter(client API, usersTable, otpTable, auditTable string) *RegistrationWriter {
	return &RegistrationWriter{
		client: client,
		tables: registrationTables{users: usersTable, otp: otpTable, audit: auditTable},
	}
}

// Commit fails with domain.ErrConflict when the user id is taken or the OTP
// record is no longer verified.
func (w *RegistrationWriter) Commit(ctx context.Context, u *domain.User, audit *domain.AuditEntry) error {
	userItem, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	auditItem, err := attributevalue.MarshalMap(audit)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	_, err = w.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(w.tables.users),
				Item:                     userItem,
				ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
				ExpressionAttributeNames: map[string]string{"#pk": fieldUserID},
			}},
			{Delete: &types.Delete{
				TableName:                aws.String(w.tables.otp),
				Key:                      strKey(fieldEmail, u.Email),
				ConditionExpression:      aws.String("#v = :t AND #p = :reg"),
				ExpressionAttributeNames: map[string]string{"#v": fieldVerified, "#p": fieldPurpose},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":t":   &types.AttributeValueMemberBOOL{Value: true},
					":reg": &types.AttributeValueMemberS{Value: string(domain.PurposeRegister)},
				},
			}},
			{Put: &types.Put{
				TableName: aws.String(w.tables.audit),
				Item:      auditItem,
			}},
		},
	})
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return fmt.Errorf("register %s: %w", u.Email, domain.ErrConflict)
	}
	return err
}
