package certificates

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type Repository interface {
	// FindByID returns every item stored under id, in store order.
	FindByID(ctx context.Context, id string) ([]CertificateRecord, error)
	Create(ctx context.Context, record *CertificateRecord) error
}

// DynamoDBAPI is the subset of *dynamodb.Client used by the repository.
type DynamoDBAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type dynamoRepository struct {
	db    DynamoDBAPI
	table string
}

func NewRepository(db DynamoDBAPI, table string) Repository {
	return &dynamoRepository{db: db, table: table}
}

func (r *dynamoRepository) FindByID(ctx context.Context, id string) ([]CertificateRecord, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}

	var records []CertificateRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("decode %s items: %w", r.table, err)
	}
	return records, nil
}

// Create puts the full item. There is no condition expression, so a
// concurrent writer for the same id overwrites.
func (r *dynamoRepository) Create(ctx context.Context, record *CertificateRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("encode certificate %s: %w", record.ID, err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", r.table, err)
	}
	return nil
}
