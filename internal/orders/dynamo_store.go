package orders

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

type dynamoQueryAPI interface {
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore reads orders from a DynamoDB table partitioned by customer_name.
type DynamoStore struct {
	client    dynamoQueryAPI
	tableName string
	indexName string
	logger    *logging.Logger
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore builds a store backed by the provided DynamoDB client.
// indexName may be empty to query the base table.
func NewDynamoStore(client dynamoQueryAPI, tableName, indexName string, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("orders: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("orders: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// LookupOrders returns every order stored under "<First> <Last>". Matching
// is exact, so the name casing must match what was stored.
func (s *DynamoStore) LookupOrders(ctx context.Context, firstName, lastName string) ([]Record, error) {
	if err := validateName(firstName, lastName); err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#customer = :customer"),
		ExpressionAttributeNames: map[string]string{
			"#customer": "customer_name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":customer": &types.AttributeValueMemberS{Value: CustomerKey(firstName, lastName)},
		},
	}
	if s.indexName != "" {
		input.IndexName = aws.String(s.indexName)
	}

	var records []Record
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("orders: query %s: %w", s.tableName, err)
		}
		var batch []Record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("orders: decode orders: %w", err)
		}
		records = append(records, batch...)
	}

	s.logger.Debug("orders: dynamodb lookup complete", "table", s.tableName, "count", len(records))
	return records, nil
}
