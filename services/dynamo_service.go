package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Filter is an equality filter on a document field
type Filter struct {
	Field string
	Value string
}

// DocumentQuery describes a query against a collection. When Index is set,
// HashField/HashValue drive the key condition on that GSI and results come
// back ordered by the index range key (createdAt); otherwise the table is
// scanned and Filters alone select the documents.
type DocumentQuery struct {
	Table      string
	Index      string
	HashField  string
	HashValue  string
	Filters    []Filter
	Descending bool
	Limit      int32
}

// DocumentStore is the document-database surface the services consume:
// get/set/update by collection+key plus filtered queries. DynamoService is
// the production implementation.
type DocumentStore interface {
	GetDocument(ctx context.Context, table, keyField, keyValue string, out interface{}) error
	CreateDocument(ctx context.Context, table, keyField string, item interface{}) error
	MergeDocument(ctx context.Context, table, keyField, keyValue string, fields, initOnly map[string]interface{}) error
	UpdateDocument(ctx context.Context, table, keyField, keyValue string, fields map[string]interface{}, out interface{}) error
	UpdateDocumentIf(ctx context.Context, table, keyField, keyValue string, fields map[string]interface{}, guardField, guardValue string, out interface{}) error
	QueryDocuments(ctx context.Context, query DocumentQuery, out interface{}) error
	DeleteDocument(ctx context.Context, table, keyField, keyValue string) error
}

type DynamoService struct {
	Client *dynamodb.Client
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// GetDocument retrieves a document and unmarshals it into out
func (ds *DynamoService) GetDocument(ctx context.Context, table, keyField, keyValue string, out interface{}) error {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       documentKey(keyField, keyValue),
	})
	if err != nil {
		return fmt.Errorf("failed to get item from table '%s': %w", table, err)
	}
	if output.Item == nil {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from table '%s': %w", table, err)
	}
	return nil
}

// CreateDocument inserts a document, failing with ErrConflict if a document
// with the same key already exists
func (ds *DynamoService) CreateDocument(ctx context.Context, table, keyField string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     marshaledItem,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyField},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to put item in table '%s': %w", table, err)
	}
	return nil
}

// MergeDocument upserts a document: fields are always written, initOnly
// fields are written only when the document does not carry them yet. This is
// the store's native upsert-if-absent primitive, used for one-time
// initialization such as createdAt/tokens.
func (ds *DynamoService) MergeDocument(ctx context.Context, table, keyField, keyValue string, fields, initOnly map[string]interface{}) error {
	var setParts []string
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for field, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal field '%s': %w", field, err)
		}
		expressionAttributeNames["#"+field] = field
		expressionAttributeValues[":"+field] = av
		setParts = append(setParts, fmt.Sprintf("#%s = :%s", field, field))
	}
	for field, value := range initOnly {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal field '%s': %w", field, err)
		}
		expressionAttributeNames["#"+field] = field
		expressionAttributeValues[":"+field] = av
		setParts = append(setParts, fmt.Sprintf("#%s = if_not_exists(#%s, :%s)", field, field, field))
	}

	updateExpression := "SET " + strings.Join(setParts, ", ")
	_, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       documentKey(keyField, keyValue),
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
	})
	if err != nil {
		return fmt.Errorf("failed to merge item in table '%s': %w", table, err)
	}
	return nil
}

// UpdateDocument updates fields on an existing document, failing with
// ErrNotFound if it does not exist. The updated document is unmarshaled
// into out when out is non-nil.
func (ds *DynamoService) UpdateDocument(ctx context.Context, table, keyField, keyValue string, fields map[string]interface{}, out interface{}) error {
	condition := "attribute_exists(#k)"
	return ds.conditionalUpdate(ctx, table, keyField, keyValue, fields, condition, nil, ErrNotFound, out)
}

// UpdateDocumentIf updates fields only while guardField still equals
// guardValue, failing with ErrConflict otherwise
func (ds *DynamoService) UpdateDocumentIf(ctx context.Context, table, keyField, keyValue string, fields map[string]interface{}, guardField, guardValue string, out interface{}) error {
	condition := "attribute_exists(#k) AND #guard = :guard"
	guard := map[string]interface{}{guardField: guardValue}
	return ds.conditionalUpdate(ctx, table, keyField, keyValue, fields, condition, guard, ErrConflict, out)
}

func (ds *DynamoService) conditionalUpdate(ctx context.Context, table, keyField, keyValue string, fields map[string]interface{}, condition string, guard map[string]interface{}, conditionErr error, out interface{}) error {
	var setParts []string
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := map[string]string{"#k": keyField}

	for field, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal field '%s': %w", field, err)
		}
		expressionAttributeNames["#"+field] = field
		expressionAttributeValues[":"+field] = av
		setParts = append(setParts, fmt.Sprintf("#%s = :%s", field, field))
	}
	for field, value := range guard {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal guard '%s': %w", field, err)
		}
		expressionAttributeNames["#guard"] = field
		expressionAttributeValues[":guard"] = av
	}

	updateExpression := "SET " + strings.Join(setParts, ", ")
	output, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       documentKey(keyField, keyValue),
		UpdateExpression:          aws.String(updateExpression),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return conditionErr
		}
		return fmt.Errorf("failed to update item in table '%s': %w", table, err)
	}
	if out != nil {
		if err := attributevalue.UnmarshalMap(output.Attributes, out); err != nil {
			return fmt.Errorf("failed to unmarshal updated item: %w", err)
		}
	}
	return nil
}

// QueryDocuments runs a query or filtered scan and unmarshals the matching
// documents into out (a pointer to a slice)
func (ds *DynamoService) QueryDocuments(ctx context.Context, query DocumentQuery, out interface{}) error {
	var items []map[string]types.AttributeValue
	var err error
	if query.Index != "" {
		items, err = ds.queryIndex(ctx, query)
	} else {
		items, err = ds.scanTable(ctx, query)
	}
	if err != nil {
		return err
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return nil
}

func (ds *DynamoService) queryIndex(ctx context.Context, query DocumentQuery) ([]map[string]types.AttributeValue, error) {
	expressionAttributeNames := map[string]string{"#hash": query.HashField}
	expressionAttributeValues := map[string]types.AttributeValue{
		":hash": &types.AttributeValueMemberS{Value: query.HashValue},
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(query.Table),
		IndexName:                 aws.String(query.Index),
		KeyConditionExpression:    aws.String("#hash = :hash"),
		ScanIndexForward:          aws.Bool(!query.Descending),
		ExpressionAttributeNames:  expressionAttributeNames,
		ExpressionAttributeValues: expressionAttributeValues,
	}
	if filterExpression := buildFilterExpression(query.Filters, expressionAttributeNames, expressionAttributeValues); filterExpression != "" {
		input.FilterExpression = aws.String(filterExpression)
	}
	if query.Limit > 0 {
		input.Limit = aws.Int32(query.Limit)
	}

	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query GSI '%s': %w", query.Index, err)
	}
	return output.Items, nil
}

func (ds *DynamoService) scanTable(ctx context.Context, query DocumentQuery) ([]map[string]types.AttributeValue, error) {
	expressionAttributeNames := make(map[string]string)
	expressionAttributeValues := make(map[string]types.AttributeValue)

	input := &dynamodb.ScanInput{
		TableName: aws.String(query.Table),
	}
	if filterExpression := buildFilterExpression(query.Filters, expressionAttributeNames, expressionAttributeValues); filterExpression != "" {
		input.FilterExpression = aws.String(filterExpression)
		input.ExpressionAttributeNames = expressionAttributeNames
		input.ExpressionAttributeValues = expressionAttributeValues
	}

	output, err := ds.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan table '%s': %w", query.Table, err)
	}
	return output.Items, nil
}

// DeleteDocument removes a document
func (ds *DynamoService) DeleteDocument(ctx context.Context, table, keyField, keyValue string) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       documentKey(keyField, keyValue),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", table, err)
	}
	return nil
}

func documentKey(keyField, keyValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyField: &types.AttributeValueMemberS{Value: keyValue},
	}
}

func buildFilterExpression(filters []Filter, names map[string]string, values map[string]types.AttributeValue) string {
	var parts []string
	for _, filter := range filters {
		names["#"+filter.Field] = filter.Field
		values[":"+filter.Field] = &types.AttributeValueMemberS{Value: filter.Value}
		parts = append(parts, fmt.Sprintf("#%s = :%s", filter.Field, filter.Field))
	}
	return strings.Join(parts, " AND ")
}

func isConditionalCheckFailed(err error) bool {
	var conditionFailed *types.ConditionalCheckFailedException
	return errors.As(err, &conditionFailed)
}
