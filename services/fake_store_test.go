package services

import (
	"context"
	"strings"
	"sync"

	"petpal_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeStore is an in-memory DocumentStore with the same conditional-write
// semantics as the DynamoDB adapter. It reuses the attributevalue codec so
// documents round-trip through the exact marshaling production uses.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func (f *fakeStore) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = make(map[string]map[string]types.AttributeValue)
	}
	return f.tables[name]
}

func (f *fakeStore) GetDocument(_ context.Context, table, _, keyValue string, out interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.table(table)[keyValue]
	if !ok {
		return ErrNotFound
	}
	return attributevalue.UnmarshalMap(item, out)
}

func (f *fakeStore) CreateDocument(_ context.Context, table, keyField string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	keyValue := utils.ExtractString(marshaled, keyField)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.table(table)[keyValue]; exists {
		return ErrConflict
	}
	f.table(table)[keyValue] = marshaled
	return nil
}

func (f *fakeStore) MergeDocument(_ context.Context, table, keyField, keyValue string, fields, initOnly map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.table(table)[keyValue]
	if !ok {
		item = map[string]types.AttributeValue{
			keyField: &types.AttributeValueMemberS{Value: keyValue},
		}
		f.table(table)[keyValue] = item
	}
	for field, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		item[field] = av
	}
	for field, value := range initOnly {
		if _, exists := item[field]; exists {
			continue
		}
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		item[field] = av
	}
	return nil
}

func (f *fakeStore) UpdateDocument(_ context.Context, table, _, keyValue string, fields map[string]interface{}, out interface{}) error {
	return f.update(table, keyValue, fields, "", "", ErrNotFound, out)
}

func (f *fakeStore) UpdateDocumentIf(_ context.Context, table, _, keyValue string, fields map[string]interface{}, guardField, guardValue string, out interface{}) error {
	return f.update(table, keyValue, fields, guardField, guardValue, ErrConflict, out)
}

func (f *fakeStore) update(table, keyValue string, fields map[string]interface{}, guardField, guardValue string, conditionErr error, out interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.table(table)[keyValue]
	if !ok {
		return conditionErr
	}
	if guardField != "" && utils.ExtractString(item, guardField) != guardValue {
		return ErrConflict
	}
	for field, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		item[field] = av
	}
	if out != nil {
		return attributevalue.UnmarshalMap(item, out)
	}
	return nil
}

func (f *fakeStore) QueryDocuments(_ context.Context, query DocumentQuery, out interface{}) error {
	f.mu.Lock()
	var matches []map[string]types.AttributeValue
	for _, item := range f.table(query.Table) {
		if query.Index != "" && utils.ExtractString(item, query.HashField) != query.HashValue {
			continue
		}
		matched := true
		for _, filter := range query.Filters {
			if utils.ExtractString(item, filter.Field) != filter.Value {
				matched = false
				break
			}
		}
		if matched {
			matches = append(matches, item)
		}
	}
	f.mu.Unlock()

	if query.Index != "" {
		rangeField := rangeFieldFromIndex(query.Index)
		sortByField(matches, rangeField, query.Descending)
	}
	if query.Limit > 0 && int32(len(matches)) > query.Limit {
		matches = matches[:query.Limit]
	}
	return attributevalue.UnmarshalListOfMaps(matches, out)
}

func (f *fakeStore) DeleteDocument(_ context.Context, table, _, keyValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.table(table), keyValue)
	return nil
}

// setField overwrites a single attribute directly, bypassing service logic
func (f *fakeStore) setField(table, keyValue, field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.table(table)[keyValue]; ok {
		item[field] = &types.AttributeValueMemberS{Value: value}
	}
}

// Index names follow the "hash-range-index" convention
func rangeFieldFromIndex(index string) string {
	parts := strings.Split(index, "-")
	if len(parts) >= 3 {
		return parts[1]
	}
	return "createdAt"
}

func sortByField(items []map[string]types.AttributeValue, field string, descending bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			a := utils.ExtractString(items[j-1], field)
			b := utils.ExtractString(items[j], field)
			if (descending && a < b) || (!descending && a > b) {
				items[j-1], items[j] = items[j], items[j-1]
			} else {
				break
			}
		}
	}
}
