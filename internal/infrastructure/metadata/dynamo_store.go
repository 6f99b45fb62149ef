package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
	"imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/infrastructure/metrics"
)

// DynamoStore is the managed metadata backend. Records live in a table keyed
// by (user_id, image_id); the tag access path goes through a global secondary
// index whose partition key is the primary tag and whose sort key is the
// record id, so range conditions work on both paths.
type DynamoStore struct {
	client   *dynamodb.Client
	table    string
	tagIndex string
	log      zerolog.Logger
}

func NewDynamoStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DynamoStore, error) {
	logger := log.With().Str("component", "dynamo-store").Logger()

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.DynamoEndpoint != "" {
			return aws.Endpoint{
				URL:           cfg.DynamoEndpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.AWSRegion,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &DynamoStore{
		client:   dynamodb.NewFromConfig(awsCfg),
		table:    cfg.DynamoTable,
		tagIndex: cfg.DynamoTagIndex,
		log:      logger,
	}, nil
}

func (d *DynamoStore) key(ownerID, recordID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id":  &types.AttributeValueMemberS{Value: ownerID},
		"image_id": &types.AttributeValueMemberS{Value: recordID},
	}
}

// Upsert inserts or fully replaces the item at its key.
func (d *DynamoStore) Upsert(ctx context.Context, rec *image.ImageRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	start := time.Now()
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		metrics.RecordStorageOperation("dynamodb", "put_item", "error", time.Since(start).Seconds())
		return fmt.Errorf("put item: %w", err)
	}
	metrics.RecordStorageOperation("dynamodb", "put_item", "success", time.Since(start).Seconds())
	return nil
}

// Get returns the record at (ownerID, recordID), or (nil, nil) when absent.
func (d *DynamoStore) Get(ctx context.Context, ownerID, recordID string) (*image.ImageRecord, error) {
	start := time.Now()
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       d.key(ownerID, recordID),
	})
	if err != nil {
		metrics.RecordStorageOperation("dynamodb", "get_item", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("get item: %w", err)
	}
	metrics.RecordStorageOperation("dynamodb", "get_item", "success", time.Since(start).Seconds())

	if out.Item == nil {
		return nil, nil
	}

	var rec image.ImageRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

// Delete removes the item. DynamoDB deletes are idempotent; a missing key is
// not an error.
func (d *DynamoStore) Delete(ctx context.Context, ownerID, recordID string) error {
	start := time.Now()
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       d.key(ownerID, recordID),
	})
	if err != nil {
		metrics.RecordStorageOperation("dynamodb", "delete_item", "error", time.Since(start).Seconds())
		return fmt.Errorf("delete item: %w", err)
	}
	metrics.RecordStorageOperation("dynamodb", "delete_item", "success", time.Since(start).Seconds())
	return nil
}

// Query resolves the two access paths: a key-condition query on the main
// table when an owner is given (tags filtered post-read via a filter
// expression), a query on the tag index when only a tag is given, and an
// empty result otherwise. No branch ever scans the whole table.
func (d *DynamoStore) Query(ctx context.Context, q image.RecordQuery) ([]image.ImageRecord, error) {
	switch {
	case q.OwnerID != "":
		keyCond := expression.Key("user_id").Equal(expression.Value(q.OwnerID))
		if q.HasRange() {
			keyCond = keyCond.And(expression.Key("image_id").Between(
				expression.Value(q.StartID), expression.Value(q.EndID)))
		}

		builder := expression.NewBuilder().WithKeyCondition(keyCond)
		if q.Tag != "" {
			builder = builder.WithFilter(expression.Name("tags").Contains(q.Tag))
		}
		expr, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("build query expression: %w", err)
		}

		return d.runQuery(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(d.table),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})

	case q.Tag != "":
		keyCond := expression.Key("tag").Equal(expression.Value(q.Tag))
		if q.HasRange() {
			keyCond = keyCond.And(expression.Key("image_id").Between(
				expression.Value(q.StartID), expression.Value(q.EndID)))
		}

		expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
		if err != nil {
			return nil, fmt.Errorf("build index query expression: %w", err)
		}

		return d.runQuery(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(d.table),
			IndexName:                 aws.String(d.tagIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})

	default:
		return []image.ImageRecord{}, nil
	}
}

func (d *DynamoStore) runQuery(ctx context.Context, input *dynamodb.QueryInput) ([]image.ImageRecord, error) {
	start := time.Now()
	records := []image.ImageRecord{}

	paginator := dynamodb.NewQueryPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			metrics.RecordStorageOperation("dynamodb", "query", "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("query %s: %w", d.table, err)
		}

		var recs []image.ImageRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, fmt.Errorf("unmarshal query page: %w", err)
		}
		records = append(records, recs...)
	}

	metrics.RecordStorageOperation("dynamodb", "query", "success", time.Since(start).Seconds())
	return records, nil
}

// Health performs a DescribeTable request.
func (d *DynamoStore) Health(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	return err
}
