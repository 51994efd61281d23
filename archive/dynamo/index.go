package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/results/archive"
	"github.com/hupe1980/results/blobstore"
)

const (
	attrPK      = "pk"
	attrVersion = "version"
	attrBlobKey = "blob_key"
	attrSize    = "size"
)

// Client is the subset of the DynamoDB API used by Index.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// Index implements archive.Index with one item per committed version.
type Index struct {
	client    Client
	tableName string
	namespace string
}

var _ archive.Index = (*Index)(nil)

// NewIndex creates a DynamoDB index. namespace separates archives sharing a
// table, typically the bucket and prefix ("s3://bucket/prefix").
func NewIndex(client Client, tableName, namespace string) *Index {
	return &Index{
		client:    client,
		tableName: tableName,
		namespace: namespace,
	}
}

func (x *Index) pk(id string) string {
	return x.namespace + "#" + id
}

// Commit records e as the next version of e.ID using a conditional write.
func (x *Index) Commit(ctx context.Context, e archive.IndexEntry) (uint64, error) {
	latest, err := x.Latest(ctx, e.ID)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return 0, err
	}

	version := latest.Version + 1

	// Only succeed if this version doesn't exist yet
	_, err = x.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(x.tableName),
		Item: map[string]types.AttributeValue{
			attrPK:      &types.AttributeValueMemberS{Value: x.pk(e.ID)},
			attrVersion: &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			attrBlobKey: &types.AttributeValueMemberS{Value: e.Key},
			attrSize:    &types.AttributeValueMemberN{Value: strconv.Itoa(e.Size)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, archive.ErrConcurrentModification
		}
		return 0, fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return version, nil
}

// Latest queries the highest committed version of id.
func (x *Index) Latest(ctx context.Context, id string) (archive.IndexEntry, error) {
	resp, err := x.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(x.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: x.pk(id)},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return archive.IndexEntry{}, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return archive.IndexEntry{}, blobstore.ErrNotFound
	}

	return decodeItem(id, resp.Items[0])
}

func decodeItem(id string, item map[string]types.AttributeValue) (archive.IndexEntry, error) {
	versionAttr, ok := item[attrVersion].(*types.AttributeValueMemberN)
	if !ok {
		return archive.IndexEntry{}, errors.New("invalid version attribute in DynamoDB")
	}
	keyAttr, ok := item[attrBlobKey].(*types.AttributeValueMemberS)
	if !ok {
		return archive.IndexEntry{}, errors.New("invalid blob_key attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return archive.IndexEntry{}, fmt.Errorf("failed to parse version: %w", err)
	}

	e := archive.IndexEntry{ID: id, Version: version, Key: keyAttr.Value}
	if sizeAttr, ok := item[attrSize].(*types.AttributeValueMemberN); ok {
		if e.Size, err = strconv.Atoi(sizeAttr.Value); err != nil {
			return archive.IndexEntry{}, fmt.Errorf("failed to parse size: %w", err)
		}
	}
	return e, nil
}
