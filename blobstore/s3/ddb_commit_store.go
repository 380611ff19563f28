package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/roadgraph/blobstore"
)

// CurrentName is the blob name a DDBCommitStore serves from DynamoDB. Graph
// snapshots write the prefix of the latest complete snapshot to it.
const CurrentName = "CURRENT"

// ErrConcurrentModification is returned when another writer committed the
// same version first.
var ErrConcurrentModification = errors.New("s3: concurrent modification detected")

// DDBClient is the subset of *dynamodb.Client used by DDBCommitStore.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// Commit is one committed CURRENT value.
type Commit struct {
	Version uint64
	Value   string
}

// DDBCommitStore wraps a BlobStore and keeps the CURRENT pointer in a
// DynamoDB table, giving the compare-and-swap S3 lacks. All other blobs
// pass through to the wrapped store.
//
// Table schema:
//   - Partition key: graph_uri (string)
//   - Sort key: version (number), increasing by one per commit
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name roadgraph-commits \
//	  --attribute-definitions AttributeName=graph_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=graph_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	blobstore.BlobStore

	ddb      DDBClient
	table    string
	graphURI string
}

// NewDDBCommitStore creates a commit store. graphURI identifies the graph,
// e.g. "s3://bucket/graphs/europe".
func NewDDBCommitStore(store blobstore.BlobStore, ddb DDBClient, table, graphURI string) *DDBCommitStore {
	return &DDBCommitStore{
		BlobStore: store,
		ddb:       ddb,
		table:     table,
		graphURI:  graphURI,
	}
}

// Open serves CURRENT from the latest commit.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name != CurrentName {
		return s.BlobStore.Open(ctx, name)
	}
	commits, err := s.History(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("s3: %s: %w", CurrentName, blobstore.ErrNotFound)
	}
	return &bytesBlob{data: []byte(commits[0].Value)}, nil
}

// Put commits CURRENT as a new version and writes other blobs through.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name != CurrentName {
		return s.BlobStore.Put(ctx, name, data)
	}
	_, err := s.Commit(ctx, string(data))
	return err
}

// Create refuses CURRENT, which can only be written with Put.
func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if name == CurrentName {
		return nil, fmt.Errorf("s3: %s must be written with Put", CurrentName)
	}
	return s.BlobStore.Create(ctx, name)
}

// Commit stores value as the next version. It fails with
// ErrConcurrentModification if another writer took that version.
func (s *DDBCommitStore) Commit(ctx context.Context, value string) (uint64, error) {
	latest, err := s.History(ctx, 1)
	if err != nil {
		return 0, err
	}

	var next uint64 = 1
	if len(latest) > 0 {
		next = latest[0].Version + 1
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"graph_uri": &types.AttributeValueMemberS{Value: s.graphURI},
			"version":   &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"value":     &types.AttributeValueMemberS{Value: value},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentModification
		}
		return 0, fmt.Errorf("s3: commit version %d: %w", next, err)
	}
	return next, nil
}

// History returns up to limit commits, newest first.
func (s *DDBCommitStore) History(ctx context.Context, limit int32) ([]Commit, error) {
	resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("graph_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.graphURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: query commits: %w", err)
	}

	commits := make([]Commit, 0, len(resp.Items))
	for _, item := range resp.Items {
		c, err := parseCommit(item)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

func parseCommit(item map[string]types.AttributeValue) (Commit, error) {
	version, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return Commit{}, errors.New("s3: commit item without version")
	}
	value, ok := item["value"].(*types.AttributeValueMemberS)
	if !ok {
		return Commit{}, errors.New("s3: commit item without value")
	}
	v, err := strconv.ParseUint(version.Value, 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("s3: commit version %q: %w", version.Value, err)
	}
	return Commit{Version: v, Value: value.Value}, nil
}

// bytesBlob serves a small in-memory value.
type bytesBlob struct {
	data []byte
}

func (b *bytesBlob) Close() error { return nil }
func (b *bytesBlob) Size() int64  { return int64(len(b.data)) }

func (b *bytesBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *bytesBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	size := int64(len(b.data))
	if off < 0 || off > size || length < 0 {
		return nil, io.EOF
	}
	end := size
	if length < size-off {
		end = off + length
	}
	return io.NopCloser(bytes.NewReader(b.data[off:end])), nil
}
