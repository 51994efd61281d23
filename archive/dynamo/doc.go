// Package dynamo provides an archive.Index backed by Amazon DynamoDB.
//
// DynamoDB conditional writes give the compare-and-swap semantics S3 lacks,
// so concurrent writers archiving the same event id detect each other
// instead of silently overwriting the version log.
//
// Table schema:
//   - Partition key: pk (string) - "<namespace>#<event id>"
//   - Sort key: version (number) - monotonically increasing per event id
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name results-archive \
//	  --attribute-definitions AttributeName=pk,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=pk,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamo
