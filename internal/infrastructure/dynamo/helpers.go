package dynamo

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// Partition key attribute of the notifications table.
const fieldID = "id"

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}
