package dynamodb

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var testTables = Tables{
	Sessions:    "sessions",
	Bids:        "bids",
	Wallets:     "wallets",
	Ledger:      "ledger",
	Artworks:    "artworks",
	Connections: "connections",
}

// canceledAt builds a cancelled transaction whose item at index failed its condition.
func canceledAt(index, total int) error {
	reasons := make([]types.CancellationReason, total)
	for i := range reasons {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
	}
	reasons[index].Code = aws.String(conditionalCheckFailed)
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}
