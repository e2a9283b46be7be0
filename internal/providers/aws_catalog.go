package providers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// FreeTierInstanceTypes queries instance types flagged free-tier-eligible.
// Results are returned in the order EC2 reports them; EC2 does not rank
// them, so callers that pick "the first" get whatever comes first.
func (p *AWSProvider) FreeTierInstanceTypes(ctx context.Context, limit int32) ([]string, error) {
	input := &ec2.DescribeInstanceTypesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("free-tier-eligible"),
				Values: []string{"true"},
			},
		},
	}
	// DescribeInstanceTypes rejects MaxResults below 5.
	if limit >= 5 {
		input.MaxResults = aws.Int32(limit)
	}

	out, err := p.client.DescribeInstanceTypes(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance types: %w", classifyError(err))
	}

	names := make([]string, 0, len(out.InstanceTypes))
	for _, it := range out.InstanceTypes {
		if limit > 0 && int32(len(names)) >= limit {
			break
		}
		names = append(names, string(it.InstanceType))
	}
	return names, nil
}
