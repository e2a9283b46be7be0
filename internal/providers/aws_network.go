package providers

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/ec2kit/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// FindSecurityGroup looks up a security group in the default VPC by name.
// EC2 reports an unknown name as InvalidGroup.NotFound, which surfaces here
// as domain.ErrNotFound.
func (p *AWSProvider) FindSecurityGroup(ctx context.Context, name string) (string, error) {
	out, err := p.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupNames: []string{name},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe security group %q: %w", name, classifyError(err))
	}
	if len(out.SecurityGroups) == 0 {
		return "", fmt.Errorf("security group %q: %w", name, domain.ErrNotFound)
	}
	return aws.ToString(out.SecurityGroups[0].GroupId), nil
}

// CreateSecurityGroup creates a group in the default VPC and returns its ID.
func (p *AWSProvider) CreateSecurityGroup(ctx context.Context, name, description string) (string, error) {
	out, err := p.client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(name),
		Description: aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create security group %q: %w", name, classifyError(err))
	}
	return aws.ToString(out.GroupId), nil
}

// AuthorizeIngress adds a single inbound rule to a group.
func (p *AWSProvider) AuthorizeIngress(ctx context.Context, groupID string, rule domain.IngressRule) error {
	protocol := rule.Protocol
	if protocol == "" {
		protocol = "tcp"
	}

	ipRange := types.IpRange{CidrIp: aws.String(rule.CIDR)}
	if rule.Description != "" {
		ipRange.Description = aws.String(rule.Description)
	}

	_, err := p.client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: aws.String(groupID),
		IpPermissions: []types.IpPermission{
			{
				IpProtocol: aws.String(protocol),
				FromPort:   aws.Int32(rule.Port),
				ToPort:     aws.Int32(rule.Port),
				IpRanges:   []types.IpRange{ipRange},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, classifyError(err))
	}
	return nil
}
