package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/domain"
	"nathanbeddoewebdev/ec2kit/internal/services/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// ec2API is the subset of the EC2 client used by AWSProvider. It also
// satisfies ec2.DescribeInstancesAPIClient so the SDK paginator and waiter
// can run against it.
type ec2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
	DescribeKeyPairs(ctx context.Context, params *ec2.DescribeKeyPairsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error)
	CreateKeyPair(ctx context.Context, params *ec2.CreateKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.CreateKeyPairOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	CreateSecurityGroup(ctx context.Context, params *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
}

// Default polling bounds for the instance-running waiter. EC2 instances
// typically take 15-60 s to leave "pending".
const (
	defaultWaitMinDelay = 5 * time.Second
	defaultWaitMaxDelay = 15 * time.Second
)

// AWSProvider implements domain.Compute using the EC2 API.
type AWSProvider struct {
	client ec2API
	region string

	waitMinDelay time.Duration
	waitMaxDelay time.Duration
}

var _ domain.Compute = (*AWSProvider)(nil)

// NewAWSProvider loads the shared AWS configuration for region and returns
// a provider backed by a real EC2 client. Static credentials stored with
// `ec2kit auth login aws` take precedence over the default credential chain.
// An empty region leaves resolution to the SDK (AWS_REGION, shared config).
func NewAWSProvider(ctx context.Context, region string, store auth.Store) (*AWSProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	if store != nil {
		creds, err := auth.LoadAWSCredentials(store)
		switch {
		case err == nil:
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
			))
		case errors.Is(err, auth.ErrTokenNotFound):
			// Fall through to the default chain.
		default:
			return nil, fmt.Errorf("aws auth: %w", err)
		}
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured: use --region, 'ec2kit config set region <code>', or AWS_REGION")
	}

	return newAWSProvider(ec2.NewFromConfig(cfg), cfg.Region), nil
}

func newAWSProvider(client ec2API, region string) *AWSProvider {
	return &AWSProvider{
		client:       client,
		region:       region,
		waitMinDelay: defaultWaitMinDelay,
		waitMaxDelay: defaultWaitMaxDelay,
	}
}

// Region returns the region the provider's client is bound to.
func (p *AWSProvider) Region() string {
	return p.region
}

// ListInstances walks every page of DescribeInstances and flattens the
// reservations in response order.
func (p *AWSProvider) ListInstances(ctx context.Context) ([]domain.Instance, error) {
	var instances []domain.Instance

	paginator := ec2.NewDescribeInstancesPaginator(p.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list instances: %w", classifyError(err))
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toDomainInstance(inst))
			}
		}
	}

	return instances, nil
}

// GetInstance re-reads a single instance.
func (p *AWSProvider) GetInstance(ctx context.Context, id string) (*domain.Instance, error) {
	out, err := p.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, classifyError(err))
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			if aws.ToString(inst.InstanceId) == id {
				instance := toDomainInstance(inst)
				return &instance, nil
			}
		}
	}

	return nil, fmt.Errorf("instance %s: %w", id, domain.ErrNotFound)
}

// toDomainInstance converts an EC2 instance to a domain.Instance.
func toDomainInstance(inst types.Instance) domain.Instance {
	instance := domain.Instance{
		ID:           aws.ToString(inst.InstanceId),
		InstanceType: string(inst.InstanceType),
		ImageID:      aws.ToString(inst.ImageId),
		KeyName:      aws.ToString(inst.KeyName),
		PublicIPv4:   aws.ToString(inst.PublicIpAddress),
		PrivateIPv4:  aws.ToString(inst.PrivateIpAddress),
		LaunchedAt:   aws.ToTime(inst.LaunchTime),
	}

	if inst.State != nil {
		instance.State = string(inst.State.Name)
	}
	if inst.Placement != nil {
		instance.AvailabilityZone = aws.ToString(inst.Placement.AvailabilityZone)
	}
	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == "Name" {
			instance.Name = aws.ToString(tag.Value)
			break
		}
	}

	return instance
}
