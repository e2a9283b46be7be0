package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// RunInstance launches exactly one instance and tags it with opts.NameTag.
func (p *AWSProvider) RunInstance(ctx context.Context, opts domain.LaunchOpts) (*domain.Instance, error) {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(opts.ImageID),
		InstanceType: types.InstanceType(opts.InstanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
	}
	if opts.KeyName != "" {
		input.KeyName = aws.String(opts.KeyName)
	}
	if opts.SecurityGroupID != "" {
		input.SecurityGroupIds = []string{opts.SecurityGroupID}
	}
	if opts.NameTag != "" {
		input.TagSpecifications = []types.TagSpecification{
			{
				ResourceType: types.ResourceTypeInstance,
				Tags: []types.Tag{
					{Key: aws.String("Name"), Value: aws.String(opts.NameTag)},
				},
			},
		}
	}

	out, err := p.client.RunInstances(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to launch instance: %w", classifyError(err))
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("failed to launch instance: response contained no instances")
	}

	instance := toDomainInstance(out.Instances[0])
	return &instance, nil
}

// WaitUntilRunning polls with the SDK's InstanceRunning waiter until the
// instance is running, enters a terminal state, or timeout elapses.
// Expiry of timeout is reported as domain.ErrTimeout, whether the context
// deadline or the waiter's own budget runs out first.
func (p *AWSProvider) WaitUntilRunning(ctx context.Context, id string, timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("wait timeout must be positive, got %s", timeout)
	}

	minDelay, maxDelay := p.pollDelays(timeout)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// pending is true while the last poll saw a state the waiter retries on.
	var pending bool
	waiter := ec2.NewInstanceRunningWaiter(p.client, func(o *ec2.InstanceRunningWaiterOptions) {
		o.MinDelay = minDelay
		o.MaxDelay = maxDelay
		retryable := o.Retryable
		o.Retryable = func(ctx context.Context, in *ec2.DescribeInstancesInput, out *ec2.DescribeInstancesOutput, err error) (bool, error) {
			retry, rerr := retryable(ctx, in, out, err)
			pending = retry && rerr == nil
			return retry, rerr
		}
	})

	// The waiter stops once less than MinDelay of its budget remains, so the
	// budget runs MinDelay past the deadline.
	err := waiter.Wait(waitCtx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, timeout+minDelay)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if pending || errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("instance %s not running after %s: %w", id, timeout, domain.ErrTimeout)
	}
	return fmt.Errorf("failed waiting for instance %s: %w", id, classifyError(err))
}

// pollDelays scales the waiter's polling bounds down for short timeouts so
// the instance is polled several times before the deadline.
func (p *AWSProvider) pollDelays(timeout time.Duration) (time.Duration, time.Duration) {
	minDelay, maxDelay := p.waitMinDelay, p.waitMaxDelay
	if limit := timeout / 4; minDelay > limit {
		minDelay = max(limit, time.Millisecond)
	}
	if limit := timeout / 2; maxDelay > limit {
		maxDelay = limit
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return minDelay, maxDelay
}
