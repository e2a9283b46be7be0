package providers

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/ec2kit/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetKeyPair returns the named key pair, or an error wrapping
// domain.ErrNotFound if EC2 has no key pair by that name.
func (p *AWSProvider) GetKeyPair(ctx context.Context, name string) (*domain.KeyPair, error) {
	out, err := p.client.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe key pair %q: %w", name, classifyError(err))
	}
	if len(out.KeyPairs) == 0 {
		return nil, fmt.Errorf("key pair %q: %w", name, domain.ErrNotFound)
	}

	kp := out.KeyPairs[0]
	return &domain.KeyPair{
		Name:        aws.ToString(kp.KeyName),
		ID:          aws.ToString(kp.KeyPairId),
		Fingerprint: aws.ToString(kp.KeyFingerprint),
		Type:        string(kp.KeyType),
	}, nil
}

// CreateKeyPair creates an RSA key pair in PEM format. The private key is
// only available in the returned value; EC2 never returns it again.
func (p *AWSProvider) CreateKeyPair(ctx context.Context, name string) (*domain.KeyPair, error) {
	out, err := p.client.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName:   aws.String(name),
		KeyType:   types.KeyTypeRsa,
		KeyFormat: types.KeyFormatPem,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create key pair %q: %w", name, classifyError(err))
	}

	return &domain.KeyPair{
		Name:        aws.ToString(out.KeyName),
		ID:          aws.ToString(out.KeyPairId),
		Fingerprint: aws.ToString(out.KeyFingerprint),
		Type:        string(types.KeyTypeRsa),
		Material:    aws.ToString(out.KeyMaterial),
	}, nil
}
