package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/util"
)

// ResolveRegion returns the region to use for AWS calls: flag when set,
// otherwise the configured region. An empty result leaves resolution to
// the AWS SDK.
func ResolveRegion(flag string) (string, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		flag = util.NormalizeKey(flag)
		if err := util.ValidateRegion(flag); err != nil {
			return "", err
		}
		return flag, nil
	}

	cfg, err := Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Region, nil
}
