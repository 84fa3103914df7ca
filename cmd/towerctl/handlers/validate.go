package handlers

import (
	"context"
)

// Validate runs the pre-deployment readiness checks and prints the report.
//
// Nothing is created or modified. A failed check produces a prerequisite
// error so the exit code distinguishes "not ready" from usage errors.
func Validate(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	orgsAPI, err := newOrgsClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}
	lzAPI, err := newLandingZoneClient(ctx, cfg.AWS.HomeRegion, cfg.AWS.Profile)
	if err != nil {
		return err
	}

	return runReadiness(ctx, cfg, orgsAPI, lzAPI)
}
