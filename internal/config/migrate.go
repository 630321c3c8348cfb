package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade tasklens)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 adds status_order and count_other_statuses_as.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if len(cfg.StatusOrder) == 0 {
		cfg.StatusOrder = append([]StatusGroup{}, DefaultStatusOrder...)
	}
	if cfg.CountOtherStatusesAs == "" {
		cfg.CountOtherStatusesAs = StatusNotStarted
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 introduces per-view group_by. v2 files carried no grouping,
// so views matching a default view id inherit that view's grouping.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	defaults := DefaultViews()
	for i := range cfg.Views {
		if cfg.Views[i].GroupBy != "" {
			continue
		}
		for _, d := range defaults {
			if d.ID == cfg.Views[i].ID {
				cfg.Views[i].GroupBy = d.GroupBy
				cfg.Views[i].NestedFiles = d.NestedFiles
				break
			}
		}
	}
	cfg.Version = 3
	return nil
}
