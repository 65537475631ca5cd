// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	exportPath := exportCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	exportConfig := exportCmd.String("config", "configs/config.yaml", "Worker config used for timeouts")
	exportVersion := exportCmd.String("version", "1.0.0", "Version stamped on every activity")

	updatePath := updateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, description, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	validateConfig := validateCmd.String("config", "", "Also require an entry for every worker enabled in this config")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		err = exportRegistry(*exportPath, *exportConfig, *exportVersion)
	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err = updateActivity(*updatePath, *idUpdate, *field, *value)
	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		err = validateRegistry(*validatePath, *validateConfig)
	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// exportRegistry rewrites every catalog entry in the registry file,
// keeping entries it does not know about.
func exportRegistry(path, configPath, version string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	var cfg *config.Config
	if configPath != "" {
		if cfg, err = config.LoadFromFile(configPath); err != nil {
			fmt.Printf("Warning: %v; timeouts left at worker defaults\n", err)
			cfg = nil
		}
	}

	for _, e := range catalog {
		activity := e.activity(version)
		if cfg != nil {
			activity.Timeout = config.GetDuration(cfg.GetWorkerConfig(e.taskType).Timeout).String()
		}
		reg.Upsert(activity)
	}

	if err := registry.SaveRegistry(reg, path); err != nil {
		return err
	}
	fmt.Printf("Exported %d activities to %s\n", len(catalog), path)
	return nil
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity := reg.Find(id)
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(*activity)
	if err := registry.SaveRegistry(reg, path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", id, field, value)
	return nil
}

func validateRegistry(path, configPath string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		for taskType, wc := range cfg.Workers {
			if wc.Enabled && reg.Find(taskType) == nil {
				return fmt.Errorf("worker %s is enabled but has no registry entry", taskType)
			}
		}
	}

	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  export    Write every implemented worker into the registry file
  update    Update an existing activity's field
  validate  Validate the registry file
  help      Show this help message

Examples:
  registry-updater export -path configs/activity-registry.json -config configs/config.yaml
  registry-updater update -id notify-hot-lead -field status -value verified
  registry-updater validate -path configs/activity-registry.json -config configs/config.yaml`)
}
