// cmd/tools/registry-check/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"adoption-workers/internal/matching/scaler"
	"adoption-workers/pkg/registry"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	scalerPath := validateCmd.String("scaler", "configs/scaler.json", "Path to scaler artifact (empty to skip)")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listPath := listCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	updatePath := updateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	id := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validate(*validatePath, *scalerPath); err != nil {
			fmt.Fprintf(os.Stderr, "validation failed:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry and scaler validation passed.")

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*listPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load registry: %v\n", err)
			os.Exit(1)
		}
		for _, a := range reg.Activities {
			fmt.Printf("%-28s %-28s %-10s %s\n", a.TaskType, a.ID, a.ImplementationStatus, a.Timeout)
		}

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *id == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := update(*updatePath, *id, *field, *value); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)

	default:
		help()
	}
}

func validate(registryPath, scalerPath string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	fmt.Printf("Registry %s: %d activities.\n", reg.Version, len(reg.Activities))

	if scalerPath == "" {
		return nil
	}
	cfg, err := scaler.Load(scalerPath)
	if err != nil {
		return err
	}
	fmt.Printf("Scaler %s: k=%d metric=%s dimension=%d.\n", cfg.Version(), cfg.K(), cfg.Metric(), cfg.Dimension())
	return nil
}

func update(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
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

	if err := reg.Validate(); err != nil {
		return err
	}
	return reg.Save(path)
}

func help() {
	fmt.Println(`
Usage: registry-check <command> [flags]

Commands:
  validate  Validate the activity registry and the scaler artifact
  list      List registered activities
  update    Update an activity field (status, version, timeout, retries)

Examples:
  registry-check validate -path configs/activity-registry.json -scaler configs/scaler.json
  registry-check update -id matching.animal.rank -field status -value verified`)
}
