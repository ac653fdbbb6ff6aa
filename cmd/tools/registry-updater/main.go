// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pro-discovery/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	initPath := initCmd.String("path", defaultRegistryPath, "Path to registry file")
	force := initCmd.Bool("force", false, "Overwrite an existing registry file")

	// Add command flags
	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., rank-by-distance)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Rank By Distance)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", registry.CategoryDiscovery, "Category (discovery, data-access)")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., rank-by-distance)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "10s", "Job timeout")
	errorCodes := addCmd.String("errorCodes", "", "Comma separated error codes")

	// Update command flags
	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")
	listPath := listCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		if err := initRegistry(*initPath, *force); err != nil {
			fmt.Printf("Error writing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default registry to %s\n", *initPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		activity := registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           splitList(*errorCodes),
			Timeout:              *timeout,
			Retries:              0,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		if err := addActivity(*addPath, &activity); err != nil {
			fmt.Printf("Error adding activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := reg.Validate(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadOrDefault(*listPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		for _, a := range reg.Activities {
			fmt.Printf("%-26s %-12s %-10s timeout=%s retries=%d\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func initRegistry(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	return registry.Save(registry.Default(), path)
}

func addActivity(path string, activity *registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0", Activities: []registry.Activity{}}
	}

	if _, exists := reg.Find(activity.TaskType); exists {
		return fmt.Errorf("activity with task type %s already exists", activity.TaskType)
	}

	reg.Activities = append(reg.Activities, *activity)
	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.Save(reg, path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var target *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			target = &reg.Activities[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		target.ImplementationStatus = value
	case "version":
		target.Version = value
	case "displayName":
		target.DisplayName = value
	case "description":
		target.Description = value
	case "category":
		target.Category = value
	case "taskType":
		target.TaskType = value
	case "timeout":
		target.Timeout = value
	case "errorCodes":
		target.ErrorCodes = splitList(value)
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		target.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.Save(reg, path)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  init     Write the built-in discovery activities to a registry file
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file
  list     Print the activities (built-in ones when the file is missing)
  help     Show this help message

Examples:
  registry-updater init -path configs/activity-registry.json
  registry-updater add -id rank-by-distance -displayName "Rank By Distance" -description "Orders profiles by distance" -taskType rank-by-distance
  registry-updater update -id search-professionals -field retries -value 5
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
