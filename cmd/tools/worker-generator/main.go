// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pro-discovery/pkg/registry"
)

func main() {
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to activity registry")
	taskType := flag.String("task", "", "Task type to scaffold")
	outputDir := flag.String("output", "internal/workers", "Workers root directory")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *taskType == "" {
		fmt.Println("Error: -task is required")
		flag.Usage()
		os.Exit(1)
	}

	reg, err := registry.LoadOrDefault(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	activity, ok := reg.Find(*taskType)
	if !ok {
		fmt.Printf("Task type '%s' not found in registry %s\n", *taskType, *registryPath)
		os.Exit(1)
	}

	files, err := Render(*activity)
	if err != nil {
		fmt.Printf("Error rendering scaffold: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, activity.Category, activity.ID)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("skipped %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("generated %s\n", path)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Execute in handler.go\n")
	fmt.Printf("  2. Register the handler in cmd/discovery-manager/main.go\n")
	fmt.Printf("  3. Add workers.%s to configs/config.yaml\n", activity.TaskType)
}
