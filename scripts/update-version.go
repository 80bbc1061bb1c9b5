//go:build ignore

// Bumps APP_VERSION in src/types.go.
//
//	go run scripts/update-version.go 0.2.0
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var versionRe = regexp.MustCompile(`APP_VERSION\s*=\s*"([^"]+)"`)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Error: Version not provided")
		fmt.Fprintln(os.Stderr, "Usage: go run scripts/update-version.go <version>")
		os.Exit(1)
	}

	version := os.Args[1]

	// Validate version format (basic semver check)
	matched, _ := regexp.MatchString(`^\d+\.\d+\.\d+$`, version)
	if !matched {
		fmt.Fprintln(os.Stderr, "Error: Version must be in format X.Y.Z (e.g., 1.0.0)")
		os.Exit(1)
	}

	// Run from the project root
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	typesGoPath := filepath.Join(projectRoot, "src", "types.go")
	typesContent, err := os.ReadFile(typesGoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading types.go: %v\n", err)
		os.Exit(1)
	}

	current := versionRe.FindSubmatch(typesContent)
	if current == nil {
		fmt.Fprintln(os.Stderr, "Error: APP_VERSION not found in src/types.go")
		os.Exit(1)
	}
	if string(current[1]) == version {
		fmt.Printf("Already at %s\n", version)
		return
	}

	updated := versionRe.ReplaceAll(typesContent, []byte(fmt.Sprintf(`APP_VERSION = "%s"`, version)))
	if err := os.WriteFile(typesGoPath, updated, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing types.go: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Version updated %s -> %s\n", current[1], version)
}
