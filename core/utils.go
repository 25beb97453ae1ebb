package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd tries to find the project root "academia".
// go-test changes the working directory to the test package being run during tests,
// so relative lookups (config, data dir) break without this.
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	root := "academia"
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if filepath.Base(currDir) == root {
			return currDir
		}
		parent := filepath.Dir(currDir)
		if parent == currDir {
			return wd // root not found; fall back to the original wd
		}
		currDir = parent
	}
}
