//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the test suite with the race detector.
func (Run) Test() error {
	fmt.Println("Run tests...")
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet on every package.
func (Run) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Loads the given asset directory once, with debug logging.
func (Run) Assets(dir string) error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("bin/anima-io", withArgs("-v"), withEnv("ANIMA_ASSETS_DIR="+dir), withStream()); err != nil {
		return err
	}
	return nil
}
