//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the anima-io binary into bin/.
func (Build) Binary() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-io", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Compiles the loader for js/wasm, where the cooperative platform is the default.
func (Build) Wasm() error {
	if _, err := executeCmd("go", withArgs("build", "./engine/loader/..."), withEnv("GOOS=js", "GOARCH=wasm"), withStream()); err != nil {
		return err
	}
	return nil
}
