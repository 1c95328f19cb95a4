package main

import (
	cmd "github.com/cozy-creator/breed-classifier/cmd/breedclassifier"
)

func main() {
	cmd.Execute()
}
