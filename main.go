package main

import (
	"os"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
