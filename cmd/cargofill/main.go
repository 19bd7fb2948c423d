package main

import "github.com/piwi3910/CargoFill/cmd/cargofill/cmd"

func main() {
	cmd.Execute()
}
