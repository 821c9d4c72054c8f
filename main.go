package main

import "github.com/AgroXSat/groundstation-services/cmd"

func main() {
	cmd.Execute()
}
