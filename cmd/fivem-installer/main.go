package main

import "github.com/oshokin/fivem-installer/cmd/fivem-installer/cmd"

func main() {
	cmd.Execute()
}
