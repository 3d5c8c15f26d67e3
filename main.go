package main

import "github.com/frahmantamala/campaign-management/cmd"

func main() {
	cmd.Execute()
}
