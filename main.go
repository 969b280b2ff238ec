package main

import "github.com/schubergphilis/package-checker/cmd"

func main() {
	cmd.Execute()
}
