// main.go - Application entry point
package main

import "ptolemy/cmd"

func main() {
	cmd.Execute()
}
