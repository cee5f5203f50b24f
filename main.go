package main

import "lifecycle-monthly/cmd"

func main() {
	cmd.Execute()
}
