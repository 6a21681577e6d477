package main

import "dormitory-manager/cmd"

func main() {
	cmd.Execute()
}
