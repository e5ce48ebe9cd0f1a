package main

import "stock-importer/cmd"

func main() {
	cmd.Execute()
}
