package main

import "github.com/dbsmedya/lapstat/cmd/lapstat/cmd"

func main() {
	cmd.Execute()
}
