package main

import "gold-silver-alerts/internal/cli"

func main() {
	cli.Execute()
}
