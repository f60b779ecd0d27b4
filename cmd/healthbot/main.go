package main

import "github.com/sihhealth/healthbot/internal/cli"

func main() {
	cli.Execute()
}
