package main

import "github.com/cmlabs-hris/payroll-rules-engine/internal/cli"

func main() {
	cli.Execute()
}
