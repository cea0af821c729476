package main

import "focusguard/cmd/fgctl/arg"

func main() {
	arg.Execute()
}
