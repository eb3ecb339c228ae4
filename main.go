package main

import "fedcredit/loanscope/cmd"

func main() {
	cmd.Execute()
}
