package main

import "github.com/nearfaucet/backend/cmd/faucetctl/ctl"

func main() {
	ctl.Execute()
}
