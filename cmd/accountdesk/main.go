package main

import "github.com/nfrund/accountdesk/cmd/accountdesk/cmd"

func main() {
	cmd.Execute()
}
