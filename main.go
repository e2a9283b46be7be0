package main

import "nathanbeddoewebdev/ec2kit/cmd"

func main() {
	cmd.Execute()
}
