package main

import "github.com/ZacxDev/go-static-i18n/cmd"

func main() {
	cmd.Execute()
}
