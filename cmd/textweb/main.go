package main

import (
	"agent-textweb/internal/bootstrap"
)

func main() {
	bootstrap.NewApp().Run()
}
